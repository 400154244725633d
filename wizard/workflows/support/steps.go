package support

import (
	wf "HereToHelp/wizard/workflow"
)

var yesNo = []wf.Option{
	{Value: "yes", Label: "Yes"},
	{Value: "no", Label: "No"},
}

var helpCategories = []wf.Option{
	{Value: HelpFood, Label: "Accessing food"},
	{Value: HelpMedicines, Label: "Accessing medicines"},
	{Value: HelpEssentialSupplies, Label: "Accessing essential supplies, like toiletries or cleaning products"},
	{Value: HelpDebtAndMoney, Label: "Debt and money"},
	{Value: HelpHealth, Label: "Health"},
	{Value: HelpMentalHealth, Label: "Mental health"},
	{Value: HelpInternet, Label: "Accessing the internet"},
	{Value: HelpSomethingElse, Label: "Something else"},
}

var essentials = []wf.Option{
	{Value: "toiletries", Label: "Toiletries"},
	{Value: "cleaning products", Label: "Cleaning products"},
	{Value: "baby supplies", Label: "Baby supplies, like nappies or formula"},
	{Value: "pet supplies", Label: "Pet supplies"},
	{Value: "something else", Label: "Something else"},
}

var supporters = []wf.Option{
	{Value: "family", Label: "Family"},
	{Value: "friends", Label: "Friends"},
	{Value: "neighbours", Label: "Neighbours"},
	{Value: "community group", Label: "A community or voluntary group"},
	{Value: "council", Label: "The council"},
	{Value: "no one", Label: "No one"},
}

var deliveryWindows = []wf.Option{
	{Value: "today", Label: "Today"},
	{Value: "within 2 days", Label: "Within the next 2 days"},
	{Value: "within a week", Label: "Within the next week"},
}

var childrenCounts = []wf.Option{
	{Value: "0", Label: "None"},
	{Value: "1", Label: "1"},
	{Value: "2", Label: "2"},
	{Value: "3", Label: "3"},
	{Value: "4", Label: "4"},
	{Value: "5 or more", Label: "5 or more"},
}

func text(name, label string) wf.Field {
	return wf.Field{Name: name, Kind: wf.KindText, Label: label}
}

func hidden(name string) wf.Field {
	return wf.Field{Name: name, Kind: wf.KindText, Hidden: true}
}

// toSupplies routes to the essentials question when supplies were selected.
func toSupplies() wf.Branch {
	return wf.Branch{
		When: wf.Contains(KeyHelpCategories, HelpEssentialSupplies),
		Then: wf.GoTo(StepSupplies),
	}
}

func buildSteps(opts Options) []*wf.Step {
	return []*wf.Step{
		{
			ID:    StepOnBehalf,
			Page:  "index",
			Title: "Are you asking for help for someone else?",
			Fields: []wf.Field{
				{Name: KeyIsOnBehalf, Kind: wf.KindBoolean, Options: yesNo},
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyIsOnBehalf, "Select yes if you’re asking for help for someone else", wf.Required),
			},
			Branches: []wf.Branch{
				{When: wf.IsFalse(KeyIsOnBehalf), Then: wf.GoTo(StepAddress)},
			},
			Default: wf.GoTo(StepConsentOnBehalf),
		},
		{
			ID:    StepConsentOnBehalf,
			Title: "Do you have permission from the person you’re asking help for?",
			Fields: []wf.Field{
				{Name: KeyConsentOnBehalf, Kind: wf.KindBoolean, Options: yesNo},
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyConsentOnBehalf, "Select yes if you have the permission of the person needing help to fill in this form.", wf.Required),
			},
			Branches: []wf.Branch{
				{When: wf.IsFalse(KeyConsentOnBehalf), Then: wf.ExitEarly(ReasonNoConsent)},
			},
			Default: wf.GoTo(StepRequesterName),
		},
		{
			ID:    StepRequesterName,
			Title: "What is your name?",
			Fields: []wf.Field{
				text(KeyOnBehalfFirstName, "First name"),
				text(KeyOnBehalfLastName, "Last name"),
			},
			Default: wf.GoTo(StepRequesterEmail),
		},
		{
			ID:    StepRequesterEmail,
			Title: "How can we contact you?",
			Fields: []wf.Field{
				text(KeyOnBehalfEmail, "Email address"),
				text(KeyOnBehalfContact, "Contact number"),
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyOnBehalfEmail, "Enter an email address in the correct format, like name@example.com", wf.Email, wf.Trim).When(KeyOnBehalfEmail),
			},
			Default: wf.GoTo(StepRelationship),
		},
		{
			ID:    StepRelationship,
			Title: "What is your relationship to the person you’re requesting help for?",
			Fields: []wf.Field{
				text(KeyRelationship, "Relationship"),
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyRelationship, "Enter details of your relationship to the person you’re requesting help for.", wf.Required),
			},
			Default: wf.GoTo(StepAddress),
		},
		{
			ID:    StepAddress,
			Title: "What is the address of the person needing help?",
			Fields: []wf.Field{
				{Name: KeyLookupPostcode, Kind: wf.KindText, Label: "Postcode", Hint: "For example, E8 1EA"},
				hidden(KeyAddressFirstLine),
				hidden(KeyAddressSecondLine),
				hidden(KeyAddressThirdLine),
				hidden(KeyPostcode),
				hidden(KeyUPRN),
				hidden(KeyWard),
				hidden(KeyGazetteer),
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyLookupPostcode, "Enter a real postcode, like E8 1EA.", wf.Required, wf.Trim, wf.Escape),
				wf.Rule(KeyLookupPostcode, "Enter a real postcode, like E8 1EA.", wf.PostcodeGB, wf.Trim, wf.Upper).When(KeyLookupPostcode),
			},
			Branches: []wf.Branch{
				{When: wf.NotEquals(KeyGazetteer, opts.LocalArea), Then: wf.ExitEarly(ReasonOutOfArea)},
			},
			Default: wf.GoTo(StepHelpCategory),
		},
		{
			ID:    StepHelpCategory,
			Title: "What do you need help with?",
			Fields: []wf.Field{
				{Name: KeyHelpCategories, Kind: wf.KindMulti, Hint: "Select all that apply.", Options: helpCategories},
				text(KeyGettingInTouch, "Tell us more about why you’re getting in touch"),
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyHelpCategories, "Select what you need help with.", wf.Required),
			},
			Branches: []wf.Branch{
				{When: wf.Contains(KeyHelpCategories, HelpMedicines), Then: wf.GoTo(StepMedicineNeeded)},
				toSupplies(),
			},
			Default: wf.GoTo(StepCurrentSupport),
		},
		{
			ID:    StepMedicineNeeded,
			Title: "Do you need help getting medicines delivered?",
			Fields: []wf.Field{
				{Name: KeyMedicineDelivery, Kind: wf.KindBoolean, Options: yesNo},
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyMedicineDelivery, "Select yes if you need help with getting medicines delivered. (If nothing selected)", wf.Required),
			},
			Branches: []wf.Branch{
				{When: wf.IsTrue(KeyMedicineDelivery), Then: wf.GoTo(StepPharmacist)},
				toSupplies(),
			},
			Default: wf.GoTo(StepCurrentSupport),
		},
		{
			ID:    StepPharmacist,
			Title: "Can your pharmacy deliver medicines for free?",
			Fields: []wf.Field{
				{Name: KeyPharmacistDelivers, Kind: wf.KindBoolean, Options: yesNo},
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyPharmacistDelivers, "Select yes if your pharmacy can deliver medicines for free.", wf.Required),
			},
			Branches: []wf.Branch{
				{When: wf.IsFalse(KeyPharmacistDelivers), Then: wf.GoTo(StepMedicineDetails)},
				toSupplies(),
			},
			Default: wf.GoTo(StepCurrentSupport),
		},
		{
			ID:    StepMedicineDetails,
			Title: "Medicine collection",
			Fields: []wf.Field{
				{Name: KeyMedicineWhen, Kind: wf.KindChoice, Label: "When do your medicines need to be delivered?", Options: deliveryWindows},
				text(KeyPharmacist, "Name and address of your pharmacy"),
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyMedicineWhen, "Select when you need medicines to be delivered.", wf.Required),
				wf.Rule(KeyPharmacist, "Enter the pharmacy name for medicine collections.", wf.Required),
			},
			Branches: []wf.Branch{toSupplies()},
			Default:  wf.GoTo(StepCurrentSupport),
		},
		{
			ID:    StepSupplies,
			Title: "What essential supplies do you need?",
			Fields: []wf.Field{
				{Name: KeyUrgentEssentials, Kind: wf.KindMulti, Hint: "Select all that apply.", Options: essentials},
				text(KeyUrgentAnythingElse, "Anything else you need"),
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyUrgentEssentials, "Select the essential supplies you need.", wf.Required),
			},
			Default: wf.GoTo(StepCurrentSupport),
		},
		{
			ID:    StepCurrentSupport,
			Title: "Who is helping you at the moment?",
			Fields: []wf.Field{
				{Name: KeyCurrentSupport, Kind: wf.KindMulti, Hint: "Select all that apply.", Options: supporters},
				text(KeySupportFeedback, "Tell us more about the support you get"),
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyCurrentSupport, "Select who is helping you at the moment.", wf.Required),
			},
			Default: wf.GoTo(StepName),
		},
		{
			ID:    StepName,
			Title: "What is the name of the person needing help?",
			Fields: []wf.Field{
				text(KeyFirstName, "First name"),
				text(KeyLastName, "Last name"),
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyFirstName, "Enter your first name.", wf.Required),
				wf.Rule(KeyLastName, "Enter your last name.", wf.Required),
			},
			Default: wf.GoTo(StepDateOfBirth),
		},
		{
			ID:    StepDateOfBirth,
			Title: "What is their date of birth?",
			Fields: []wf.Field{
				text(KeyDobDay, "Day"),
				text(KeyDobMonth, "Month"),
				text(KeyDobYear, "Year"),
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyDobDay, "Enter a day of birth", wf.Required, wf.Trim, wf.Escape),
				wf.Rule(KeyDobMonth, "Enter a month of birth", wf.Required, wf.Trim, wf.Escape),
				wf.Rule(KeyDobYear, "Enter a year of birth", wf.Required, wf.Trim, wf.Escape),
			},
			Default: wf.GoTo(StepContact),
		},
		{
			ID:    StepContact,
			Title: "How can we contact them?",
			Fields: []wf.Field{
				text(KeyTelephone, "Telephone number"),
				text(KeyMobile, "Mobile number"),
				{Name: KeyEmail, Kind: wf.KindText, Label: "Email address", Hint: "We’ll send a confirmation to this address."},
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyTelephone, "Enter a telephone number, like 01632 960 001, 07700 900 982 or +44 0808 157 0192.", wf.Required, wf.Trim, wf.Escape),
				wf.Rule(KeyEmail, "Enter an email address in the correct format, like name@example.com", wf.Email, wf.Trim).When(KeyEmail),
			},
			Default: wf.GoTo(StepGPDetails),
		},
		{
			ID:    StepGPDetails,
			Title: "GP surgery details",
			Fields: []wf.Field{
				text(KeyGPSurgery, "Name and address of their GP surgery"),
			},
			Default: wf.GoTo(StepChildren),
		},
		{
			ID:    StepChildren,
			Title: "How many children under 18 live in the household?",
			Fields: []wf.Field{
				{Name: KeyChildrenUnder18, Kind: wf.KindChoice, Options: childrenCounts},
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyChildrenUnder18, "Select the number of children under 18 in your household.", wf.Required, wf.Trim, wf.Escape),
			},
			Default: wf.GoTo(StepConsentToShare),
		},
		{
			ID:    StepConsentToShare,
			Title: "Can we share this information with organisations offering help?",
			Fields: []wf.Field{
				{Name: KeyConsentToShare, Kind: wf.KindFlag, Label: "I agree to share the information in this form"},
			},
			Rules: []wf.FieldRule{
				wf.Rule(KeyConsentToShare, "Select yes if we can share the information in this form with organisations offering help.", wf.Required, wf.Trim, wf.Escape),
			},
			Default: wf.Finish(),
		},
	}
}
