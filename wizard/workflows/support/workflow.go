package support

import (
	"HereToHelp/entity"
	"HereToHelp/wizard/workflow"
	_ "embed"
	"fmt"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "resident-support"
)

// Step IDs
const (
	StepOnBehalf        workflow.StepID = "step-1"
	StepConsentOnBehalf workflow.StepID = "step-1-1"
	StepRequesterName   workflow.StepID = "step-1-2"
	StepRequesterEmail  workflow.StepID = "step-1-3"
	StepRelationship    workflow.StepID = "step-1-4"
	StepAddress         workflow.StepID = "step-2"
	StepHelpCategory    workflow.StepID = "step-3"
	StepMedicineNeeded  workflow.StepID = "step-3-1"
	StepPharmacist      workflow.StepID = "step-3-2"
	StepMedicineDetails workflow.StepID = "step-3-3"
	StepSupplies        workflow.StepID = "step-3-4"
	StepCurrentSupport  workflow.StepID = "step-4"
	StepName            workflow.StepID = "step-5"
	StepDateOfBirth     workflow.StepID = "step-6"
	StepContact         workflow.StepID = "step-7"
	StepGPDetails       workflow.StepID = "step-8"
	StepChildren        workflow.StepID = "step-9"
	StepConsentToShare  workflow.StepID = "step-10"
)

// Early exit reasons shown on the completion page.
const (
	ReasonNoConsent  = "1-1"
	ReasonOutOfArea  = "2"
	DefaultLocalArea = "LOCAL"
)

// Record keys
const (
	KeyIsOnBehalf          = "is_on_behalf"
	KeyConsentOnBehalf     = "consent_to_complete_on_behalf"
	KeyOnBehalfFirstName   = "on_behalf_first_name"
	KeyOnBehalfLastName    = "on_behalf_last_name"
	KeyOnBehalfEmail       = "on_behalf_email_address"
	KeyOnBehalfContact     = "on_behalf_contact_number"
	KeyRelationship        = "relationship_with_resident"
	KeyLookupPostcode      = "lookup_postcode"
	KeyAddressFirstLine    = "address_first_line"
	KeyAddressSecondLine   = "address_second_line"
	KeyAddressThirdLine    = "address_third_line"
	KeyPostcode            = "postcode"
	KeyUPRN                = "uprn"
	KeyWard                = "ward"
	KeyGazetteer           = "gazetteer"
	KeyGettingInTouch      = "getting_in_touch_reason"
	KeyHelpCategories      = "what_coronavirus_help"
	KeyMedicineDelivery    = "medicine_delivery_help_needed"
	KeyPharmacistDelivers  = "is_pharmacist_able_to_deliver"
	KeyMedicineWhen        = "when_is_medicines_delivered"
	KeyPharmacist          = "name_address_pharmacist"
	KeyUrgentEssentials    = "urgent_essentials"
	KeyUrgentAnythingElse  = "urgent_essentials_anything_else"
	KeyCurrentSupport      = "current_support"
	KeySupportFeedback     = "current_support_feedback"
	KeyFirstName           = "first_name"
	KeyLastName            = "last_name"
	KeyDobDay              = "dob_day"
	KeyDobMonth            = "dob_month"
	KeyDobYear             = "dob_year"
	KeyTelephone           = "contact_telephone_number"
	KeyMobile              = "contact_mobile_number"
	KeyEmail               = "email"
	KeyGPSurgery           = "gp_surgery_details"
	KeyChildrenUnder18     = "number_of_children_under_18"
	KeyConsentToShare      = "consent_to_share"
	HelpMedicines          = "accessing medicines"
	HelpEssentialSupplies  = "accessing essential supplies"
	HelpFood               = "accessing food"
	HelpDebtAndMoney       = "debt and money"
	HelpHealth             = "health"
	HelpMentalHealth       = "mental health"
	HelpInternet           = "accessing the internet"
	HelpSomethingElse      = "something else"
)

//go:embed mapping.yml
var defaultMapping []byte

// Options tune the journey at start-up.
type Options struct {
	// LocalArea is the gazetteer value of addresses the service covers.
	LocalArea string
	// MappingPath overrides the embedded mapping table.
	MappingPath string
}

// SupportWorkflow is the resident support request journey.
type SupportWorkflow struct {
	steps   map[workflow.StepID]*workflow.Step
	order   []workflow.StepID
	pages   map[string]workflow.StepID
	mapping *workflow.Mapping
}

// NewSupportWorkflow builds the step table and loads the mapping table.
func NewSupportWorkflow(opts Options) (*SupportWorkflow, error) {
	if opts.LocalArea == "" {
		opts.LocalArea = DefaultLocalArea
	}

	mapping, err := loadMapping(opts.MappingPath)
	if err != nil {
		return nil, err
	}

	w := &SupportWorkflow{
		steps:   make(map[workflow.StepID]*workflow.Step),
		pages:   make(map[string]workflow.StepID),
		mapping: mapping,
	}
	for _, step := range buildSteps(opts) {
		w.steps[step.ID] = step
		w.pages[step.PageName()] = step.ID
		w.order = append(w.order, step.ID)
	}

	return w, nil
}

// DefaultMapping parses the embedded mapping table.
func DefaultMapping() (*workflow.Mapping, error) {
	return workflow.ParseMapping(defaultMapping, entity.SupportRequestFields)
}

func loadMapping(path string) (*workflow.Mapping, error) {
	if path == "" {
		m, err := DefaultMapping()
		if err != nil {
			return nil, fmt.Errorf("embedded mapping: %w", err)
		}
		return m, nil
	}
	return workflow.LoadMapping(path, entity.SupportRequestFields)
}

// ID returns the workflow ID.
func (w *SupportWorkflow) ID() workflow.WorkflowID {
	return WorkflowID
}

// InitialStep returns the first step.
func (w *SupportWorkflow) InitialStep() workflow.StepID {
	return StepOnBehalf
}

// GetStep returns a step by ID.
func (w *SupportWorkflow) GetStep(id workflow.StepID) (*workflow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}

// StepForPage returns the step rendered by a page.
func (w *SupportWorkflow) StepForPage(page string) (*workflow.Step, bool) {
	id, ok := w.pages[page]
	if !ok {
		return nil, false
	}
	return w.GetStep(id)
}

// Steps returns all steps in journey order.
func (w *SupportWorkflow) Steps() []*workflow.Step {
	steps := make([]*workflow.Step, 0, len(w.order))
	for _, id := range w.order {
		steps = append(steps, w.steps[id])
	}
	return steps
}

// Mapping returns the submission mapping table.
func (w *SupportWorkflow) Mapping() *workflow.Mapping {
	return w.mapping
}
