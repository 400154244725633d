package entity

// SupportRequestFields is the fixed wire schema of the resident support
// requests API, in the order the payload is written.
var SupportRequestFields = []string{
	"is_on_behalf",
	"consent_to_complete_on_behalf",
	"on_behalf_first_name",
	"on_behalf_last_name",
	"on_behalf_email_address",
	"on_behalf_contact_number",
	"relationship_with_resident",
	"address_first_line",
	"address_second_line",
	"address_third_line",
	"postcode",
	"uprn",
	"ward",
	"getting_in_touch_reason",
	"help_with_accessing_food",
	"help_with_accessing_medicine",
	"help_with_accessing_other_essentials",
	"help_with_debt_and_money",
	"help_with_health",
	"help_with_mental_health",
	"help_with_accessing_internet",
	"help_with_something_else",
	"medicine_delivery_help_needed",
	"is_pharmacist_able_to_deliver",
	"name_address_pharmacist",
	"urgent_essentials",
	"urgent_essentials_anything_else",
	"current_support",
	"current_support_feedback",
	"first_name",
	"last_name",
	"dob_day",
	"dob_month",
	"dob_year",
	"contact_telephone_number",
	"contact_mobile_number",
	"email_address",
	"gp_surgery_details",
	"number_of_children_under_18",
	"consent_to_share",
	"date_time_recorded",
}
