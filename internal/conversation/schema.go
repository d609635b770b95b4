package conversation

import "github.com/talentscout/scout/internal/validate"

// Field is one entry in the required candidate profile.
type Field struct {
	Name   string
	Prompt string
	Valid  func(s string) bool
}

// Schema is the fixed, ordered list of fields every candidate must provide.
// Order determines prompt order and completion order; it never changes
// during a session.
var Schema = []Field{
	{
		Name:   "full_name",
		Prompt: "Great! What's your full name?",
		Valid:  func(s string) bool { return validate.FreeText(s, 2) },
	},
	{
		Name:   "email",
		Prompt: "Perfect! Could you provide your email address?",
		Valid:  validate.Email,
	},
	{
		Name:   "phone",
		Prompt: "Thank you! What's your phone number?",
		Valid:  validate.Phone,
	},
	{
		Name:   "experience_years",
		Prompt: "Excellent! How many years of professional experience do you have?",
		Valid:  validate.ExperienceYears,
	},
	{
		Name:   "desired_position",
		Prompt: "What position(s) are you interested in applying for?",
		Valid:  func(s string) bool { return validate.FreeText(s, 2) },
	},
	{
		Name:   "location",
		Prompt: "What's your current location?",
		Valid:  func(s string) bool { return validate.FreeText(s, 2) },
	},
	{
		Name:   "tech_stack",
		Prompt: "Finally, could you tell me about your tech stack? Please include programming languages, frameworks, databases, and tools you're proficient in.",
		Valid:  func(s string) bool { return validate.FreeText(s, 2) },
	},
}
