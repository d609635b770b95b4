package conversation

import "github.com/talentscout/scout/internal/groq"

// Step identifies the controller state a session is in.
type Step string

const (
	StepGreeting            Step = "greeting"
	StepCollectingInfo      Step = "collecting_info"
	StepGeneratingQuestions Step = "generating_questions"
	StepQuestionsComplete   Step = "questions_complete"
)

// Session holds the mutable state of one conversation. It is an explicit
// value owned by the hosting layer and passed into every controller
// operation; the controller itself keeps no per-conversation state. A
// Session must not be used from more than one goroutine at a time.
type Session struct {
	Step       Step
	Fields     map[string]string // validated values, keyed by schema field name
	FieldIndex int               // cursor into Schema
	History    []groq.Message    // bounded, most recent last
	Ended      bool

	// Extras carries optional pass-through data (e.g. a resume excerpt)
	// that is merged into the persisted record but never counts toward
	// questionnaire completion.
	Extras map[string]string
}

// NewSession creates an empty session in the greeting step.
func NewSession() *Session {
	return &Session{
		Step:   StepGreeting,
		Fields: make(map[string]string),
		Extras: make(map[string]string),
	}
}

// Record returns the collected fields merged with extras, in a fresh map.
func (s *Session) Record() map[string]string {
	out := make(map[string]string, len(s.Fields)+len(s.Extras))
	for k, v := range s.Fields {
		out[k] = v
	}
	for k, v := range s.Extras {
		out[k] = v
	}
	return out
}
