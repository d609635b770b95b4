// Package conversation implements the deterministic state machine that
// drives a candidate screening conversation: it sequences the required
// profile questions, validates answers, and delegates free-form turns to a
// generative backend.
package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/talentscout/scout/internal/groq"
)

const (
	defaultTemperature  = 0.7
	defaultMaxTokens    = 1000
	defaultHistoryLimit = 20
)

// Chatter is the generative backend the controller delegates to.
// Implemented by groq.Client.
type Chatter interface {
	Chat(ctx context.Context, messages []groq.Message, temperature float64, maxTokens int) (string, error)
}

// Controller sequences a screening conversation. It holds no per-session
// state; all mutable state lives in the Session passed to each call.
type Controller struct {
	backend Chatter

	Temperature  float64
	MaxTokens    int
	HistoryLimit int
}

// NewController creates a Controller with default generation parameters.
func NewController(backend Chatter) *Controller {
	return &Controller{
		backend:      backend,
		Temperature:  defaultTemperature,
		MaxTokens:    defaultMaxTokens,
		HistoryLimit: defaultHistoryLimit,
	}
}

// StartSession creates a fresh session and returns it along with the
// greeting text. The session moves straight into info collection.
func (c *Controller) StartSession() (*Session, string) {
	s := NewSession()
	c.appendHistory(s, "assistant", greetingMessage)
	s.Step = StepCollectingInfo
	return s, greetingMessage
}

// ResetSession clears the session back to a fresh conversation in place and
// returns the greeting. The hosting layer keeps the same Session value, so
// registered IDs stay valid across a restart.
func (c *Controller) ResetSession(s *Session) string {
	*s = *NewSession()
	c.appendHistory(s, "assistant", greetingMessage)
	s.Step = StepCollectingInfo
	return greetingMessage
}

// ProcessInput runs one conversation turn: it appends the utterance to
// history, checks for termination intent, then dispatches on the current
// step. The returned text is the assistant's reply for this turn.
func (c *Controller) ProcessInput(ctx context.Context, s *Session, input string) string {
	if strings.TrimSpace(input) == "" {
		// No state mutation for empty input, not even a history append.
		return emptyInputMessage
	}

	// An ended session is inert: further input never reaches field
	// collection or the backend.
	if s.Ended {
		return endMessage
	}

	c.appendHistory(s, "user", input)

	// Termination takes priority over everything, including field
	// validation: an answer containing an end keyword ends the
	// conversation instead of being stored.
	if IsEndSignal(input) {
		s.Ended = true
		c.appendHistory(s, "assistant", endMessage)
		return endMessage
	}

	switch s.Step {
	case StepCollectingInfo:
		return c.collectField(ctx, s, input)
	case StepGeneratingQuestions:
		return c.generateQuestions(ctx, s)
	case StepQuestionsComplete:
		return c.followUp(ctx, s, input)
	default:
		return c.fallback(ctx, s, input)
	}
}

// collectField validates the utterance against the current schema field.
// A valid answer advances the cursor; the final one rolls straight into
// question generation without consuming another user turn.
func (c *Controller) collectField(ctx context.Context, s *Session, input string) string {
	if s.FieldIndex >= len(Schema) {
		return c.fallback(ctx, s, input)
	}

	field := Schema[s.FieldIndex]
	value := strings.TrimSpace(input)

	if !field.Valid(value) {
		resp := "I need valid information. " + field.Prompt
		c.appendHistory(s, "assistant", resp)
		return resp
	}

	s.Fields[field.Name] = value
	s.FieldIndex++

	if s.FieldIndex >= len(Schema) {
		s.Step = StepGeneratingQuestions
		return c.generateQuestions(ctx, s)
	}

	resp := Schema[s.FieldIndex].Prompt
	c.appendHistory(s, "assistant", resp)
	return resp
}

// generateQuestions asks the backend for technical questions calibrated to
// the candidate's tech stack and experience. On success the session moves to
// questions_complete; on backend failure the step is unchanged so the next
// turn retries.
func (c *Controller) generateQuestions(ctx context.Context, s *Session) string {
	messages := []groq.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(technicalQuestionTemplate, s.Fields["tech_stack"], s.Fields["experience_years"])},
	}

	resp, err := c.backend.Chat(ctx, messages, c.Temperature, c.MaxTokens)
	if err != nil {
		return c.apologize(s, err)
	}

	s.Step = StepQuestionsComplete
	c.appendHistory(s, "assistant", resp)
	return resp
}

// followUp forwards the bounded history plus the new utterance to the
// backend verbatim. The model's output is opaque text; no parsing happens.
func (c *Controller) followUp(ctx context.Context, s *Session, input string) string {
	messages := make([]groq.Message, 0, len(s.History)+2)
	messages = append(messages, groq.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, s.History...)
	messages = append(messages, groq.Message{Role: "user", Content: input})

	resp, err := c.backend.Chat(ctx, messages, c.Temperature, c.MaxTokens)
	if err != nil {
		return c.apologize(s, err)
	}

	c.appendHistory(s, "assistant", resp)
	return resp
}

// fallback asks the backend for a polite redirect when the session is in an
// unrecognized step.
func (c *Controller) fallback(ctx context.Context, s *Session, input string) string {
	messages := []groq.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("User said: '%s'. Respond with: %s", input, fallbackInstruction)},
	}

	resp, err := c.backend.Chat(ctx, messages, c.Temperature, c.MaxTokens)
	if err != nil {
		return c.apologize(s, err)
	}

	c.appendHistory(s, "assistant", resp)
	return resp
}

// apologize converts a backend failure into a recoverable assistant turn.
// The step is left unchanged so the conversation can continue.
func (c *Controller) apologize(s *Session, err error) string {
	resp := fmt.Sprintf("I apologize, but I'm experiencing technical difficulties. Error: %v", err)
	c.appendHistory(s, "assistant", resp)
	return resp
}

// appendHistory appends a message and trims to the most recent HistoryLimit
// entries, oldest evicted first.
func (c *Controller) appendHistory(s *Session, role, content string) {
	s.History = append(s.History, groq.Message{Role: role, Content: content})
	limit := c.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if len(s.History) > limit {
		s.History = s.History[len(s.History)-limit:]
	}
}

// IsComplete reports whether every schema field has been collected. It is
// independent of the current step and can be polled at any time.
func (c *Controller) IsComplete(s *Session) bool {
	return len(s.Fields) == len(Schema)
}

// IsEnded reports whether the session has seen a termination signal.
func (c *Controller) IsEnded(s *Session) bool {
	return s.Ended
}

// CollectedFields returns a copy of the validated schema fields collected
// so far.
func (c *Controller) CollectedFields(s *Session) map[string]string {
	out := make(map[string]string, len(s.Fields))
	for k, v := range s.Fields {
		out[k] = v
	}
	return out
}
