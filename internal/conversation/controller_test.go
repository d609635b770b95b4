package conversation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/talentscout/scout/internal/groq"
)

// mockChatter implements Chatter for testing.
type mockChatter struct {
	response string
	err      error
	calls    int
	lastMsgs []groq.Message
}

func (m *mockChatter) Chat(ctx context.Context, messages []groq.Message, temperature float64, maxTokens int) (string, error) {
	m.calls++
	m.lastMsgs = messages
	return m.response, m.err
}

// validAnswers drives a session through the full questionnaire in schema order.
var validAnswers = []string{
	"Jane Doe",
	"jane@doe.com",
	"5551234567",
	"3",
	"Backend Engineer",
	"Berlin",
	"Python, Django, PostgreSQL",
}

func TestStartSession(t *testing.T) {
	c := NewController(&mockChatter{})
	s, greeting := c.StartSession()

	if s.Step != StepCollectingInfo {
		t.Errorf("Step = %q, want collecting_info", s.Step)
	}
	if greeting == "" {
		t.Error("greeting is empty")
	}
	if len(s.History) != 1 || s.History[0].Role != "assistant" {
		t.Errorf("history = %+v, want single assistant greeting", s.History)
	}
}

func TestProcessInput_EmptyInputDoesNotMutate(t *testing.T) {
	c := NewController(&mockChatter{})
	s, _ := c.StartSession()

	histLen := len(s.History)
	idx := s.FieldIndex
	step := s.Step

	for _, in := range []string{"", "   ", "\t\n"} {
		resp := c.ProcessInput(context.Background(), s, in)
		if resp == "" {
			t.Error("empty input should still produce a prompt")
		}
		if len(s.History) != histLen || s.FieldIndex != idx || s.Step != step {
			t.Errorf("empty input %q mutated session state", in)
		}
	}
}

func TestProcessInput_CompletionScenario(t *testing.T) {
	mock := &mockChatter{response: "1. What is a Python decorator?"}
	c := NewController(mock)
	s, _ := c.StartSession()

	for i, answer := range validAnswers {
		if c.IsComplete(s) {
			t.Fatalf("complete before final answer (i=%d)", i)
		}
		resp := c.ProcessInput(context.Background(), s, answer)
		if resp == "" {
			t.Fatalf("empty response at answer %d", i)
		}
		if s.FieldIndex != i+1 {
			t.Errorf("FieldIndex = %d after answer %d", s.FieldIndex, i)
		}
	}

	if !c.IsComplete(s) {
		t.Error("IsComplete = false after all fields")
	}
	if s.Step != StepQuestionsComplete {
		t.Errorf("Step = %q, want questions_complete after final answer", s.Step)
	}
	if mock.calls != 1 {
		t.Errorf("backend calls = %d, want 1 (question generation)", mock.calls)
	}
	if got := s.Fields["tech_stack"]; got != "Python, Django, PostgreSQL" {
		t.Errorf("tech_stack = %q", got)
	}
	// "Backend Engineer" contains "end" as a substring; it must be stored
	// as an answer, not treated as a termination signal.
	if got := s.Fields["desired_position"]; got != "Backend Engineer" {
		t.Errorf("desired_position = %q", got)
	}
	if s.Ended {
		t.Error("session ended during the questionnaire")
	}
}

func TestProcessInput_InvalidAnswerRepromptsSameField(t *testing.T) {
	c := NewController(&mockChatter{})
	s, _ := c.StartSession()

	c.ProcessInput(context.Background(), s, "Jane Doe")
	resp := c.ProcessInput(context.Background(), s, "not-an-email")

	if s.FieldIndex != 1 {
		t.Errorf("FieldIndex = %d, want 1 (cursor must not advance)", s.FieldIndex)
	}
	if !strings.Contains(resp, "I need valid information.") {
		t.Errorf("response %q should carry the validation-failure notice", resp)
	}
	if !strings.Contains(resp, "email") {
		t.Errorf("response %q should re-prompt for email", resp)
	}

	// A later valid answer still advances.
	c.ProcessInput(context.Background(), s, "jane@doe.com")
	if s.FieldIndex != 2 {
		t.Errorf("FieldIndex = %d after recovery, want 2", s.FieldIndex)
	}
}

func TestProcessInput_FieldIndexMonotone(t *testing.T) {
	c := NewController(&mockChatter{response: "q"})
	s, _ := c.StartSession()

	inputs := []string{"Jane Doe", "bad email", "x", "jane@doe.com", "123", "5551234567"}
	prev := s.FieldIndex
	for _, in := range inputs {
		c.ProcessInput(context.Background(), s, in)
		if s.FieldIndex < prev {
			t.Fatalf("FieldIndex decreased: %d -> %d", prev, s.FieldIndex)
		}
		prev = s.FieldIndex
	}
}

func TestProcessInput_TerminationPriority(t *testing.T) {
	c := NewController(&mockChatter{})
	s, _ := c.StartSession()

	resp := c.ProcessInput(context.Background(), s, "ok bye")

	if !s.Ended {
		t.Error("Ended = false, want true")
	}
	if len(s.Fields) != 0 {
		t.Errorf("fields = %+v, want none stored for a termination utterance", s.Fields)
	}
	if resp != endMessage {
		t.Errorf("response = %q, want end-of-conversation message", resp)
	}
	if c.IsComplete(s) {
		t.Error("IsComplete must stay false after early termination")
	}
}

func TestProcessInput_TerminationInAnyStep(t *testing.T) {
	mock := &mockChatter{response: "questions"}
	c := NewController(mock)
	s, _ := c.StartSession()
	for _, a := range validAnswers {
		c.ProcessInput(context.Background(), s, a)
	}
	if s.Step != StepQuestionsComplete {
		t.Fatalf("setup: step = %q", s.Step)
	}

	resp := c.ProcessInput(context.Background(), s, "thanks, I'm done")
	if !s.Ended || resp != endMessage {
		t.Errorf("termination in questions_complete: ended=%v resp=%q", s.Ended, resp)
	}
}

func TestProcessInput_FollowUpForwardsHistory(t *testing.T) {
	mock := &mockChatter{response: "Sure, here's a hint."}
	c := NewController(mock)
	s, _ := c.StartSession()
	for _, a := range validAnswers {
		c.ProcessInput(context.Background(), s, a)
	}

	c.ProcessInput(context.Background(), s, "can you clarify question 2?")

	msgs := mock.lastMsgs
	if len(msgs) < 3 {
		t.Fatalf("backend got %d messages, want system+history+utterance", len(msgs))
	}
	if msgs[0].Role != "system" {
		t.Errorf("first message role = %q, want system", msgs[0].Role)
	}
	last := msgs[len(msgs)-1]
	if last.Role != "user" || last.Content != "can you clarify question 2?" {
		t.Errorf("last message = %+v, want the new utterance", last)
	}
}

func TestProcessInput_BackendFailureKeepsStep(t *testing.T) {
	mock := &mockChatter{response: "questions"}
	c := NewController(mock)
	s, _ := c.StartSession()
	for _, a := range validAnswers {
		c.ProcessInput(context.Background(), s, a)
	}

	mock.err = fmt.Errorf("connection refused")
	resp := c.ProcessInput(context.Background(), s, "what about concurrency?")

	if resp == "" {
		t.Fatal("apology must be non-empty")
	}
	if !strings.Contains(resp, "connection refused") {
		t.Errorf("apology %q should embed the cause", resp)
	}
	if s.Step != StepQuestionsComplete {
		t.Errorf("Step = %q, want unchanged questions_complete", s.Step)
	}

	// Conversation continues once the backend recovers.
	mock.err = nil
	mock.response = "recovered"
	if got := c.ProcessInput(context.Background(), s, "still there?"); got != "recovered" {
		t.Errorf("post-recovery response = %q", got)
	}
}

func TestProcessInput_QuestionGenerationFailureRetries(t *testing.T) {
	mock := &mockChatter{err: fmt.Errorf("rate limited")}
	c := NewController(mock)
	s, _ := c.StartSession()

	for _, a := range validAnswers {
		c.ProcessInput(context.Background(), s, a)
	}

	if s.Step != StepGeneratingQuestions {
		t.Fatalf("Step = %q, want generating_questions kept after failure", s.Step)
	}
	if !c.IsComplete(s) {
		t.Error("completion is independent of the backend outcome")
	}

	mock.err = nil
	mock.response = "1. Explain goroutines."
	resp := c.ProcessInput(context.Background(), s, "ready when you are")
	if resp != "1. Explain goroutines." {
		t.Errorf("retry response = %q", resp)
	}
	if s.Step != StepQuestionsComplete {
		t.Errorf("Step = %q after retry, want questions_complete", s.Step)
	}
}

func TestHistoryBound(t *testing.T) {
	mock := &mockChatter{response: "ok"}
	c := NewController(mock)
	s, _ := c.StartSession()
	s.Step = StepQuestionsComplete

	for i := range 30 {
		c.ProcessInput(context.Background(), s, fmt.Sprintf("message %d", i))
	}

	if len(s.History) != 20 {
		t.Fatalf("history length = %d, want 20", len(s.History))
	}
	// Most recent entries retained in original relative order.
	last := s.History[len(s.History)-2]
	if last.Role != "user" || last.Content != "message 29" {
		t.Errorf("second-to-last entry = %+v, want latest user message", last)
	}
	if s.History[len(s.History)-1].Content != "ok" {
		t.Errorf("last entry = %+v, want latest assistant reply", s.History[len(s.History)-1])
	}
}

func TestProcessInput_EndedSessionIsInert(t *testing.T) {
	mock := &mockChatter{response: "q"}
	c := NewController(mock)
	s, _ := c.StartSession()
	c.ProcessInput(context.Background(), s, "Jane Doe")
	c.ProcessInput(context.Background(), s, "bye")
	if !s.Ended {
		t.Fatal("setup: session should be ended")
	}

	histLen := len(s.History)
	resp := c.ProcessInput(context.Background(), s, "jane@doe.com")

	if resp != endMessage {
		t.Errorf("response = %q, want the end message", resp)
	}
	if len(s.Fields) != 1 || s.FieldIndex != 1 {
		t.Errorf("ended session mutated: fields=%+v index=%d", s.Fields, s.FieldIndex)
	}
	if len(s.History) != histLen {
		t.Error("ended session appended to history")
	}
	if mock.calls != 0 {
		t.Errorf("backend calls = %d, want 0", mock.calls)
	}
}

func TestResetSession(t *testing.T) {
	c := NewController(&mockChatter{response: "q"})
	s, _ := c.StartSession()
	for _, a := range validAnswers[:3] {
		c.ProcessInput(context.Background(), s, a)
	}

	greeting := c.ResetSession(s)

	if greeting == "" {
		t.Error("reset should return the greeting")
	}
	if s.Step != StepCollectingInfo || s.FieldIndex != 0 {
		t.Errorf("state after reset: step=%q index=%d", s.Step, s.FieldIndex)
	}
	if len(s.Fields) != 0 {
		t.Errorf("fields survived reset: %+v", s.Fields)
	}
	if len(s.History) != 1 {
		t.Errorf("history length = %d after reset, want 1", len(s.History))
	}

	// The questionnaire starts over from the first field.
	c.ProcessInput(context.Background(), s, "John Smith")
	if s.Fields["full_name"] != "John Smith" {
		t.Errorf("fields after reset = %+v", s.Fields)
	}
}

func TestSessionRecord_MergesExtras(t *testing.T) {
	s := NewSession()
	s.Fields["full_name"] = "Jane Doe"
	s.Extras["resume_excerpt"] = "Ten years of Go."

	rec := s.Record()
	if rec["full_name"] != "Jane Doe" || rec["resume_excerpt"] != "Ten years of Go." {
		t.Errorf("Record() = %+v", rec)
	}

	// Extras never count toward completion.
	c := NewController(&mockChatter{})
	if c.IsComplete(s) {
		t.Error("IsComplete must ignore extras")
	}
}
