package agent

import (
	"context"
	"errors"
	"testing"

	"carechat-be/internal/tracer"
	"carechat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type stubMailer struct {
	err     error
	to      string
	action  string
	details string
	calls   int
}

func (m *stubMailer) SendConfirmation(toEmail, action, details string) error {
	m.calls++
	m.to = toEmail
	m.action = action
	m.details = details
	return m.err
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

func TestAdminAgentSendsConfirmationEmail(t *testing.T) {
	model := &stubLLM{reply: "Uw afspraak is verzet naar donderdag."}
	mail := &stubMailer{}

	a := NewAdminAgent(model, mail, tracer.NewGenAITracer(), noopLogger{})

	history := []llm.Message{
		{Role: "user", Content: "Ik wil mijn afspraak verzetten, mijn email is jan@example.com"},
	}
	reply, err := a.Invoke(context.Background(), "conv-1", history)

	assert.NoError(t, err)
	assert.Equal(t, 1, mail.calls)
	assert.Equal(t, "jan@example.com", mail.to)
	assert.Equal(t, "appointment rescheduling", mail.action)
	assert.Contains(t, reply, "A confirmation email has been sent to jan@example.com.")
}

func TestAdminAgentNoEmailNoConfirmation(t *testing.T) {
	model := &stubLLM{reply: "Op welk emailadres kan ik u bereiken?"}
	mail := &stubMailer{}

	a := NewAdminAgent(model, mail, tracer.NewGenAITracer(), noopLogger{})

	history := []llm.Message{{Role: "user", Content: "Ik wil een afspraak maken"}}
	reply, err := a.Invoke(context.Background(), "conv-1", history)

	assert.NoError(t, err)
	assert.Zero(t, mail.calls)
	assert.NotContains(t, reply, "confirmation email")
}

func TestAdminAgentMailFailureKeepsReply(t *testing.T) {
	model := &stubLLM{reply: "Uw klacht is geregistreerd."}
	mail := &stubMailer{err: errors.New("smtp unreachable")}

	a := NewAdminAgent(model, mail, tracer.NewGenAITracer(), noopLogger{})

	history := []llm.Message{
		{Role: "user", Content: "Ik heb een klacht, mail me op jan@example.com"},
	}
	reply, err := a.Invoke(context.Background(), "conv-1", history)

	assert.NoError(t, err)
	assert.Equal(t, 1, mail.calls)
	assert.Equal(t, "Uw klacht is geregistreerd.", reply)
}

func TestClassifyAction(t *testing.T) {
	tests := []struct {
		details string
		want    string
	}{
		{"ik heb een klacht over de declaratie", "complaint intake"},
		{"I want to file a complaint", "complaint intake"},
		{"afspraak annuleren graag", "appointment cancellation"},
		{"please cancel my appointment", "appointment cancellation"},
		{"kan ik mijn afspraak verzetten", "appointment rescheduling"},
		{"reschedule to friday", "appointment rescheduling"},
		{"ik wil een afspraak maken", "appointment booking"},
	}

	for _, tt := range tests {
		if got := classifyAction(tt.details); got != tt.want {
			t.Errorf("classifyAction(%q) = %q, want %q", tt.details, got, tt.want)
		}
	}
}
