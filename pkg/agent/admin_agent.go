package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"carechat-be/internal/constant"
	"carechat-be/internal/pkg/logger"
	"carechat-be/internal/pkg/mailer"
	"carechat-be/internal/tracer"
	"carechat-be/pkg/llm"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// AdminAgent handles appointment scheduling, rescheduling, cancellations and
// complaint intake. When the user supplies an email address, a confirmation
// email is sent as a side effect of the reply.
type AdminAgent struct {
	llmProvider llm.LLMProvider
	mail        mailer.IEmailService
	genAI       *tracer.GenAITracer
	log         logger.ILogger
}

var _ Agent = &AdminAgent{}

func NewAdminAgent(
	llmProvider llm.LLMProvider,
	mail mailer.IEmailService,
	genAI *tracer.GenAITracer,
	log logger.ILogger,
) *AdminAgent {
	return &AdminAgent{
		llmProvider: llmProvider,
		mail:        mail,
		genAI:       genAI,
		log:         log,
	}
}

func (a *AdminAgent) Name() string {
	return "AdminAgent"
}

func (a *AdminAgent) Invoke(ctx context.Context, conversationId string, history []llm.Message) (string, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: "system", Content: constant.AdminAgentInstructions})
	messages = append(messages, history...)

	reply, err := a.llmProvider.Chat(ctx, messages)
	if err != nil {
		return "", err
	}

	question := lastUserMessage(history)
	if email := emailPattern.FindString(question); email != "" {
		if sent := a.sendConfirmation(ctx, conversationId, email, question); sent {
			reply = strings.TrimRight(reply, "\n") +
				fmt.Sprintf("\n\nA confirmation email has been sent to %s.", email)
		}
	}

	return reply, nil
}

func (a *AdminAgent) sendConfirmation(ctx context.Context, conversationId, email, details string) bool {
	_, span := a.genAI.StartToolInvocation(ctx, conversationId, a.Name(), "EmailTool", email)

	action := classifyAction(details)
	if err := a.mail.SendConfirmation(email, action, details); err != nil {
		// The email is a best-effort side effect; the reply stands either way
		a.log.Warn("agent", "Confirmation email failed", map[string]interface{}{
			"chatId": conversationId,
			"error":  err.Error(),
		})
		a.genAI.CompleteToolInvocation(span, "Error: "+err.Error(), false)
		return false
	}

	a.genAI.CompleteToolInvocation(span, fmt.Sprintf("Confirmation for %s sent to %s", action, email), true)
	return true
}

func classifyAction(details string) string {
	lower := strings.ToLower(details)
	switch {
	case strings.Contains(lower, "klacht") || strings.Contains(lower, "complaint"):
		return "complaint intake"
	case strings.Contains(lower, "annuleren") || strings.Contains(lower, "cancel"):
		return "appointment cancellation"
	case strings.Contains(lower, "verzetten") || strings.Contains(lower, "reschedul"):
		return "appointment rescheduling"
	default:
		return "appointment booking"
	}
}
