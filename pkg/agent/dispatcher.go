package agent

import (
	"context"
	"fmt"
	"strings"

	"carechat-be/internal/tracer"
	"carechat-be/pkg/conversation"
	"carechat-be/pkg/llm"
	"carechat-be/pkg/turn"
)

// Dispatcher resolves one agent by name, feeds it its conversation-scoped
// transcript, and records usage into the turn aggregator. A dispatch never
// fails: lookup and invocation errors are degraded to reply text so the turn
// can still complete.
type Dispatcher struct {
	registry   *Registry
	store      *conversation.Store
	aggregator *turn.Aggregator
	genAI      *tracer.GenAITracer
}

func NewDispatcher(
	registry *Registry,
	store *conversation.Store,
	aggregator *turn.Aggregator,
	genAI *tracer.GenAITracer,
) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		store:      store,
		aggregator: aggregator,
		genAI:      genAI,
	}
}

// Dispatch routes the question to the named agent and returns the reply text.
func (d *Dispatcher) Dispatch(ctx context.Context, conversationId, agentName, question string) string {
	a, ok := d.registry.Get(agentName)
	if !ok {
		return fmt.Sprintf("Agent '%s' not found.", agentName)
	}

	// Usage is recorded before invocation so the turn result reflects the
	// attempt even when the agent errors out.
	d.aggregator.RecordAgentUsed(conversationId, agentName)

	spanCtx, span := d.genAI.StartAgentInvocation(ctx, conversationId, agentName, question)

	transcript := d.store.GetOrCreateAgentTranscript(conversationId, agentName)
	history := append(toLLMHistory(transcript.Messages()), llm.Message{Role: "user", Content: question})

	reply, err := a.Invoke(spanCtx, conversationId, history)
	if err != nil {
		// A failed invocation still produces a reply, but the exchange is
		// not committed: the agent's sub-dialogue carries only real turns,
		// so a retry does not see phantom questions or error text.
		reply = "Error: " + err.Error()
		d.genAI.CompleteAgentInvocation(span, reply, false)
		return reply
	}

	if strings.TrimSpace(reply) == "" {
		reply = "No response generated"
	}

	d.genAI.CompleteAgentInvocation(span, reply, true)

	// Commit the question and reply together, and only while the turn is
	// still live. A cancelled turn must not mutate any transcript.
	if ctx.Err() == nil {
		transcript.AppendUser(question)
		transcript.AppendAssistant(reply)
	}
	return reply
}

func toLLMHistory(messages []conversation.Message) []llm.Message {
	history := make([]llm.Message, len(messages))
	for i, m := range messages {
		history[i] = llm.Message{
			Role:    m.Role,
			Content: m.Content,
		}
	}
	return history
}
