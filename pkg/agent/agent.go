// Package agent holds the specialized conversational agents, the registry
// they are resolved from, and the dispatcher that routes one question to one
// agent while keeping the turn bookkeeping straight.
package agent

import (
	"context"

	"carechat-be/pkg/llm"
)

// Agent is a named unit able to produce a reply for a routed question. The
// history is the agent's own sub-dialogue with this conversation; it already
// ends with the current question.
type Agent interface {
	Name() string
	Invoke(ctx context.Context, conversationId string, history []llm.Message) (string, error)
}
