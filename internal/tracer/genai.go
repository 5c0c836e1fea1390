package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxAttrLen = 2048

// GenAITracer brackets agent and tool invocations with spans and stamps them
// with gen_ai.* attributes. Span completion always happens; the success flag
// reflects whether the invocation produced an error.
type GenAITracer struct {
	tracer trace.Tracer
}

func NewGenAITracer() *GenAITracer {
	return &GenAITracer{
		tracer: otel.Tracer("carechat-be/genai"),
	}
}

// StartAgentInvocation opens a span covering one agent call within a turn.
func (t *GenAITracer) StartAgentInvocation(ctx context.Context, chatId, agentName, input string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "invoke_agent "+agentName,
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "invoke_agent"),
			attribute.String("gen_ai.conversation.id", chatId),
			attribute.String("gen_ai.agent.name", agentName),
			attribute.String("gen_ai.input", truncate(input)),
		))
	return ctx, span
}

// CompleteAgentInvocation records the output and closes the span.
func (t *GenAITracer) CompleteAgentInvocation(span trace.Span, output string, success bool) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.String("gen_ai.output", truncate(output)))
	if !success {
		span.SetStatus(codes.Error, "agent invocation failed")
	}
	span.End()
}

// StartToolInvocation opens a span covering one tool call made by an agent,
// e.g. the intent classifier or the document search.
func (t *GenAITracer) StartToolInvocation(ctx context.Context, chatId, agentName, toolName, input string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "execute_tool "+toolName,
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "execute_tool"),
			attribute.String("gen_ai.conversation.id", chatId),
			attribute.String("gen_ai.agent.name", agentName),
			attribute.String("gen_ai.tool.name", toolName),
			attribute.String("gen_ai.input", truncate(input)),
		))
	return ctx, span
}

func (t *GenAITracer) CompleteToolInvocation(span trace.Span, output string, success bool) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.String("gen_ai.output", truncate(output)))
	if !success {
		span.SetStatus(codes.Error, "tool invocation failed")
	}
	span.End()
}

func truncate(s string) string {
	if len(s) > maxAttrLen {
		return s[:maxAttrLen]
	}
	return s
}
