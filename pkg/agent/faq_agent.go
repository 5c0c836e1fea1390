package agent

import (
	"context"
	"fmt"
	"strings"

	"carechat-be/internal/constant"
	"carechat-be/internal/tracer"
	"carechat-be/pkg/llm"
	"carechat-be/pkg/references"
	"carechat-be/pkg/search"
	"carechat-be/pkg/turn"
)

// FAQAgent answers insurance coverage questions. It grounds every answer in
// retrieved document passages and records the source titles as citations for
// the current turn.
type FAQAgent struct {
	llmProvider llm.LLMProvider
	searcher    search.Provider
	aggregator  *turn.Aggregator
	genAI       *tracer.GenAITracer
	topK        int
}

var _ Agent = &FAQAgent{}

func NewFAQAgent(
	llmProvider llm.LLMProvider,
	searcher search.Provider,
	aggregator *turn.Aggregator,
	genAI *tracer.GenAITracer,
	topK int,
) *FAQAgent {
	if topK <= 0 {
		topK = 5
	}
	return &FAQAgent{
		llmProvider: llmProvider,
		searcher:    searcher,
		aggregator:  aggregator,
		genAI:       genAI,
		topK:        topK,
	}
}

func (a *FAQAgent) Name() string {
	return "FAQAgent"
}

func (a *FAQAgent) Invoke(ctx context.Context, conversationId string, history []llm.Message) (string, error) {
	question := lastUserMessage(history)

	passages, err := a.searchDocuments(ctx, conversationId, question)
	if err != nil {
		return "", err
	}

	titles := search.Titles(passages)
	a.aggregator.RecordDocumentsCited(conversationId, titles)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: constant.FAQAgentInstructions})
	if len(passages) > 0 {
		messages = append(messages, llm.Message{Role: "system", Content: formatSources(passages)})
	}
	messages = append(messages, history...)

	reply, err := a.llmProvider.Chat(ctx, messages)
	if err != nil {
		return "", err
	}

	// The model is instructed to close with a References line; repair the
	// reply when it forgot, so downstream extraction still works.
	if len(titles) > 0 && len(references.Extract(reply)) == 0 {
		reply = strings.TrimRight(reply, "\n") + "\n\nReferences: " + strings.Join(titles, ", ")
	}

	return reply, nil
}

func (a *FAQAgent) searchDocuments(ctx context.Context, conversationId, question string) ([]search.Passage, error) {
	spanCtx, span := a.genAI.StartToolInvocation(ctx, conversationId, a.Name(), "SearchTool", question)
	passages, err := a.searcher.Search(spanCtx, question, a.topK)
	if err != nil {
		a.genAI.CompleteToolInvocation(span, "Error: "+err.Error(), false)
		return nil, fmt.Errorf("document search: %w", err)
	}
	a.genAI.CompleteToolInvocation(span, fmt.Sprintf("%d passages", len(passages)), true)
	return passages, nil
}

func formatSources(passages []search.Passage) string {
	var b strings.Builder
	b.WriteString("Source passages:\n")
	for _, p := range passages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", p.Title, p.Content)
	}
	return b.String()
}

func lastUserMessage(history []llm.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}
