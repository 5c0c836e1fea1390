package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"carechat-be/internal/tracer"
	"carechat-be/pkg/llm"
	"carechat-be/pkg/search"
	"carechat-be/pkg/turn"

	"github.com/stretchr/testify/assert"
)

type stubSearcher struct {
	passages []search.Passage
	err      error
	query    string
	topK     int
}

func (s *stubSearcher) Search(_ context.Context, query string, topK int) ([]search.Passage, error) {
	s.query = query
	s.topK = topK
	return s.passages, s.err
}

type stubLLM struct {
	reply    string
	err      error
	messages []llm.Message
}

func (s *stubLLM) Chat(_ context.Context, messages []llm.Message, _ ...llm.Option) (string, error) {
	s.messages = messages
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func TestFAQAgentCitesSearchResults(t *testing.T) {
	searcher := &stubSearcher{passages: []search.Passage{
		{Title: "PolicyA.pdf", Content: "Fysiotherapie is gedekt vanaf pakket B.", Score: 0.9},
		{Title: "PolicyB.pdf", Content: "Maximaal 12 behandelingen per jaar.", Score: 0.8},
	}}
	model := &stubLLM{reply: "Fysiotherapie wordt vergoed vanaf pakket B.\n\nReferences: PolicyA.pdf, PolicyB.pdf"}
	aggregator := turn.NewAggregator()

	a := NewFAQAgent(model, searcher, aggregator, tracer.NewGenAITracer(), 5)

	history := []llm.Message{{Role: "user", Content: "Wordt fysiotherapie vergoed?"}}
	reply, err := a.Invoke(context.Background(), "conv-1", history)

	assert.NoError(t, err)
	assert.Contains(t, reply, "References: PolicyA.pdf, PolicyB.pdf")
	assert.Equal(t, "Wordt fysiotherapie vergoed?", searcher.query)
	assert.Equal(t, 5, searcher.topK)

	_, docs := aggregator.Drain("conv-1")
	assert.Equal(t, []string{"PolicyA.pdf", "PolicyB.pdf"}, docs)

	// Prompt starts with the instructions, then the source passages.
	assert.GreaterOrEqual(t, len(model.messages), 3)
	assert.Equal(t, "system", model.messages[0].Role)
	assert.Equal(t, "system", model.messages[1].Role)
	assert.Contains(t, model.messages[1].Content, "PolicyA.pdf")
}

func TestFAQAgentRepairsMissingReferencesLine(t *testing.T) {
	searcher := &stubSearcher{passages: []search.Passage{
		{Title: "PolicyA.pdf", Content: "tekst", Score: 0.9},
	}}
	model := &stubLLM{reply: "Dat wordt vergoed vanaf pakket B."}
	aggregator := turn.NewAggregator()

	a := NewFAQAgent(model, searcher, aggregator, tracer.NewGenAITracer(), 3)

	reply, err := a.Invoke(context.Background(), "conv-1", []llm.Message{{Role: "user", Content: "vraag"}})

	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(reply, "References: PolicyA.pdf"), "reply = %q", reply)
}

func TestFAQAgentNoResultsNoReferencesAppended(t *testing.T) {
	searcher := &stubSearcher{}
	model := &stubLLM{reply: "Daar heb ik geen informatie over."}
	aggregator := turn.NewAggregator()

	a := NewFAQAgent(model, searcher, aggregator, tracer.NewGenAITracer(), 3)

	reply, err := a.Invoke(context.Background(), "conv-1", []llm.Message{{Role: "user", Content: "vraag"}})

	assert.NoError(t, err)
	assert.NotContains(t, reply, "References:")

	_, docs := aggregator.Drain("conv-1")
	assert.Empty(t, docs)
}

func TestFAQAgentSearchFailure(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("index offline")}
	model := &stubLLM{reply: "unused"}

	a := NewFAQAgent(model, searcher, turn.NewAggregator(), tracer.NewGenAITracer(), 3)

	_, err := a.Invoke(context.Background(), "conv-1", []llm.Message{{Role: "user", Content: "vraag"}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "document search")
}

func TestFAQAgentLLMFailure(t *testing.T) {
	searcher := &stubSearcher{passages: []search.Passage{{Title: "PolicyA.pdf", Content: "x"}}}
	model := &stubLLM{err: errors.New("model unavailable")}

	a := NewFAQAgent(model, searcher, turn.NewAggregator(), tracer.NewGenAITracer(), 3)

	_, err := a.Invoke(context.Background(), "conv-1", []llm.Message{{Role: "user", Content: "vraag"}})

	assert.Error(t, err)
}
