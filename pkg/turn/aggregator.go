// Package turn collects the cross-cutting facts produced while one turn of a
// conversation is being processed: which agents were invoked and which source
// documents were cited. State is keyed by conversation id so concurrent turns
// of different conversations never observe each other's facts.
package turn

import (
	"strings"
	"sync"
)

type accumulator struct {
	mu         sync.Mutex
	agentsUsed []string
	docSeen    map[string]struct{}
	docOrder   []string
}

// Aggregator holds one accumulator per in-flight conversation turn. An
// accumulator is created lazily on the first record of a turn and discarded
// on Drain, so a drained turn leaves nothing behind.
type Aggregator struct {
	mu    sync.Mutex
	turns map[string]*accumulator
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		turns: make(map[string]*accumulator),
	}
}

func (a *Aggregator) acc(conversationId string) *accumulator {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.turns[conversationId]
	if !ok {
		acc = &accumulator{docSeen: make(map[string]struct{})}
		a.turns[conversationId] = acc
	}
	return acc
}

// RecordAgentUsed appends the agent name to the turn's usage sequence.
// Duplicates are kept; the sequence reflects call order.
func (a *Aggregator) RecordAgentUsed(conversationId, agentName string) {
	acc := a.acc(conversationId)
	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.agentsUsed = append(acc.agentsUsed, agentName)
}

// RecordDocumentsCited adds each non-blank, trimmed title to the turn's cited
// document set. Duplicates are suppressed, first-seen order is preserved.
func (a *Aggregator) RecordDocumentsCited(conversationId string, titles []string) {
	if len(titles) == 0 {
		return
	}
	acc := a.acc(conversationId)
	acc.mu.Lock()
	defer acc.mu.Unlock()
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		if _, dup := acc.docSeen[title]; dup {
			continue
		}
		acc.docSeen[title] = struct{}{}
		acc.docOrder = append(acc.docOrder, title)
	}
}

// Drain atomically reads and clears both collections for the conversation's
// current turn. A second Drain before new writes returns empty slices.
func (a *Aggregator) Drain(conversationId string) (agentsUsed []string, documentsCited []string) {
	a.mu.Lock()
	acc, ok := a.turns[conversationId]
	if ok {
		delete(a.turns, conversationId)
	}
	a.mu.Unlock()

	if !ok {
		return []string{}, []string{}
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()
	agentsUsed = acc.agentsUsed
	documentsCited = acc.docOrder
	if agentsUsed == nil {
		agentsUsed = []string{}
	}
	if documentsCited == nil {
		documentsCited = []string{}
	}
	return agentsUsed, documentsCited
}
