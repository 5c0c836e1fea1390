package service

import (
	"context"
	"testing"
	"time"

	"carechat-be/internal/dto"
	"carechat-be/internal/tracer"
	"carechat-be/pkg/agent"
	"carechat-be/pkg/conversation"
	"carechat-be/pkg/intent"
	"carechat-be/pkg/llm"
	"carechat-be/pkg/routing"
	"carechat-be/pkg/turn"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type stubClassifier struct {
	decision *intent.Decision
	history  intent.HistoryStore
}

func (c *stubClassifier) Classify(ctx context.Context, conversationId, query, _ string) *intent.Decision {
	d := c.decision
	if d == nil {
		d = intent.NewFallbackDecision(query)
	}
	d.Query = query
	c.history.Set(ctx, conversationId, d)
	return d
}

type cannedAgent struct {
	name  string
	reply string
}

func (a *cannedAgent) Name() string { return a.name }

func (a *cannedAgent) Invoke(context.Context, string, []llm.Message) (string, error) {
	return a.reply, nil
}

type fixture struct {
	service    IChatService
	store      *conversation.Store
	history    intent.HistoryStore
	aggregator *turn.Aggregator
	classifier *stubClassifier
}

func newFixture(agents ...agent.Agent) *fixture {
	return newFixtureWithTTL(time.Hour, agents...)
}

func newFixtureWithTTL(ttl time.Duration, agents ...agent.Agent) *fixture {
	store := conversation.NewStore(ttl)
	aggregator := turn.NewAggregator()
	history := intent.NewMemoryHistory(time.Hour)
	genAI := tracer.NewGenAITracer()

	registry := agent.NewRegistry()
	for _, a := range agents {
		registry.Register(a)
	}
	dispatcher := agent.NewDispatcher(registry, store, aggregator, genAI)

	classifier := &stubClassifier{history: history}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	svc := NewChatService(
		classifier,
		history,
		routing.DefaultPolicy(),
		dispatcher,
		store,
		aggregator,
		pubSub,
		"chat.telemetry.test",
		"nl",
		ttl,
		noopLogger{},
	)

	return &fixture{
		service:    svc,
		store:      store,
		history:    history,
		aggregator: aggregator,
		classifier: classifier,
	}
}

func TestSendChatGeneratesConversationId(t *testing.T) {
	f := newFixture(&cannedAgent{name: "FAQAgent", reply: "antwoord"})

	res, err := f.service.SendChat(context.Background(), &dto.ChatRequest{Message: "Wat is vergoed?"})

	assert.NoError(t, err)
	assert.NotEmpty(t, res.ChatId)
}

func TestSendChatEchoesConversationId(t *testing.T) {
	f := newFixture(&cannedAgent{name: "FAQAgent", reply: "antwoord"})

	res, err := f.service.SendChat(context.Background(), &dto.ChatRequest{
		Message: "Wat is vergoed?",
		ChatId:  "conv-42",
	})

	assert.NoError(t, err)
	assert.Equal(t, "conv-42", res.ChatId)
}

func TestSendChatCommitsTranscriptPerTurn(t *testing.T) {
	f := newFixture(&cannedAgent{name: "FAQAgent", reply: "eerste antwoord"})

	_, err := f.service.SendChat(context.Background(), &dto.ChatRequest{
		Message: "eerste vraag",
		ChatId:  "conv-1",
	})
	assert.NoError(t, err)

	tr, ok := f.store.Get("conv-1")
	assert.True(t, ok)
	msgs := tr.Messages()
	// system seed + user + assistant
	assert.Len(t, msgs, 3)
	assert.Equal(t, conversation.RoleSystem, msgs[0].Role)
	assert.Equal(t, conversation.SystemMessage, msgs[0].Content)
	assert.Equal(t, "eerste vraag", msgs[1].Content)
	assert.Equal(t, "eerste antwoord", msgs[2].Content)

	_, err = f.service.SendChat(context.Background(), &dto.ChatRequest{
		Message: "tweede vraag",
		ChatId:  "conv-1",
	})
	assert.NoError(t, err)
	assert.Equal(t, 5, tr.Len())
}

func TestSendChatRoutesAppointmentToAdminOnly(t *testing.T) {
	f := newFixture(
		&cannedAgent{name: "FAQAgent", reply: "faq antwoord"},
		&cannedAgent{name: "AdminAgent", reply: "Uw afspraak is geannuleerd."},
	)
	f.classifier.decision = &intent.Decision{
		TopIntent:  "informatieVergoedingen",
		Confidence: 0.71,
		Entities:   []intent.Entity{{Category: "afspraak", Text: "afspraak annuleren", Confidence: 0.9}},
	}

	res, err := f.service.SendChat(context.Background(), &dto.ChatRequest{
		Message: "Ik wil mijn afspraak annuleren",
		ChatId:  "conv-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"AdminAgent"}, res.AgentsUsed)
	assert.Equal(t, "Uw afspraak is geannuleerd.", res.Message)
}

func TestSendChatExtractsReferencesFromReply(t *testing.T) {
	f := newFixture(&cannedAgent{
		name:  "FAQAgent",
		reply: "Fysiotherapie wordt vergoed.\n\nReferences: PolicyA.pdf, PolicyB.pdf",
	})

	res, err := f.service.SendChat(context.Background(), &dto.ChatRequest{
		Message: "Wordt fysiotherapie vergoed?",
		ChatId:  "conv-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"PolicyA.pdf", "PolicyB.pdf"}, res.References)
}

func TestSendChatUnknownAgentStillReplies(t *testing.T) {
	// Registry is empty, so the routed agent cannot be found.
	f := newFixture()

	res, err := f.service.SendChat(context.Background(), &dto.ChatRequest{
		Message: "Wat is vergoed?",
		ChatId:  "conv-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Agent 'FAQAgent' not found.", res.Message)
	assert.Empty(t, res.AgentsUsed)
}

func TestSendChatRejectsBlankMessage(t *testing.T) {
	f := newFixture(&cannedAgent{name: "FAQAgent", reply: "antwoord"})

	_, err := f.service.SendChat(context.Background(), &dto.ChatRequest{Message: "   "})

	assert.Error(t, err)
}

func TestSendChatCancelledContextLeavesTranscriptUntouched(t *testing.T) {
	f := newFixture(&cannedAgent{name: "FAQAgent", reply: "antwoord"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.SendChat(ctx, &dto.ChatRequest{
		Message: "vraag",
		ChatId:  "conv-1",
	})
	assert.Error(t, err)

	tr, ok := f.store.Get("conv-1")
	assert.True(t, ok)
	// Only the system seed; the aborted turn committed nothing.
	assert.Equal(t, 1, tr.Len())

	// The agent's sub-dialogue is untouched too, so a retry starts clean.
	agentTr := f.store.GetOrCreateAgentTranscript("conv-1", "FAQAgent")
	assert.Equal(t, 0, agentTr.Len())

	agents, docs := f.aggregator.Drain("conv-1")
	assert.Empty(t, agents)
	assert.Empty(t, docs)
}

func TestCancelledTurnDoesNotPolluteRetry(t *testing.T) {
	f := newFixture(&cannedAgent{name: "FAQAgent", reply: "antwoord"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.service.SendChat(ctx, &dto.ChatRequest{Message: "vraag", ChatId: "conv-1"})
	assert.Error(t, err)

	res, err := f.service.SendChat(context.Background(), &dto.ChatRequest{
		Message: "vraag",
		ChatId:  "conv-1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "antwoord", res.Message)

	tr, _ := f.store.Get("conv-1")
	// system seed + exactly one committed user/assistant pair
	assert.Equal(t, 3, tr.Len())

	agentTr := f.store.GetOrCreateAgentTranscript("conv-1", "FAQAgent")
	assert.Equal(t, 2, agentTr.Len())
}

func TestTurnLockExpiresWithConversation(t *testing.T) {
	f := newFixtureWithTTL(20*time.Millisecond, &cannedAgent{name: "FAQAgent", reply: "antwoord"})

	_, err := f.service.SendChat(context.Background(), &dto.ChatRequest{
		Message: "vraag",
		ChatId:  "conv-1",
	})
	assert.NoError(t, err)

	cs := f.service.(*chatService)
	_, found := cs.turnLocks.Get("conv-1")
	assert.True(t, found)

	time.Sleep(50 * time.Millisecond)

	// The lock leaves on the same clock as the transcript it guards.
	_, found = cs.turnLocks.Get("conv-1")
	assert.False(t, found)
	_, found = f.store.Get("conv-1")
	assert.False(t, found)
}

func TestGetHistory(t *testing.T) {
	f := newFixture(&cannedAgent{name: "FAQAgent", reply: "antwoord"})

	_, err := f.service.GetHistory(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = f.service.SendChat(context.Background(), &dto.ChatRequest{
		Message: "vraag",
		ChatId:  "conv-1",
	})
	assert.NoError(t, err)

	res, err := f.service.GetHistory(context.Background(), "conv-1")
	assert.NoError(t, err)
	assert.Equal(t, "conv-1", res.ChatId)
	assert.Len(t, res.Messages, 3)
}

func TestGetIntent(t *testing.T) {
	f := newFixture(&cannedAgent{name: "FAQAgent", reply: "antwoord"})
	f.classifier.decision = &intent.Decision{TopIntent: "informatiePremie", Confidence: 0.8}

	_, err := f.service.GetIntent(context.Background(), "conv-1")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = f.service.SendChat(context.Background(), &dto.ChatRequest{
		Message: "wat kost de premie?",
		ChatId:  "conv-1",
	})
	assert.NoError(t, err)

	res, err := f.service.GetIntent(context.Background(), "conv-1")
	assert.NoError(t, err)
	assert.Equal(t, "informatiePremie", res.TopIntent)
	assert.Equal(t, "wat kost de premie?", res.Query)
}
