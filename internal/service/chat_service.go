package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"carechat-be/internal/dto"
	"carechat-be/internal/pkg/logger"
	"carechat-be/pkg/agent"
	"carechat-be/pkg/conversation"
	"carechat-be/pkg/events"
	"carechat-be/pkg/intent"
	"carechat-be/pkg/references"
	"carechat-be/pkg/routing"
	"carechat-be/pkg/turn"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type IChatService interface {
	SendChat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHistory(ctx context.Context, chatId string) (*dto.ChatHistoryResponse, error)
	GetIntent(ctx context.Context, chatId string) (*dto.IntentResponse, error)
}

// ErrConversationNotFound is returned by the read operations when the
// conversation id has no resident transcript.
var ErrConversationNotFound = fmt.Errorf("conversation not found")

type chatService struct {
	classifier intent.Classifier
	history    intent.HistoryStore
	policy     *routing.Policy
	dispatcher *agent.Dispatcher
	store      *conversation.Store
	aggregator *turn.Aggregator
	pubSub     *gochannel.GoChannel
	topicName  string
	language   string
	log        logger.ILogger

	// one mutex per conversation so concurrent turns on the same
	// conversation serialize while distinct conversations proceed freely;
	// locks expire on the same clock as the transcripts they guard
	lockMu    sync.Mutex
	turnLocks *cache.Cache
}

func NewChatService(
	classifier intent.Classifier,
	history intent.HistoryStore,
	policy *routing.Policy,
	dispatcher *agent.Dispatcher,
	store *conversation.Store,
	aggregator *turn.Aggregator,
	pubSub *gochannel.GoChannel,
	topicName string,
	language string,
	ttl time.Duration,
	log logger.ILogger,
) IChatService {
	return &chatService{
		classifier: classifier,
		history:    history,
		policy:     policy,
		dispatcher: dispatcher,
		store:      store,
		aggregator: aggregator,
		pubSub:     pubSub,
		topicName:  topicName,
		language:   language,
		log:        log,
		turnLocks:  cache.New(ttl, 10*time.Minute),
	}
}

func (cs *chatService) SendChat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	started := time.Now()

	question := strings.TrimSpace(req.Message)
	if question == "" {
		return nil, fmt.Errorf("message must not be empty")
	}

	chatId := strings.TrimSpace(req.ChatId)
	if chatId == "" {
		chatId = uuid.NewString()
	}
	userId := strings.TrimSpace(req.UserId)
	if userId == "" {
		userId = "anonymous"
	}

	lock := cs.lockFor(chatId)
	lock.Lock()
	defer lock.Unlock()

	cs.publishEvent(events.NewUserMessageEvent(chatId, userId, question))

	transcript, created := cs.store.GetOrCreate(chatId)
	if created {
		cs.publishEvent(events.NewSystemMessageEvent(chatId, conversation.SystemMessage))
	}

	// Classification never fails outward: unreachable services degrade to
	// the fixed fallback decision inside the classifier.
	decision := cs.classifier.Classify(ctx, chatId, question, cs.language)

	agentNames := cs.policy.Resolve(decision)
	cs.log.Info("ChatService", "Turn routed", map[string]interface{}{
		"chat_id":    chatId,
		"top_intent": decision.TopIntent,
		"confidence": decision.Confidence,
		"agents":     agentNames,
	})

	replies := make([]string, 0, len(agentNames))
	for _, name := range agentNames {
		replies = append(replies, cs.dispatcher.Dispatch(ctx, chatId, name, question))
	}
	answer := strings.Join(replies, "\n\n")
	if strings.TrimSpace(answer) == "" {
		answer = "No response generated"
	}

	if err := ctx.Err(); err != nil {
		// The caller is gone. Leave the top-level transcript untouched and
		// discard whatever this turn accumulated.
		cs.aggregator.Drain(chatId)
		return nil, err
	}

	// The turn succeeded, commit it as a unit.
	transcript.AppendUser(question)
	transcript.AppendAssistant(answer)

	agentsUsed, documentsCited := cs.aggregator.Drain(chatId)
	if len(documentsCited) == 0 {
		documentsCited = references.Extract(answer)
	}

	responseId := uuid.NewString()
	cs.publishEvent(events.NewAssistantMessageEvent(
		chatId, responseId, answer,
		events.EstimateTokens(question),
		events.EstimateTokens(answer),
	))
	if len(agentsUsed) > 0 {
		cs.publishEvent(events.NewEvaluationEvent(
			chatId, decision.TopIntent, decision.Confidence, agentsUsed, documentsCited,
		))
	}

	cs.log.Info("ChatService", "Turn completed", map[string]interface{}{
		"chat_id":     chatId,
		"agents_used": agentsUsed,
		"references":  documentsCited,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	return &dto.ChatResponse{
		Message:    answer,
		AgentsUsed: agentsUsed,
		References: documentsCited,
		ChatId:     chatId,
	}, nil
}

func (cs *chatService) GetHistory(_ context.Context, chatId string) (*dto.ChatHistoryResponse, error) {
	transcript, ok := cs.store.Get(chatId)
	if !ok {
		return nil, ErrConversationNotFound
	}

	msgs := transcript.Messages()
	out := make([]dto.ChatHistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.ChatHistoryMessage{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	return &dto.ChatHistoryResponse{ChatId: chatId, Messages: out}, nil
}

func (cs *chatService) GetIntent(ctx context.Context, chatId string) (*dto.IntentResponse, error) {
	decision, ok := cs.history.Get(ctx, chatId)
	if !ok {
		return nil, ErrConversationNotFound
	}

	entities := make([]dto.IntentEntityDTO, 0, len(decision.Entities))
	for _, e := range decision.Entities {
		entities = append(entities, dto.IntentEntityDTO{
			Category:   e.Category,
			Text:       e.Text,
			Confidence: e.Confidence,
		})
	}

	return &dto.IntentResponse{
		ChatId:     chatId,
		Query:      decision.Query,
		TopIntent:  decision.TopIntent,
		Confidence: decision.Confidence,
		AllIntents: decision.AllIntents,
		Entities:   entities,
	}, nil
}

func (cs *chatService) lockFor(chatId string) *sync.Mutex {
	cs.lockMu.Lock()
	defer cs.lockMu.Unlock()
	if x, found := cs.turnLocks.Get(chatId); found {
		// Refresh TTL on access, like the transcript store
		cs.turnLocks.SetDefault(chatId, x)
		return x.(*sync.Mutex)
	}
	lock := &sync.Mutex{}
	cs.turnLocks.SetDefault(chatId, lock)
	return lock
}

// publishEvent puts an event on the in-process telemetry topic. Telemetry is
// best effort and never blocks or fails a turn.
func (cs *chatService) publishEvent(event events.Event) {
	envelope := map[string]interface{}{
		"type":        event.EventType(),
		"payload":     event.Payload(),
		"occurred_at": event.Timestamp(),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		cs.log.Warn("ChatService", "Failed to marshal telemetry event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := cs.pubSub.Publish(cs.topicName, msg); err != nil {
		cs.log.Warn("ChatService", "Failed to publish telemetry event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
