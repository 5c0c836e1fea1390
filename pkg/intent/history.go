package intent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// HistoryStore keeps the most recent decision per conversation. Last write
// wins; there is no accumulated history.
type HistoryStore interface {
	Set(ctx context.Context, conversationId string, decision *Decision)
	Get(ctx context.Context, conversationId string) (*Decision, bool)
	Clear(ctx context.Context, conversationId string)
}

// --- In-memory implementation ---

type MemoryHistory struct {
	cache *cache.Cache
}

func NewMemoryHistory(ttl time.Duration) *MemoryHistory {
	return &MemoryHistory{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (h *MemoryHistory) Set(_ context.Context, conversationId string, decision *Decision) {
	h.cache.SetDefault(conversationId, decision)
}

func (h *MemoryHistory) Get(_ context.Context, conversationId string) (*Decision, bool) {
	if x, found := h.cache.Get(conversationId); found {
		return x.(*Decision), true
	}
	return nil, false
}

func (h *MemoryHistory) Clear(_ context.Context, conversationId string) {
	h.cache.Delete(conversationId)
}

// --- Redis implementation ---

// RedisHistory stores decisions as JSON under intent:<conversationId>.
// Useful when several instances sit behind a load balancer and the caller may
// land on a different instance between turns.
type RedisHistory struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHistory(url string, ttl time.Duration) (*RedisHistory, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisHistory{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

func (h *RedisHistory) key(conversationId string) string {
	return "intent:" + conversationId
}

func (h *RedisHistory) Set(ctx context.Context, conversationId string, decision *Decision) {
	data, err := json.Marshal(decision)
	if err != nil {
		return
	}
	h.client.Set(ctx, h.key(conversationId), data, h.ttl)
}

func (h *RedisHistory) Get(ctx context.Context, conversationId string) (*Decision, bool) {
	data, err := h.client.Get(ctx, h.key(conversationId)).Bytes()
	if err != nil {
		return nil, false
	}
	var decision Decision
	if err := json.Unmarshal(data, &decision); err != nil {
		return nil, false
	}
	return &decision, true
}

func (h *RedisHistory) Clear(ctx context.Context, conversationId string) {
	h.client.Del(ctx, h.key(conversationId))
}
