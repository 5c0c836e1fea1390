package conversation

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// SystemMessage seeds every new top-level transcript.
const SystemMessage = "You are a helpful healthcare insurance assistant."

// Store maps a conversation id to its top-level transcript plus one transcript
// per (conversation, agent) pair. Idle conversations are evicted after the
// configured TTL; every access refreshes the clock, so an active conversation
// never expires mid-dialogue.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

// GetOrCreate returns the top-level transcript for the conversation, creating
// and seeding it with the system message if absent. The second return value
// reports whether the transcript was created by this call.
func (s *Store) GetOrCreate(conversationId string) (*Transcript, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(topKey(conversationId), true)
}

// GetOrCreateAgentTranscript returns the transcript scoped to one agent within
// one conversation. Agent transcripts are not seeded with a system message;
// each agent carries its own instructions.
func (s *Store) GetOrCreateAgentTranscript(conversationId, agentName string) *Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, _ := s.getOrCreateLocked(agentKey(conversationId, agentName), false)
	return tr
}

// Get returns the top-level transcript without creating it.
func (s *Store) Get(conversationId string) (*Transcript, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x, found := s.cache.Get(topKey(conversationId)); found {
		s.cache.SetDefault(topKey(conversationId), x)
		return x.(*Transcript), true
	}
	return nil, false
}

func (s *Store) getOrCreateLocked(key string, seed bool) (*Transcript, bool) {
	if x, found := s.cache.Get(key); found {
		// Refresh TTL on access
		s.cache.SetDefault(key, x)
		return x.(*Transcript), false
	}
	tr := NewTranscript()
	if seed {
		tr.AppendSystem(SystemMessage)
	}
	s.cache.SetDefault(key, tr)
	return tr, true
}

func topKey(conversationId string) string {
	return conversationId
}

func agentKey(conversationId, agentName string) string {
	return fmt.Sprintf("%s:agent:%s", conversationId, agentName)
}
