package conversation

import (
	"sync"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript is an append-only ordered message sequence. Entries are never
// mutated or reordered once appended.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) AppendSystem(text string) {
	t.append(RoleSystem, text)
}

func (t *Transcript) AppendUser(text string) {
	t.append(RoleUser, text)
}

func (t *Transcript) AppendAssistant(text string) {
	t.append(RoleAssistant, text)
}

func (t *Transcript) append(role, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, Message{
		Role:      role,
		Content:   text,
		CreatedAt: time.Now(),
	})
}

// Messages returns a snapshot copy of the transcript.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
