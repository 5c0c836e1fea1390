package dto

import "time"

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	ChatId  string `json:"chat_id,omitempty"`
	UserId  string `json:"user_id,omitempty"`
}

type ChatResponse struct {
	Message    string   `json:"message"`
	AgentsUsed []string `json:"agents_used"`
	References []string `json:"references"`
	ChatId     string   `json:"chat_id"`
}

type ChatErrorResponse struct {
	Message string `json:"message"`
	ChatId  string `json:"chat_id,omitempty"`
}

type ChatHistoryMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistoryResponse struct {
	ChatId   string               `json:"chat_id"`
	Messages []ChatHistoryMessage `json:"messages"`
}

type IntentEntityDTO struct {
	Category   string  `json:"category"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type IntentResponse struct {
	ChatId     string             `json:"chat_id"`
	Query      string             `json:"query"`
	TopIntent  string             `json:"top_intent"`
	Confidence float64            `json:"confidence"`
	AllIntents map[string]float64 `json:"all_intents,omitempty"`
	Entities   []IntentEntityDTO  `json:"entities,omitempty"`
}
