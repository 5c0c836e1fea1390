package events

import "time"

// Event type codes carried on the telemetry topic.
const (
	TypeUserMessage      = "USER_MESSAGE"
	TypeSystemMessage    = "SYSTEM_MESSAGE"
	TypeAssistantMessage = "ASSISTANT_MESSAGE"
	TypeEvaluation       = "EVALUATION"
)

// EstimateTokens gives a rough token count for a piece of text. Four
// characters per token is close enough for telemetry purposes.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// NewUserMessageEvent records an incoming user message on a conversation.
func NewUserMessageEvent(chatId, userId, message string) Event {
	return BaseEvent{
		Type: TypeUserMessage,
		Data: map[string]interface{}{
			"chat_id": chatId,
			"user_id": userId,
			"message": message,
		},
		OccurredAt: time.Now(),
	}
}

// NewSystemMessageEvent records the seeding of a new conversation with its
// system instruction.
func NewSystemMessageEvent(chatId, message string) Event {
	return BaseEvent{
		Type: TypeSystemMessage,
		Data: map[string]interface{}{
			"chat_id": chatId,
			"message": message,
		},
		OccurredAt: time.Now(),
	}
}

// NewAssistantMessageEvent records the final assistant reply for a turn,
// with estimated prompt and completion token counts.
func NewAssistantMessageEvent(chatId, responseId, message string, inputTokens, outputTokens int) Event {
	return BaseEvent{
		Type: TypeAssistantMessage,
		Data: map[string]interface{}{
			"chat_id":       chatId,
			"response_id":   responseId,
			"message":       message,
			"input_tokens":  inputTokens,
			"output_tokens": outputTokens,
		},
		OccurredAt: time.Now(),
	}
}

// NewEvaluationEvent records routing metadata for a completed turn: which
// intent was detected and which agents handled it.
func NewEvaluationEvent(chatId, topIntent string, confidence float64, agentsUsed, references []string) Event {
	return BaseEvent{
		Type: TypeEvaluation,
		Data: map[string]interface{}{
			"chat_id":     chatId,
			"top_intent":  topIntent,
			"confidence":  confidence,
			"agents_used": agentsUsed,
			"references":  references,
		},
		OccurredAt: time.Now(),
	}
}
