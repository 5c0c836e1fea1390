package service

import (
	"context"
	"encoding/json"
	"time"

	"carechat-be/internal/pkg/logger"
	"carechat-be/pkg/events"
	natspub "carechat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type ITelemetryService interface {
	Consume(ctx context.Context) error
}

// telemetryService drains the in-process event topic, writes each event to
// the isolated telemetry log, and forwards it to NATS when a publisher is
// configured. It sits off the request path so a slow sink never delays a
// turn.
type telemetryService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	publisher *natspub.Publisher
	log       logger.ILogger
}

func NewTelemetryService(
	pubSub *gochannel.GoChannel,
	topicName string,
	publisher *natspub.Publisher,
	log logger.ILogger,
) ITelemetryService {
	return &telemetryService{
		pubSub:    pubSub,
		topicName: topicName,
		publisher: publisher,
		log:       log,
	}
}

func (ts *telemetryService) Consume(ctx context.Context) error {
	messages, err := ts.pubSub.Subscribe(ctx, ts.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ts.processMessage(ctx, msg)
		}
	}()

	return nil
}

type eventEnvelope struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (ts *telemetryService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		ts.log.Error("TelemetryService", "Failed to unmarshal event", map[string]interface{}{
			"error": err.Error(),
		})
		// Malformed payloads are not retriable.
		msg.Ack()
		return
	}

	ts.log.Info("TelemetryService", envelope.Type, envelope.Payload)

	if ts.publisher != nil {
		event := events.BaseEvent{
			Type:       envelope.Type,
			Data:       envelope.Payload,
			OccurredAt: envelope.OccurredAt,
		}
		if err := ts.publisher.Publish(ctx, event); err != nil {
			ts.log.Warn("TelemetryService", "Failed to forward event to NATS", map[string]interface{}{
				"type":  envelope.Type,
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
