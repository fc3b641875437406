package telemetry

import (
	"context"
	"log"
	"time"
)

const (
	EventConversationCreated = "conversation.created"
	EventMessageCreated      = "message.created"
	EventTest                = "debug.test"
)

// Publisher delivers an event to a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// EventEmitter wraps domain payloads in an envelope and publishes them.
type EventEmitter struct {
	publisher   Publisher
	prefix      string
	service     string
	environment string
}

// EventEnvelope is the published shape of every domain event.
type EventEnvelope struct {
	SchemaVersion int    `json:"schema_version"`
	EventType     string `json:"event_type"`
	OccurredAt    string `json:"occurred_at"`
	Service       string `json:"service"`
	Environment   string `json:"environment"`
	RequestID     string `json:"request_id"`
	Payload       any    `json:"payload"`
}

// NewEventEmitter builds an emitter. Routing keys are prefix + "." + event type.
func NewEventEmitter(publisher Publisher, prefix, service, environment string) *EventEmitter {
	return &EventEmitter{
		publisher:   publisher,
		prefix:      prefix,
		service:     service,
		environment: environment,
	}
}

// RoutingKey returns the key eventType is published under.
func (e *EventEmitter) RoutingKey(eventType string) string {
	if e.prefix == "" {
		return eventType
	}
	return e.prefix + "." + eventType
}

// Emit publishes payload. Failures are logged and never returned; events
// are best effort.
func (e *EventEmitter) Emit(ctx context.Context, eventType, requestID string, payload any) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := EventEnvelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		Payload:       payload,
	}

	if err := e.publisher.Publish(ctx, e.RoutingKey(eventType), envelope); err != nil {
		log.Printf("event publish failed: event_type=%s request_id=%s: %v", eventType, requestID, err)
	}
}
