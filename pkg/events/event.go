package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_EXCHANGE_STORED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewChatExchangeStored is emitted after a transcript exchange is written,
// carrying the fields downstream analytics consumers key on.
func NewChatExchangeStored(sessionId string, source string, latencyMs float64) Event {
	return BaseEvent{
		Type: "CHAT_EXCHANGE_STORED",
		Data: map[string]interface{}{
			"session_id": sessionId,
			"source":     source,
			"latency_ms": latencyMs,
		},
		OccurredAt: time.Now(),
	}
}
