package events

import "context"

// Streams
const (
	StreamBeneficiary = "events:beneficiary"
	StreamTrades      = "events:trades"
)

// Event types
const (
	EventBeneficiaryCreated   = "beneficiary_created"
	EventBeneficiaryActivated = "beneficiary_activated"
	EventBeneficiaryDeleted   = "beneficiary_deleted"
	EventTradeExecuted        = "trade_executed"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// String reads a string field from the payload.
func (e Event) String(key string) string {
	s, _ := e.Payload[key].(string)
	return s
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
