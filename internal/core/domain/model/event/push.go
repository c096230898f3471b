package event

import "orderflow/internal/core/domain/model/order"

// PushType names a message sent to a live connection.
type PushType string

const (
	PushSubscriptionSuccess PushType = "subscription_success"
	PushSubscriptionFailed  PushType = "subscription_failed"
	PushOrderCreated        PushType = "order_created"
	PushOrderStatusUpdated  PushType = "order_status_updated"
)

// PushMessage is the body pushed to a subscriber's connection.
type PushMessage struct {
	Type  PushType        `json:"type"`
	Order *order.Snapshot `json:"order,omitempty"`
	Error string          `json:"error,omitempty"`
}

// PushTypeOf maps a domain event type onto the push message kind. Events that
// are not pushed to subscribers report false.
func PushTypeOf(t Type) (PushType, bool) {
	switch t {
	case OrderCreated:
		return PushOrderCreated, true
	case OrderStatusUpdated:
		return PushOrderStatusUpdated, true
	default:
		return "", false
	}
}
