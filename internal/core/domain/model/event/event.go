// Package event defines the domain events emitted over the order lifecycle.
package event

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// Type names a domain event.
type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusUpdated Type = "order.status_updated"

	// UserRegistered is consumed, not emitted. It triggers notification recipient registration.
	UserRegistered Type = "user.registered"
)

// DomainEvent is immutable once emitted. Payload is the full order snapshot at emission time.
type DomainEvent struct {
	ID         kernel.UUID    `json:"id"`
	Source     string         `json:"source"`
	Type       Type           `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    order.Snapshot `json:"payload"`
}

// New stamps a fresh event about o.
func New(source string, typ Type, o *order.Order, at time.Time) DomainEvent {
	return DomainEvent{
		ID:         kernel.NewUUID(),
		Source:     source,
		Type:       typ,
		OccurredAt: at.UTC(),
		Payload:    o.Snapshot(),
	}
}

// TenantID is the tenant of the order the event is about.
func (e DomainEvent) TenantID() string {
	return e.Payload.TenantID
}

// OrderID parses the payload's order id.
func (e DomainEvent) OrderID() (kernel.UUID, error) {
	return kernel.UUIDFromString(e.Payload.OrderID)
}

// UserRegistration is the payload of a UserRegistered event.
type UserRegistration struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
