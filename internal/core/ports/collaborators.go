package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/order"
)

// EventPublisher delivers domain events to the durable event bus.
type EventPublisher interface {
	Publish(ctx context.Context, e event.DomainEvent) error

	// PublishRaw re-publishes an already serialized event, used by the outbox relay.
	PublishRaw(ctx context.Context, topic, key string, payload []byte) error
}

// ExecutionEvent is one entry of a workflow execution's history.
type ExecutionEvent struct {
	ID   int64     `json:"id"`
	Type string    `json:"type"`
	Time time.Time `json:"time"`
}

// ExecutionDescription is what the workflow engine reports about a running or finished execution.
type ExecutionDescription struct {
	Handle    string           `json:"handle"`
	Status    string           `json:"status"`
	StartTime *time.Time       `json:"start_time,omitempty"`
	CloseTime *time.Time       `json:"close_time,omitempty"`
	Events    []ExecutionEvent `json:"events"`
}

// WorkflowEngine is the external long-running process engine.
type WorkflowEngine interface {
	// Start launches an execution seeded with the order snapshot and returns its opaque handle.
	Start(ctx context.Context, snapshot order.Snapshot) (string, error)

	// Describe reports the state of the execution behind handle.
	Describe(ctx context.Context, handle string) (ExecutionDescription, error)

	// Resume completes the parked step identified by token.
	Resume(ctx context.Context, token string) error
}

// RecipientFilter addresses exactly one user's notification channel.
type RecipientFilter struct {
	TenantID string
	UserID   string
}

// Notification is an outbound message for a recipient.
type Notification struct {
	Subject string
	Body    string
}

// NotificationChannel is the outbound email/push capability.
type NotificationChannel interface {
	Publish(ctx context.Context, filter RecipientFilter, msg Notification) error

	// Subscribe registers endpoint to receive messages matching filter. Repeating the
	// same registration is a no-op.
	Subscribe(ctx context.Context, endpoint string, filter RecipientFilter) error
}

// Catalog resolves product snapshots. Unknown products fail with errs.ObjectNotFoundError.
type Catalog interface {
	Resolve(ctx context.Context, tenantID, productID string) (order.Product, error)
}

// ConnectionPusher pushes a message to one live connection of the request gateway.
type ConnectionPusher interface {
	Push(ctx context.Context, connectionID string, payload []byte) error
}
