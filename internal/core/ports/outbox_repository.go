package ports

import (
	"context"
	"time"
)

// OutboxMessage is a serialized event that could not be published to the bus yet.
type OutboxMessage struct {
	ID          int64
	Topic       string
	Key         string
	Payload     []byte
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	NextRetryAt time.Time
}

// OutboxRepository parks undelivered events for the relay job.
type OutboxRepository interface {
	Insert(ctx context.Context, msg OutboxMessage) error

	// GetPending returns up to limit messages due at or before now that still have retries left.
	GetPending(ctx context.Context, now time.Time, limit int) ([]OutboxMessage, error)

	Delete(ctx context.Context, id int64) error

	UpdateRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error
}
