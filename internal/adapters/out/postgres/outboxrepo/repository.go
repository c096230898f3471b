// Package outboxrepo parks events that could not reach the event bus so the
// relay job can retry them with exponential backoff.
package outboxrepo

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/ports"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

const defaultMaxRetries = 10

var columns = []string{
	"id",
	"topic",
	"key",
	"payload",
	"retry_count",
	"max_retries",
	"last_error",
	"created_at",
	"next_retry_at",
}

// OutboxRepository implements ports.OutboxRepository. Statements are built with
// squirrel and executed on the GORM handle so they join the caller's transaction.
type OutboxRepository struct {
	db *gorm.DB
}

var _ ports.OutboxRepository = (*OutboxRepository)(nil)

// NewOutboxRepository creates a new outbox repository.
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Insert adds a new message to the outbox.
func (r *OutboxRepository) Insert(ctx context.Context, msg ports.OutboxMessage) error {
	now := time.Now().UTC()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	if msg.NextRetryAt.IsZero() {
		msg.NextRetryAt = now
	}
	if msg.MaxRetries == 0 {
		msg.MaxRetries = defaultMaxRetries
	}

	query, args, err := sq.Insert("outbox").
		Columns(columns[1:]...).
		Values(
			msg.Topic,
			msg.Key,
			msg.Payload,
			msg.RetryCount,
			msg.MaxRetries,
			msg.LastError,
			msg.CreatedAt,
			msg.NextRetryAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err = r.db.WithContext(ctx).Exec(query, args...).Error; err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}

	return nil
}

// GetPending retrieves messages that are due and still have retries left, oldest due first.
func (r *OutboxRepository) GetPending(ctx context.Context, now time.Time, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		return nil, nil
	}

	query, args, err := sq.Select(columns...).
		From("outbox").
		Where(sq.LtOrEq{"next_retry_at": now}).
		Where(sq.Expr("retry_count < max_retries")).
		OrderBy("next_retry_at ASC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []ports.OutboxMessage
	for rows.Next() {
		var msg ports.OutboxMessage
		if err = rows.Scan(
			&msg.ID,
			&msg.Topic,
			&msg.Key,
			&msg.Payload,
			&msg.RetryCount,
			&msg.MaxRetries,
			&msg.LastError,
			&msg.CreatedAt,
			&msg.NextRetryAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox messages: %w", err)
	}

	return messages, nil
}

// Delete removes a message after successful delivery.
func (r *OutboxRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("outbox").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if err = r.db.WithContext(ctx).Exec(query, args...).Error; err != nil {
		return fmt.Errorf("failed to delete outbox message: %w", err)
	}

	return nil
}

// UpdateRetry records a failed delivery attempt.
func (r *OutboxRepository) UpdateRetry(
	ctx context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	query, args, err := sq.Update("outbox").
		Set("retry_count", retryCount).
		Set("last_error", lastError).
		Set("next_retry_at", nextRetryAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if err = r.db.WithContext(ctx).Exec(query, args...).Error; err != nil {
		return fmt.Errorf("failed to update outbox message: %w", err)
	}

	return nil
}
