package ports

import (
	"context"

	"orderflow/internal/core/domain/model/subscription"
)

// SubscriptionRepository stores live push-channel subscriptions.
type SubscriptionRepository interface {
	// Add fails with errs.ObjectAlreadyExistsError when the connection already holds a subscription.
	Add(ctx context.Context, s subscription.Subscription) error

	// GetByConnection returns errs.ObjectNotFoundError for an unknown connection.
	GetByConnection(ctx context.Context, connectionID string) (subscription.Subscription, error)

	// RemoveByConnection deletes the connection's subscription. Unknown connections are not an error.
	RemoveByConnection(ctx context.Context, connectionID string) error

	// ListByTenant returns every subscription of the tenant, wildcard and scoped.
	ListByTenant(ctx context.Context, tenantID string) ([]subscription.Subscription, error)
}
