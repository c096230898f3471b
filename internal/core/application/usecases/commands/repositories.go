// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
// Fan-out runs only after the transaction committed.
package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// SubscriptionRepoFactory provides access to subscription repository within a transaction.
	SubscriptionRepoFactory interface {
		SubscriptionRepository() ports.SubscriptionRepository
	}

	// OrderUoW manages transactions for order-only operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OutboxRepoFactory provides access to the outbox of parked events.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// SubscriptionUoW manages transactions for subscription-only operations.
	SubscriptionUoW interface {
		TxManager
		SubscriptionRepoFactory
	}

	// SubscriptionUoWFactory creates new subscription unit of work instances.
	SubscriptionUoWFactory interface {
		Create() SubscriptionUoW
	}

	// OutboxUoW gives the relay its outbox. Each message is settled on its own, outside
	// of a transaction, because publishing cannot be rolled back.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	// OutboxUoWFactory creates new outbox unit of work instances.
	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)

// OrderEvents receives committed order changes for fan-out. Implementations
// swallow and log their own failures.
type OrderEvents interface {
	OnCreated(ctx context.Context, o *order.Order)
	OnStatusUpdated(ctx context.Context, o *order.Order)
}
