package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// SelectorKind names one of the store's access paths.
type SelectorKind int

const (
	ByCreatedAt SelectorKind = iota
	ByClient
	ByCook
	ByDispatcher
	ByDriver
	ByStatus
)

func (k SelectorKind) String() string {
	switch k {
	case ByCreatedAt:
		return "created_at"
	case ByClient:
		return "client"
	case ByCook:
		return "cook"
	case ByDispatcher:
		return "dispatcher"
	case ByDriver:
		return "driver"
	case ByStatus:
		return "status"
	default:
		return "unknown"
	}
}

// OrderSelector picks an access path for Query.
//
// For the actor paths ActorID is the user id and StatusPrefix, when set, is a prefix
// test on the status composite key. For ByStatus, StatusPrefix holds the exact status name.
type OrderSelector struct {
	Kind         SelectorKind
	ActorID      string
	StatusPrefix string
}

// OrderPage is one ascending page of a Query. Cursor is empty when the access path is exhausted.
type OrderPage struct {
	Orders []*order.Order
	Cursor string
}

// OrderRepository is the Indexed Order Store. All operations are tenant-scoped.
type OrderRepository interface {
	// Create persists a new order. A colliding (tenant_id, order_id) fails with
	// errs.ObjectAlreadyExistsError.
	Create(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or errs.ObjectNotFoundError.
	Get(ctx context.Context, tenantID string, orderID kernel.UUID) (*order.Order, error)

	// UpdateTransition applies tr only if the stored status still equals tr.From().
	// Status, assignment, history and composite keys change together or not at all.
	// A lost race fails with errs.ConflictError. Returns the post-update order.
	UpdateTransition(ctx context.Context, tenantID string, orderID kernel.UUID, tr order.Transition) (*order.Order, error)

	// Query returns one oldest-first page along the selected access path. cursor is
	// the value returned by the previous page, or empty for the first page.
	Query(ctx context.Context, tenantID string, selector OrderSelector, pageSize int, cursor string) (OrderPage, error)

	// ScanAll streams every order of the tenant into fn without ordering guarantees.
	// Iteration stops at the first error returned by fn.
	ScanAll(ctx context.Context, tenantID string, fn func(*order.Order) error) error

	// SetExecutionHandle records the workflow execution started for the order.
	SetExecutionHandle(ctx context.Context, tenantID string, orderID kernel.UUID, handle string) error

	// SetResumeToken stores or overwrites the order's resume token.
	SetResumeToken(ctx context.Context, tenantID string, orderID kernel.UUID, token string) error
}
