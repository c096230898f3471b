package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
	ErrTenantIDIsRequired = errs.NewValueIsRequiredError("tenant_id")
	ErrActorIDIsRequired  = errs.NewValueIsRequiredError("actor_id")
)

// ListOrdersQuery pages through a tenant's orders, oldest first, along one access path.
//
// Example:
//
//	query, err := NewListOrdersQuery(tenantID, ports.OrderSelector{
//	    Kind:    ports.ByCook,
//	    ActorID: cook.UserID(),
//	}, 20, "")
//	if err != nil {
//	    return err
//	}
//
//	page, err := handler.Handle(ctx, query)
//	for page.Cursor != "" {
//	    query, _ = NewListOrdersQuery(tenantID, selector, 20, page.Cursor)
//	    page, err = handler.Handle(ctx, query)
//	}
type ListOrdersQuery struct {
	tenantID string
	selector ports.OrderSelector
	pageSize int
	cursor   string

	guard guard.ConstructorGuard
}

// NewListOrdersQuery validates the selector and page size. A zero pageSize means
// DefaultPageSize. cursor is the value returned with the previous page.
func NewListOrdersQuery(tenantID string, selector ports.OrderSelector, pageSize int, cursor string) (ListOrdersQuery, error) {
	if tenantID == "" {
		return ListOrdersQuery{}, ErrTenantIDIsRequired
	}

	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("page_size", pageSize, 1, MaxPageSize)
	}

	switch selector.Kind {
	case ports.ByCreatedAt:
	case ports.ByClient, ports.ByCook, ports.ByDispatcher, ports.ByDriver:
		if selector.ActorID == "" {
			return ListOrdersQuery{}, ErrActorIDIsRequired
		}
	case ports.ByStatus:
		if _, err := order.ParseStatus(selector.StatusPrefix); err != nil {
			return ListOrdersQuery{}, err
		}
	default:
		return ListOrdersQuery{}, errs.NewValueIsInvalidError("selector")
	}

	return ListOrdersQuery{
		tenantID: tenantID,
		selector: selector,
		pageSize: pageSize,
		cursor:   cursor,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) TenantID() string              { return q.tenantID }
func (q ListOrdersQuery) Selector() ports.OrderSelector { return q.selector }
func (q ListOrdersQuery) PageSize() int                 { return q.pageSize }
func (q ListOrdersQuery) Cursor() string                { return q.cursor }

// ListOrdersQueryResponse is one page. Cursor is empty on the last page.
type ListOrdersQueryResponse struct {
	Orders []order.Snapshot `json:"orders"`
	Cursor string           `json:"cursor,omitempty"`
}
