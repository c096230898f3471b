package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery fetches one order together with its fulfillment execution.
type GetOrderQuery struct {
	tenantID string
	orderID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(tenantID string, orderID kernel.UUID) (GetOrderQuery, error) {
	if tenantID == "" {
		return GetOrderQuery{}, ErrTenantIDIsRequired
	}
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		tenantID: tenantID,
		orderID:  orderID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) TenantID() string     { return q.tenantID }
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse carries the order and, when the workflow engine could
// describe it, the order's execution.
type GetOrderQueryResponse struct {
	Order     order.Snapshot              `json:"order"`
	Execution *ports.ExecutionDescription `json:"execution,omitempty"`
}
