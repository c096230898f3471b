package queries

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ListOrdersQueryHandler serves ListOrdersQuery from the order store's access paths.
type ListOrdersQueryHandler struct {
	repo ports.OrderRepository
}

func NewListOrdersQueryHandler(repo ports.OrderRepository) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{repo: repo}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	page, err := h.repo.Query(ctx, query.TenantID(), query.Selector(), query.PageSize(), query.Cursor())
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}

	resp := ListOrdersQueryResponse{
		Orders: make([]order.Snapshot, 0, len(page.Orders)),
		Cursor: page.Cursor,
	}
	for _, o := range page.Orders {
		resp.Orders = append(resp.Orders, o.Snapshot())
	}
	return resp, nil
}
