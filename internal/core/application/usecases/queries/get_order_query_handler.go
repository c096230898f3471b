package queries

import (
	"context"
	"log/slog"

	"orderflow/internal/core/ports"
)

// GetOrderQueryHandler loads an order and describes its workflow execution.
// The order is returned even when the engine cannot describe the execution.
type GetOrderQueryHandler struct {
	repo   ports.OrderRepository
	engine ports.WorkflowEngine
	logger *slog.Logger
}

func NewGetOrderQueryHandler(repo ports.OrderRepository, engine ports.WorkflowEngine, logger *slog.Logger) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		repo:   repo,
		engine: engine,
		logger: logger.With("component", "get_order_query"),
	}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.repo.Get(ctx, query.TenantID(), query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp := GetOrderQueryResponse{Order: o.Snapshot()}
	if o.ExecutionHandle() == "" {
		return resp, nil
	}

	desc, err := h.engine.Describe(ctx, o.ExecutionHandle())
	if err != nil {
		h.logger.WarnContext(ctx, "failed to describe execution",
			"tenant_id", o.TenantID(), "order_id", o.ID().String(),
			"handle", o.ExecutionHandle(), "error", err)
		return resp, nil
	}

	resp.Execution = &desc
	return resp, nil
}
