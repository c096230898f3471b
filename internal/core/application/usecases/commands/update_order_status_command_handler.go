package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
)

// UpdateOrderStatusCommandHandler advances an order through the pipeline.
//
// The transition engine decides against the loaded state, then the store applies the
// transition only if the stored status is still the one decided against. The loser
// of a concurrent race gets a ConflictError and nothing is written.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     services.TransitionEngine
	events     OrderEvents
	now        func() time.Time
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	engine services.TransitionEngine,
	events OrderEvents,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		events:     events,
		now:        time.Now,
	}
}

// Handle returns the order as stored after the transition.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	tenantID := cmd.Actor().TenantID()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	current, err := repo.Get(ctx, tenantID, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	tr, err := h.engine.Decide(current, cmd.Actor(), cmd.Target(), h.now())
	if err != nil {
		return nil, err
	}

	updated, err := repo.UpdateTransition(ctx, tenantID, cmd.OrderID(), tr)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.events.OnStatusUpdated(ctx, updated)
	return updated, nil
}
