package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Resolves every line against the catalog, persists the order in "wait_for_cook"
// and hands it to fan-out once committed.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, dispatcher)
//	cmd, _ := NewCreateOrderCommand(kernel.NewUUID(), client, lines)
//
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// order.created is emitted and fulfillment has started
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.Catalog
	events     OrderEvents
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence, the catalog for product
// snapshots and the fan-out receiving created orders.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.Catalog,
	events OrderEvents,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		events:     events,
		now:        time.Now,
	}
}

// Handle processes the order creation command.
// Products are resolved before the transaction starts. A product the catalog does not
// know fails validation. The stored order is returned.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	tenantID := cmd.Client().TenantID()
	items := make([]order.Item, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		product, err := h.catalog.Resolve(ctx, tenantID, line.ProductID)
		if err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) {
				return nil, errs.NewValueIsInvalidErrorWithCause("product_id", err)
			}
			return nil, fmt.Errorf("resolve product %s: %w", line.ProductID, err)
		}

		item, err := order.NewItem(product, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Client(), items, h.now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Create(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.events.OnCreated(ctx, o)
	return o, nil
}
