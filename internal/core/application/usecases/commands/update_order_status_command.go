package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
	ErrTargetStatusIsRequired = errs.NewValueIsRequiredError("status")
)

// UpdateOrderStatusCommand asks to move an order to the next pipeline status on behalf of actor.
//
// Example:
//
//	cmd, err := NewUpdateOrderStatusCommand(cook, orderID, "cooking")
//	if err != nil {
//	    return err
//	}
//	updated, err := handler.Handle(ctx, cmd)
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID
	target  order.Status

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates the command. A target that names no known status
// is kept as order.Unknown, which the transition engine rejects as an invalid transition.
func NewUpdateOrderStatusCommand(actor kernel.Actor, orderID kernel.UUID, target string) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) Actor() kernel.Actor  { return c.actor }
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c UpdateOrderStatusCommand) Target() order.Status { return c.target }

func (c *UpdateOrderStatusCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setTarget(target string) error {
	if target == "" {
		return ErrTargetStatusIsRequired
	}

	status, err := order.ParseStatus(target)
	if err != nil {
		status = order.Unknown
	}

	c.target = status
	return nil
}
