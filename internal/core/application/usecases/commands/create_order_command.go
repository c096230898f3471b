package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired      = errs.NewValueIsRequiredError("items")
	ErrProductIDIsRequired   = errs.NewValueIsRequiredError("product_id")
	ErrQuantityIsNotPositive = errs.NewValueIsInvalidError("quantity must be greater than 0")
)

// OrderLine is one requested product and how many of it.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// CreateOrderCommand represents a client's request to place a new order.
// Products are referenced by id and resolved against the catalog by the handler.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), client, []OrderLine{
//	    {ProductID: "dumplings", Quantity: 2},
//	    {ProductID: "tea", Quantity: 1},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s is waiting for a cook", created.ID())
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	client  kernel.Actor
	lines   []OrderLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place an order on behalf of client.
// Validates the order ID, the client identity and that every line has a product
// and a positive quantity. Returns an error if any validation fails.
func NewCreateOrderCommand(orderID kernel.UUID, client kernel.Actor, lines []OrderLine) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setClient(client),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Client returns the identity placing the order. Its tenant becomes the order's tenant.
func (c CreateOrderCommand) Client() kernel.Actor {
	return c.client
}

// Lines returns a copy of the requested lines in request order.
func (c CreateOrderCommand) Lines() []OrderLine {
	return append([]OrderLine(nil), c.lines...)
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setClient(client kernel.Actor) error {
	if err := client.Validate(); err != nil {
		return err
	}

	c.client = client
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrItemsAreRequired
	}

	for i, line := range lines {
		if line.ProductID == "" {
			return fmt.Errorf("line %d: %w", i, ErrProductIDIsRequired)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("line %d: %w", i, ErrQuantityIsNotPositive)
		}
	}

	c.lines = append([]OrderLine(nil), lines...)
	return nil
}
