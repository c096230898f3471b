package commands

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/subscription"
	"orderflow/internal/pkg/guard"
)

var ErrSubscribeCommandIsNotConstructed = errors.New(
	"SubscribeCommand must be created via NewSubscribeCommand constructor",
)

// SubscribeCommand registers a live connection for order events of a tenant.
// A nil orderID subscribes to every order of the tenant.
type SubscribeCommand struct { //nolint:recvcheck //using for validation
	subscription subscription.Subscription

	guard guard.ConstructorGuard
}

func NewSubscribeCommand(
	tenantID string,
	orderID *kernel.UUID,
	connectionID string,
	connectedAt time.Time,
) (SubscribeCommand, error) {
	s, err := subscription.NewSubscription(tenantID, orderID, connectionID, connectedAt)
	if err != nil {
		return SubscribeCommand{}, err
	}

	return SubscribeCommand{
		subscription: s,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c SubscribeCommand) Validate() error {
	return c.guard.Validate(ErrSubscribeCommandIsNotConstructed)
}

func (c SubscribeCommand) Subscription() subscription.Subscription {
	return c.subscription
}
