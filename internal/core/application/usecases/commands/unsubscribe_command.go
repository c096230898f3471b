package commands

import (
	"errors"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrUnsubscribeCommandIsNotConstructed = errors.New(
		"UnsubscribeCommand must be created via NewUnsubscribeCommand constructor",
	)
	ErrConnectionIDIsRequired = errs.NewValueIsRequiredError("connection_id")
)

// UnsubscribeCommand drops whatever subscription a disconnected connection held.
type UnsubscribeCommand struct { //nolint:recvcheck //using for validation
	connectionID string

	guard guard.ConstructorGuard
}

func NewUnsubscribeCommand(connectionID string) (UnsubscribeCommand, error) {
	if connectionID == "" {
		return UnsubscribeCommand{}, ErrConnectionIDIsRequired
	}

	return UnsubscribeCommand{
		connectionID: connectionID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c UnsubscribeCommand) Validate() error {
	return c.guard.Validate(ErrUnsubscribeCommandIsNotConstructed)
}

func (c UnsubscribeCommand) ConnectionID() string {
	return c.connectionID
}
