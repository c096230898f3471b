package commands

import (
	"errors"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

const DefaultRelayBatchSize = 100

var ErrRelayOutboxCommandIsNotConstructed = errors.New(
	"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
)

// RelayOutboxCommand re-publishes up to BatchSize parked events that are due.
type RelayOutboxCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

// NewRelayOutboxCommand creates the command. A zero batchSize means DefaultRelayBatchSize.
func NewRelayOutboxCommand(batchSize int) (RelayOutboxCommand, error) {
	if batchSize == 0 {
		batchSize = DefaultRelayBatchSize
	}
	if batchSize < 0 {
		return RelayOutboxCommand{}, errs.NewValueIsOutOfRangeError("batch_size", batchSize, 1, nil)
	}

	return RelayOutboxCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

func (c RelayOutboxCommand) BatchSize() int {
	return c.batchSize
}
