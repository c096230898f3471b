package commands

import (
	"context"
	"errors"
	"math"
	"time"

	"orderflow/internal/core/ports"
)

// RetryBaseInterval is the first backoff step. The n-th failed attempt waits 2^n of it.
const RetryBaseInterval = 30 * time.Second

// RelayResult counts what one relay pass did.
type RelayResult struct {
	Published int
	Failed    int
}

// RelayOutboxCommandHandler drains the outbox into the event bus.
//
// A published message is deleted. A failed one is rescheduled with exponential
// backoff (60s, 120s, 240s, ...) until it runs out of retries. Delivery is at
// least once: a message whose delete fails is published again on a later pass.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
	now        func() time.Time
}

func NewRelayOutboxCommandHandler(uowFactory OutboxUoWFactory, publisher ports.EventPublisher) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle processes one batch. Bookkeeping errors are joined into the returned error
// after every message of the batch was attempted.
func (h *RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (RelayResult, error) {
	if err := cmd.Validate(); err != nil {
		return RelayResult{}, err
	}

	repo := h.uowFactory.Create().OutboxRepository()
	now := h.now()

	messages, err := repo.GetPending(ctx, now, cmd.BatchSize())
	if err != nil {
		return RelayResult{}, err
	}

	var (
		result  RelayResult
		errList []error
	)
	for _, msg := range messages {
		if pubErr := h.publisher.PublishRaw(ctx, msg.Topic, msg.Key, msg.Payload); pubErr != nil {
			result.Failed++
			retryCount := msg.RetryCount + 1
			if err = repo.UpdateRetry(ctx, msg.ID, retryCount, pubErr.Error(), now.Add(Backoff(retryCount))); err != nil {
				errList = append(errList, err)
			}
			continue
		}

		result.Published++
		if err = repo.Delete(ctx, msg.ID); err != nil {
			errList = append(errList, err)
		}
	}

	return result, errors.Join(errList...)
}

// Backoff is the delay before retry number retryCount.
func Backoff(retryCount int) time.Duration {
	return time.Duration(math.Pow(2, float64(retryCount))) * RetryBaseInterval
}
