package commands

import (
	"context"
	"encoding/json"
	"errors"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// SubscribeCommandHandler stores the subscription and tells the connection how it went.
// A connection holds at most one subscription, a second attempt fails with a conflict.
type SubscribeCommandHandler struct {
	uowFactory SubscriptionUoWFactory
	pusher     ports.ConnectionPusher
}

func NewSubscribeCommandHandler(uowFactory SubscriptionUoWFactory, pusher ports.ConnectionPusher) SubscribeCommandHandler {
	return SubscribeCommandHandler{
		uowFactory: uowFactory,
		pusher:     pusher,
	}
}

func (h *SubscribeCommandHandler) Handle(ctx context.Context, cmd SubscribeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	connID := cmd.Subscription().ConnectionID()
	if err := h.subscribe(ctx, cmd); err != nil {
		if errors.Is(err, errs.ErrObjectAlreadyExists) {
			h.notify(ctx, connID, event.PushMessage{Type: event.PushSubscriptionFailed, Error: err.Error()})
		}
		return err
	}

	h.notify(ctx, connID, event.PushMessage{Type: event.PushSubscriptionSuccess})
	return nil
}

func (h *SubscribeCommandHandler) subscribe(ctx context.Context, cmd SubscribeCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.SubscriptionRepository().Add(ctx, cmd.Subscription()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// notify is best-effort: the connection may already be gone.
func (h *SubscribeCommandHandler) notify(ctx context.Context, connectionID string, msg event.PushMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	_ = h.pusher.Push(ctx, connectionID, payload)
}
