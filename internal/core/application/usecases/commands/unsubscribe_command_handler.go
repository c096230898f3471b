package commands

import "context"

// UnsubscribeCommandHandler removes a connection's subscription. Unsubscribing a
// connection without one succeeds.
type UnsubscribeCommandHandler struct {
	uowFactory SubscriptionUoWFactory
}

func NewUnsubscribeCommandHandler(uowFactory SubscriptionUoWFactory) UnsubscribeCommandHandler {
	return UnsubscribeCommandHandler{uowFactory: uowFactory}
}

func (h *UnsubscribeCommandHandler) Handle(ctx context.Context, cmd UnsubscribeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.SubscriptionRepository().RemoveByConnection(ctx, cmd.ConnectionID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
