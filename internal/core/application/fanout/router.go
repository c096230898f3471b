package fanout

import (
	"context"
	"encoding/json"
	"log/slog"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/pkg/errs"
)

type broadcaster interface {
	Broadcast(ctx context.Context, e event.DomainEvent) (BroadcastReport, error)
}

type recipientRegistrar interface {
	RegisterRecipient(ctx context.Context, reg event.UserRegistration) error
}

// envelope is the part of every bus message needed to route it.
type envelope struct {
	Type    event.Type      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EventRouter dispatches events consumed from the bus. Order events go to the
// broadcaster, user registrations become notification recipients, anything else is skipped.
type EventRouter struct {
	broadcaster broadcaster
	recipients  recipientRegistrar
	logger      *slog.Logger
}

func NewEventRouter(b broadcaster, recipients recipientRegistrar, logger *slog.Logger) *EventRouter {
	return &EventRouter{
		broadcaster: b,
		recipients:  recipients,
		logger:      logger.With("component", "event_router"),
	}
}

func (r *EventRouter) Route(ctx context.Context, payload []byte) error {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("event", err)
	}

	switch env.Type {
	case event.OrderCreated, event.OrderStatusUpdated:
		var e event.DomainEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("order event", err)
		}

		report, err := r.broadcaster.Broadcast(ctx, e)
		if err != nil {
			return err
		}
		r.logger.DebugContext(ctx, "event broadcast",
			"tenant_id", e.TenantID(), "order_id", e.Payload.OrderID, "type", string(e.Type),
			"delivered", len(report.Delivered), "failed", len(report.Failed))
		return nil

	case event.UserRegistered:
		var reg event.UserRegistration
		if err := json.Unmarshal(env.Payload, &reg); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("user registration", err)
		}
		return r.recipients.RegisterRecipient(ctx, reg)

	default:
		r.logger.DebugContext(ctx, "skipping event", "type", string(env.Type))
		return nil
	}
}
