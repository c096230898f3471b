package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ArrivalSubject is the subject of the notification sent when an order is delivered.
const ArrivalSubject = "Your order has arrived"

// Dispatcher is the Event Fan-out Dispatcher.
type Dispatcher struct {
	uowFactory ports.UnitOfWorkFactory
	publisher  ports.EventPublisher
	engine     ports.WorkflowEngine
	notifier   ports.NotificationChannel
	topic      string
	source     string
	now        func() time.Time
	logger     *slog.Logger
}

// NewDispatcher creates a dispatcher emitting events with the given source. topic is
// where parked events are re-published by the outbox relay.
func NewDispatcher(
	uowFactory ports.UnitOfWorkFactory,
	publisher ports.EventPublisher,
	engine ports.WorkflowEngine,
	notifier ports.NotificationChannel,
	topic, source string,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		uowFactory: uowFactory,
		publisher:  publisher,
		engine:     engine,
		notifier:   notifier,
		topic:      topic,
		source:     source,
		now:        time.Now,
		logger:     logger.With("component", "dispatcher"),
	}
}

// OnCreated emits order.created, starts the fulfillment execution and records its
// handle on the order.
func (d *Dispatcher) OnCreated(ctx context.Context, o *order.Order) {
	ctx, span := tracing.Start(ctx, "fanout.OnCreated", trace.WithAttributes(orderAttributes(o)...))
	defer span.End()

	d.emit(ctx, event.OrderCreated, o)

	handle, err := d.engine.Start(ctx, o.Snapshot())
	if err != nil {
		span.RecordError(err)
		d.logger.ErrorContext(ctx, "failed to start fulfillment",
			"tenant_id", o.TenantID(), "order_id", o.ID().String(), "error", err)
		return
	}

	if err = o.AttachExecution(handle); err != nil {
		d.logger.ErrorContext(ctx, "failed to attach execution handle",
			"tenant_id", o.TenantID(), "order_id", o.ID().String(), "handle", handle, "error", err)
		return
	}

	// The execution is already running; a failed write must not lead to a second start.
	repo := d.uowFactory.Create().OrderRepository()
	if err = repo.SetExecutionHandle(ctx, o.TenantID(), o.ID(), handle); err != nil {
		span.RecordError(err)
		d.logger.ErrorContext(ctx, "failed to persist execution handle",
			"tenant_id", o.TenantID(), "order_id", o.ID().String(), "handle", handle, "error", err)
	}
}

// OnStatusUpdated emits order.status_updated with the post-transition snapshot. When the
// order is complete and the workflow has parked its delivery step, the step is resumed.
func (d *Dispatcher) OnStatusUpdated(ctx context.Context, o *order.Order) {
	ctx, span := tracing.Start(ctx, "fanout.OnStatusUpdated", trace.WithAttributes(orderAttributes(o)...))
	defer span.End()

	d.emit(ctx, event.OrderStatusUpdated, o)

	if o.Status() != order.Complete || o.ResumeToken() == "" {
		return
	}

	if err := d.engine.Resume(ctx, o.ResumeToken()); err != nil {
		span.RecordError(err)
		d.logger.ErrorContext(ctx, "failed to resume fulfillment",
			"tenant_id", o.TenantID(), "order_id", o.ID().String(), "error", err)
	}
}

// OnArrival notifies the order's client that the order was delivered. Only the
// client's own channel matches the (tenant_id, user_id) filter.
func (d *Dispatcher) OnArrival(ctx context.Context, tenantID string, orderID kernel.UUID) error {
	ctx, span := tracing.Start(ctx, "fanout.OnArrival", trace.WithAttributes(
		attribute.String("tenant_id", tenantID),
		attribute.String("order_id", orderID.String()),
	))
	defer span.End()

	o, err := d.uowFactory.Create().OrderRepository().Get(ctx, tenantID, orderID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	filter := ports.RecipientFilter{TenantID: o.TenantID(), UserID: o.Client().UserID()}
	msg := ports.Notification{Subject: ArrivalSubject, Body: Summary(o)}
	if err = d.notifier.Publish(ctx, filter, msg); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("notify arrival of order %s: %w", orderID, err)
	}

	d.logger.InfoContext(ctx, "arrival notification sent",
		"tenant_id", tenantID, "order_id", orderID.String(), "user_id", filter.UserID)
	return nil
}

// RegisterRecipient subscribes the user's email to notifications addressed to them.
// Registering the same user again is a no-op.
func (d *Dispatcher) RegisterRecipient(ctx context.Context, reg event.UserRegistration) error {
	switch {
	case reg.TenantID == "":
		return errs.NewValueIsRequiredError("tenant_id")
	case reg.UserID == "":
		return errs.NewValueIsRequiredError("user_id")
	case reg.Email == "":
		return errs.NewValueIsRequiredError("email")
	}

	filter := ports.RecipientFilter{TenantID: reg.TenantID, UserID: reg.UserID}
	if err := d.notifier.Subscribe(ctx, reg.Email, filter); err != nil {
		return fmt.Errorf("register recipient %s: %w", reg.UserID, err)
	}
	return nil
}

// ResumeWorkflow stores the token the engine needs to resume the order's parked step.
// The token is opaque here.
func (d *Dispatcher) ResumeWorkflow(ctx context.Context, tenantID string, orderID kernel.UUID, token string) error {
	if token == "" {
		return errs.NewValueIsRequiredError("resume_token")
	}
	return d.uowFactory.Create().OrderRepository().SetResumeToken(ctx, tenantID, orderID, token)
}

// IsDelivered reports whether the order reached its terminal status.
func (d *Dispatcher) IsDelivered(ctx context.Context, tenantID string, orderID kernel.UUID) (bool, error) {
	o, err := d.uowFactory.Create().OrderRepository().Get(ctx, tenantID, orderID)
	if err != nil {
		return false, err
	}
	return o.Status().IsTerminal(), nil
}

func (d *Dispatcher) emit(ctx context.Context, typ event.Type, o *order.Order) {
	e := event.New(d.source, typ, o, d.now())

	pubErr := d.publisher.Publish(ctx, e)
	if pubErr == nil {
		return
	}

	trace.SpanFromContext(ctx).RecordError(pubErr)
	d.logger.WarnContext(ctx, "failed to publish event, parking it in the outbox",
		"tenant_id", o.TenantID(), "order_id", o.ID().String(), "type", string(typ), "error", pubErr)

	payload, err := json.Marshal(e)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to encode event",
			"tenant_id", o.TenantID(), "order_id", o.ID().String(), "error", err)
		return
	}

	msg := ports.OutboxMessage{
		Topic:     d.topic,
		Key:       e.Payload.OrderID,
		Payload:   payload,
		LastError: pubErr.Error(),
	}
	if err = d.uowFactory.Create().OutboxRepository().Insert(ctx, msg); err != nil {
		d.logger.ErrorContext(ctx, "failed to park event in the outbox, event is lost",
			"tenant_id", o.TenantID(), "order_id", o.ID().String(), "type", string(typ), "error", err)
	}
}

// Summary lists the order's items as "quantity x name", in order.
func Summary(o *order.Order) string {
	parts := make([]string, 0, len(o.Items()))
	for _, item := range o.Items() {
		parts = append(parts, fmt.Sprintf("%d x %s", item.Quantity(), item.Product().Name()))
	}
	return "Order " + o.ID().String() + ": " + strings.Join(parts, ", ")
}

func orderAttributes(o *order.Order) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("tenant_id", o.TenantID()),
		attribute.String("order_id", o.ID().String()),
		attribute.String("status", o.Status().String()),
	}
}
