package fanout

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds concurrent pushes when no limit is configured.
const DefaultParallelism = 8

// DeliveryFailure is one connection the event could not be pushed to.
type DeliveryFailure struct {
	ConnectionID string
	Err          error
}

// BroadcastReport lists the outcome for every matched subscription, sorted by connection id.
type BroadcastReport struct {
	Delivered []string
	Failed    []DeliveryFailure
}

// Matched is the number of subscriptions the event was addressed to.
func (r BroadcastReport) Matched() int {
	return len(r.Delivered) + len(r.Failed)
}

// Broadcaster pushes order events to the tenant's live subscriptions.
//
// Every matched connection is attempted independently. A failed push is recorded in the
// report and never stops delivery to the others nor fails the broadcast.
type Broadcaster struct {
	uowFactory  ports.UnitOfWorkFactory
	pusher      ports.ConnectionPusher
	parallelism int
	logger      *slog.Logger
}

func NewBroadcaster(
	uowFactory ports.UnitOfWorkFactory,
	pusher ports.ConnectionPusher,
	parallelism int,
	logger *slog.Logger,
) *Broadcaster {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	return &Broadcaster{
		uowFactory:  uowFactory,
		pusher:      pusher,
		parallelism: parallelism,
		logger:      logger.With("component", "broadcaster"),
	}
}

// Broadcast delivers e to every wildcard subscription of the event's tenant and to
// subscriptions scoped to the event's order. The error is non-nil only when the event
// is malformed or the subscriptions cannot be listed.
func (b *Broadcaster) Broadcast(ctx context.Context, e event.DomainEvent) (BroadcastReport, error) {
	pushType, ok := event.PushTypeOf(e.Type)
	if !ok {
		return BroadcastReport{}, errs.NewValueIsInvalidError("event type " + string(e.Type))
	}

	orderID, err := e.OrderID()
	if err != nil {
		return BroadcastReport{}, errs.NewValueIsInvalidErrorWithCause("order_id", err)
	}

	ctx, span := tracing.Start(ctx, "fanout.Broadcast", trace.WithAttributes(
		attribute.String("tenant_id", e.TenantID()),
		attribute.String("order_id", orderID.String()),
		attribute.String("event.type", string(e.Type)),
	))
	defer span.End()

	subs, err := b.uowFactory.Create().SubscriptionRepository().ListByTenant(ctx, e.TenantID())
	if err != nil {
		span.RecordError(err)
		return BroadcastReport{}, fmt.Errorf("list subscriptions of tenant %s: %w", e.TenantID(), err)
	}

	snapshot := e.Payload
	payload, err := json.Marshal(event.PushMessage{Type: pushType, Order: &snapshot})
	if err != nil {
		return BroadcastReport{}, err
	}

	var (
		mu     sync.Mutex
		report BroadcastReport
		g      errgroup.Group
	)
	g.SetLimit(b.parallelism)

	for _, s := range subs {
		if !s.Matches(e.TenantID(), orderID) {
			continue
		}

		connID := s.ConnectionID()
		g.Go(func() error {
			pushErr := b.pusher.Push(ctx, connID, payload)

			mu.Lock()
			defer mu.Unlock()
			if pushErr != nil {
				report.Failed = append(report.Failed, DeliveryFailure{ConnectionID: connID, Err: pushErr})
				b.logger.WarnContext(ctx, "failed to push event",
					"tenant_id", e.TenantID(), "order_id", orderID.String(),
					"connection_id", connID, "error", pushErr)
				return nil
			}
			report.Delivered = append(report.Delivered, connID)
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(report.Delivered)
	slices.SortFunc(report.Failed, func(a, b DeliveryFailure) int {
		return cmp.Compare(a.ConnectionID, b.ConnectionID)
	})

	span.SetAttributes(
		attribute.Int("broadcast.delivered", len(report.Delivered)),
		attribute.Int("broadcast.failed", len(report.Failed)),
	)
	return report, nil
}
