package temporal

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"

	"go.temporal.io/sdk/activity"
)

// Callbacks is the application surface the activities drive.
type Callbacks interface {
	// ResumeWorkflow stores the token that resumes the parked delivery step.
	ResumeWorkflow(ctx context.Context, tenantID string, orderID kernel.UUID, token string) error

	// IsDelivered reports whether the order already reached its terminal status.
	IsDelivered(ctx context.Context, tenantID string, orderID kernel.UUID) (bool, error)

	// OnArrival sends the arrival notification to the order's client.
	OnArrival(ctx context.Context, tenantID string, orderID kernel.UUID) error
}

// Activities are registered on the worker under their method names.
type Activities struct {
	callbacks Callbacks
}

func NewActivities(callbacks Callbacks) *Activities {
	return &Activities{callbacks: callbacks}
}

// AwaitDelivery records this activity's task token on the order and completes
// asynchronously once the order is marked complete.
func (a *Activities) AwaitDelivery(ctx context.Context, tenantID, orderID string) error {
	id, err := kernel.UUIDFromString(orderID)
	if err != nil {
		return err
	}

	token := EncodeToken(activity.GetInfo(ctx).TaskToken)
	if err = a.callbacks.ResumeWorkflow(ctx, tenantID, id, token); err != nil {
		return err
	}

	// The completion may have landed before the token was stored.
	delivered, err := a.callbacks.IsDelivered(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if delivered {
		return nil
	}

	activity.GetLogger(ctx).Info("waiting for delivery", "tenantID", tenantID, "orderID", orderID)
	return activity.ErrResultPending
}

// NotifyArrival publishes the arrival notification.
func (a *Activities) NotifyArrival(ctx context.Context, tenantID, orderID string) error {
	id, err := kernel.UUIDFromString(orderID)
	if err != nil {
		return err
	}
	return a.callbacks.OnArrival(ctx, tenantID, id)
}
