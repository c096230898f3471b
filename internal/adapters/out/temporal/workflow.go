package temporal

import (
	"time"

	"orderflow/internal/core/domain/model/order"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	awaitDeliveryActivity = "AwaitDelivery"
	notifyArrivalActivity = "NotifyArrival"

	// deliveryWindow bounds how long an order may sit between creation and completion.
	deliveryWindow = 72 * time.Hour
)

// OrderFulfillmentWorkflow parks until the order is completed, then sends the arrival notification.
func OrderFulfillmentWorkflow(ctx workflow.Context, snapshot order.Snapshot) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("fulfillment started", "tenantID", snapshot.TenantID, "orderID", snapshot.OrderID)

	awaitCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: deliveryWindow,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	})
	if err := workflow.ExecuteActivity(awaitCtx, awaitDeliveryActivity, snapshot.TenantID, snapshot.OrderID).Get(ctx, nil); err != nil {
		logger.Error("delivery was not confirmed", "orderID", snapshot.OrderID, "error", err)
		return err
	}

	notifyCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    5,
		},
	})
	if err := workflow.ExecuteActivity(notifyCtx, notifyArrivalActivity, snapshot.TenantID, snapshot.OrderID).Get(ctx, nil); err != nil {
		logger.Error("arrival notification failed", "orderID", snapshot.OrderID, "error", err)
		return err
	}

	logger.Info("fulfillment finished", "orderID", snapshot.OrderID)
	return nil
}
