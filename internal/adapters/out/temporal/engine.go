// Package temporal runs order fulfillment on a Temporal cluster. Engine is the
// ports.WorkflowEngine used by the dispatcher, the workflow and its activities
// call back into the application when delivery completes.
package temporal

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	enums "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
)

const handleSeparator = "/"

type workflowClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	DescribeWorkflowExecution(ctx context.Context, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error)
	GetWorkflowHistory(ctx context.Context, workflowID, runID string, isLongPoll bool, filterType enums.HistoryEventFilterType) client.HistoryEventIterator
	CompleteActivity(ctx context.Context, taskToken []byte, result interface{}, err error) error
}

// Engine starts and inspects OrderFulfillment executions.
type Engine struct {
	client    workflowClient
	taskQueue string
}

var _ ports.WorkflowEngine = (*Engine)(nil)

func NewEngine(c workflowClient, taskQueue string) *Engine {
	return &Engine{client: c, taskQueue: taskQueue}
}

// WorkflowID is the execution id of an order's fulfillment workflow.
func WorkflowID(tenantID, orderID string) string {
	return "order-" + tenantID + "-" + orderID
}

// Start launches fulfillment for the snapshot. A second start for the same order is rejected
// by the cluster, so a redelivered order.created cannot fork a duplicate execution.
func (e *Engine) Start(ctx context.Context, snapshot order.Snapshot) (string, error) {
	opts := client.StartWorkflowOptions{
		ID:                                       WorkflowID(snapshot.TenantID, snapshot.OrderID),
		TaskQueue:                                e.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
		WorkflowIDReusePolicy:                    enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}

	run, err := e.client.ExecuteWorkflow(ctx, opts, OrderFulfillmentWorkflow, snapshot)
	if err != nil {
		return "", fmt.Errorf("start fulfillment for order %s: %w", snapshot.OrderID, err)
	}

	return run.GetID() + handleSeparator + run.GetRunID(), nil
}

// Describe reports status, timing and the history events of the execution.
func (e *Engine) Describe(ctx context.Context, handle string) (ports.ExecutionDescription, error) {
	workflowID, runID, err := splitHandle(handle)
	if err != nil {
		return ports.ExecutionDescription{}, err
	}

	resp, err := e.client.DescribeWorkflowExecution(ctx, workflowID, runID)
	if err != nil {
		return ports.ExecutionDescription{}, fmt.Errorf("describe %s: %w", handle, err)
	}

	info := resp.GetWorkflowExecutionInfo()
	desc := ports.ExecutionDescription{
		Handle: handle,
		Status: info.GetStatus().String(),
		Events: make([]ports.ExecutionEvent, 0),
	}
	if ts := info.GetStartTime(); ts != nil {
		t := ts.AsTime()
		desc.StartTime = &t
	}
	if ts := info.GetCloseTime(); ts != nil {
		t := ts.AsTime()
		desc.CloseTime = &t
	}

	iter := e.client.GetWorkflowHistory(ctx, workflowID, runID, false, enums.HISTORY_EVENT_FILTER_TYPE_ALL_EVENT)
	for iter.HasNext() {
		ev, nextErr := iter.Next()
		if nextErr != nil {
			return ports.ExecutionDescription{}, fmt.Errorf("history of %s: %w", handle, nextErr)
		}
		var at time.Time
		if ts := ev.GetEventTime(); ts != nil {
			at = ts.AsTime()
		}
		desc.Events = append(desc.Events, ports.ExecutionEvent{
			ID:   ev.GetEventId(),
			Type: ev.GetEventType().String(),
			Time: at,
		})
	}

	return desc, nil
}

// Resume completes the parked activity whose task token was encoded into token.
func (e *Engine) Resume(ctx context.Context, token string) error {
	taskToken, err := DecodeToken(token)
	if err != nil {
		return err
	}
	if err = e.client.CompleteActivity(ctx, taskToken, nil, nil); err != nil {
		return fmt.Errorf("complete parked activity: %w", err)
	}
	return nil
}

// EncodeToken renders an activity task token as a resume token.
func EncodeToken(taskToken []byte) string {
	return base64.RawURLEncoding.EncodeToString(taskToken)
}

// DecodeToken reverses EncodeToken.
func DecodeToken(token string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) == 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("resume token", err)
	}
	return raw, nil
}

func splitHandle(handle string) (string, string, error) {
	workflowID, runID, ok := strings.Cut(handle, handleSeparator)
	if !ok || workflowID == "" {
		return "", "", errs.NewValueIsInvalidError("execution handle")
	}
	return workflowID, runID, nil
}
