package temporal_test

import (
	"context"
	"errors"
	"testing"

	"orderflow/internal/adapters/out/temporal"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"
)

type mockCallbacks struct {
	mock.Mock
}

func (m *mockCallbacks) ResumeWorkflow(ctx context.Context, tenantID string, orderID kernel.UUID, token string) error {
	return m.Called(ctx, tenantID, orderID, token).Error(0)
}

func (m *mockCallbacks) IsDelivered(ctx context.Context, tenantID string, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCallbacks) OnArrival(ctx context.Context, tenantID string, orderID kernel.UUID) error {
	return m.Called(ctx, tenantID, orderID).Error(0)
}

type FulfillmentWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
}

func (s *FulfillmentWorkflowTestSuite) TestWorkflow_AwaitsDeliveryThenNotifies() {
	env := s.NewTestWorkflowEnvironment()
	acts := &temporal.Activities{}
	env.RegisterActivity(acts)

	var calls []string
	env.OnActivity(acts.AwaitDelivery, mock.Anything, "tenant-1", "42").Return(func(context.Context, string, string) error {
		calls = append(calls, "await")
		return nil
	})
	env.OnActivity(acts.NotifyArrival, mock.Anything, "tenant-1", "42").Return(func(context.Context, string, string) error {
		calls = append(calls, "notify")
		return nil
	})

	env.ExecuteWorkflow(temporal.OrderFulfillmentWorkflow, order.Snapshot{TenantID: "tenant-1", OrderID: "42"})

	s.True(env.IsWorkflowCompleted())
	s.NoError(env.GetWorkflowError())
	s.Equal([]string{"await", "notify"}, calls)
}

func (s *FulfillmentWorkflowTestSuite) TestWorkflow_SkipsNotificationWhenDeliveryFails() {
	env := s.NewTestWorkflowEnvironment()
	acts := &temporal.Activities{}
	env.RegisterActivity(acts)

	env.OnActivity(acts.AwaitDelivery, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("timed out"))

	env.ExecuteWorkflow(temporal.OrderFulfillmentWorkflow, order.Snapshot{TenantID: "tenant-1", OrderID: "42"})

	s.True(env.IsWorkflowCompleted())
	s.Error(env.GetWorkflowError())
	env.AssertNotCalled(s.T(), "NotifyArrival", mock.Anything, mock.Anything, mock.Anything)
}

func (s *FulfillmentWorkflowTestSuite) TestAwaitDelivery_StoresTokenAndParks() {
	orderID := kernel.NewUUID()
	callbacks := &mockCallbacks{}
	callbacks.On("ResumeWorkflow", mock.Anything, "tenant-1", orderID, mock.AnythingOfType("string")).Return(nil)
	callbacks.On("IsDelivered", mock.Anything, "tenant-1", orderID).Return(false, nil)

	env := s.NewTestActivityEnvironment()
	env.RegisterActivity(temporal.NewActivities(callbacks))

	_, err := env.ExecuteActivity("AwaitDelivery", "tenant-1", orderID.String())

	s.Error(err, "a parked activity does not complete synchronously")
	callbacks.AssertExpectations(s.T())
}

func (s *FulfillmentWorkflowTestSuite) TestAwaitDelivery_CompletesWhenAlreadyDelivered() {
	orderID := kernel.NewUUID()
	callbacks := &mockCallbacks{}
	callbacks.On("ResumeWorkflow", mock.Anything, "tenant-1", orderID, mock.AnythingOfType("string")).Return(nil)
	callbacks.On("IsDelivered", mock.Anything, "tenant-1", orderID).Return(true, nil)

	env := s.NewTestActivityEnvironment()
	env.RegisterActivity(temporal.NewActivities(callbacks))

	_, err := env.ExecuteActivity("AwaitDelivery", "tenant-1", orderID.String())

	s.NoError(err)
}

func (s *FulfillmentWorkflowTestSuite) TestNotifyArrival_CallsBack() {
	orderID := kernel.NewUUID()
	callbacks := &mockCallbacks{}
	callbacks.On("OnArrival", mock.Anything, "tenant-1", orderID).Return(nil)

	env := s.NewTestActivityEnvironment()
	env.RegisterActivity(temporal.NewActivities(callbacks))

	_, err := env.ExecuteActivity("NotifyArrival", "tenant-1", orderID.String())

	s.NoError(err)
	callbacks.AssertExpectations(s.T())
}

func TestFulfillmentWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(FulfillmentWorkflowTestSuite))
}
