package commands_test

import (
	"context"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/subscription"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, tenantID string, orderID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, orderID)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) UpdateTransition(
	ctx context.Context,
	tenantID string,
	orderID kernel.UUID,
	tr order.Transition,
) (*order.Order, error) {
	args := m.Called(ctx, tenantID, orderID, tr)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Query(
	_ context.Context,
	_ string,
	_ ports.OrderSelector,
	_ int,
	_ string,
) (ports.OrderPage, error) {
	return ports.OrderPage{}, nil
}

func (m *MockOrderRepository) ScanAll(_ context.Context, _ string, _ func(*order.Order) error) error {
	return nil
}

func (m *MockOrderRepository) SetExecutionHandle(_ context.Context, _ string, _ kernel.UUID, _ string) error {
	return nil
}

func (m *MockOrderRepository) SetResumeToken(_ context.Context, _ string, _ kernel.UUID, _ string) error {
	return nil
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockSubscriptionRepository struct{ mock.Mock }

func (m *MockSubscriptionRepository) Add(ctx context.Context, s subscription.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetByConnection(_ context.Context, _ string) (subscription.Subscription, error) {
	return subscription.Subscription{}, nil
}

func (m *MockSubscriptionRepository) RemoveByConnection(ctx context.Context, connectionID string) error {
	args := m.Called(ctx, connectionID)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) ListByTenant(_ context.Context, _ string) ([]subscription.Subscription, error) {
	return nil, nil
}

type MockSubscriptionUoW struct{ mock.Mock }

func (m *MockSubscriptionUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockSubscriptionUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockSubscriptionUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSubscriptionUoW) SubscriptionRepository() ports.SubscriptionRepository {
	args := m.Called()
	return args.Get(0).(ports.SubscriptionRepository)
}

type MockSubscriptionUoWFactory struct{ mock.Mock }

func (m *MockSubscriptionUoWFactory) Create() commands.SubscriptionUoW {
	args := m.Called()
	return args.Get(0).(commands.SubscriptionUoW)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) Resolve(ctx context.Context, tenantID, productID string) (order.Product, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).(order.Product), args.Error(1)
}

type MockOrderEvents struct{ mock.Mock }

func (m *MockOrderEvents) OnCreated(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

func (m *MockOrderEvents) OnStatusUpdated(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

type MockConnectionPusher struct{ mock.Mock }

func (m *MockConnectionPusher) Push(ctx context.Context, connectionID string, payload []byte) error {
	args := m.Called(ctx, connectionID, payload)
	return args.Error(0)
}

var createdAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
