package fanout_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/subscription"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const tenant = "tenant-1"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, tenantID string, orderID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, orderID)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) UpdateTransition(ctx context.Context, tenantID string, orderID kernel.UUID, tr order.Transition) (*order.Order, error) {
	args := m.Called(ctx, tenantID, orderID, tr)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Query(ctx context.Context, tenantID string, selector ports.OrderSelector, pageSize int, cursor string) (ports.OrderPage, error) {
	args := m.Called(ctx, tenantID, selector, pageSize, cursor)
	return args.Get(0).(ports.OrderPage), args.Error(1)
}

func (m *MockOrderRepository) ScanAll(ctx context.Context, tenantID string, fn func(*order.Order) error) error {
	return m.Called(ctx, tenantID, fn).Error(0)
}

func (m *MockOrderRepository) SetExecutionHandle(ctx context.Context, tenantID string, orderID kernel.UUID, handle string) error {
	return m.Called(ctx, tenantID, orderID, handle).Error(0)
}

func (m *MockOrderRepository) SetResumeToken(ctx context.Context, tenantID string, orderID kernel.UUID, token string) error {
	return m.Called(ctx, tenantID, orderID, token).Error(0)
}

type MockSubscriptionRepository struct{ mock.Mock }

func (m *MockSubscriptionRepository) Add(ctx context.Context, s subscription.Subscription) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubscriptionRepository) GetByConnection(ctx context.Context, connectionID string) (subscription.Subscription, error) {
	args := m.Called(ctx, connectionID)
	return args.Get(0).(subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) RemoveByConnection(ctx context.Context, connectionID string) error {
	return m.Called(ctx, connectionID).Error(0)
}

func (m *MockSubscriptionRepository) ListByTenant(ctx context.Context, tenantID string) ([]subscription.Subscription, error) {
	args := m.Called(ctx, tenantID)
	subs, _ := args.Get(0).([]subscription.Subscription)
	return subs, args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Insert(ctx context.Context, msg ports.OutboxMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, now time.Time, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, now, limit)
	msgs, _ := args.Get(0).([]ports.OutboxMessage)
	return msgs, args.Error(1)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOutboxRepository) UpdateRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error {
	return m.Called(ctx, id, retryCount, lastError, nextRetryAt).Error(0)
}

// stubUoW hands out the same repositories for every unit of work.
type stubUoW struct {
	orders        *MockOrderRepository
	subscriptions *MockSubscriptionRepository
	outbox        *MockOutboxRepository
}

func newStubUoW() *stubUoW {
	return &stubUoW{
		orders:        new(MockOrderRepository),
		subscriptions: new(MockSubscriptionRepository),
		outbox:        new(MockOutboxRepository),
	}
}

func (u *stubUoW) Create() ports.UnitOfWork       { return u }
func (u *stubUoW) Begin(context.Context) error    { return nil }
func (u *stubUoW) Commit(context.Context) error   { return nil }
func (u *stubUoW) Rollback(context.Context) error { return nil }

func (u *stubUoW) OrderRepository() ports.OrderRepository { return u.orders }

func (u *stubUoW) SubscriptionRepository() ports.SubscriptionRepository { return u.subscriptions }

func (u *stubUoW) OutboxRepository() ports.OutboxRepository { return u.outbox }

func (u *stubUoW) AssertExpectations(t *testing.T) {
	u.orders.AssertExpectations(t)
	u.subscriptions.AssertExpectations(t)
	u.outbox.AssertExpectations(t)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, e event.DomainEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEventPublisher) PublishRaw(ctx context.Context, topic, key string, payload []byte) error {
	return m.Called(ctx, topic, key, payload).Error(0)
}

type MockWorkflowEngine struct{ mock.Mock }

func (m *MockWorkflowEngine) Start(ctx context.Context, snapshot order.Snapshot) (string, error) {
	args := m.Called(ctx, snapshot)
	return args.String(0), args.Error(1)
}

func (m *MockWorkflowEngine) Describe(ctx context.Context, handle string) (ports.ExecutionDescription, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(ports.ExecutionDescription), args.Error(1)
}

func (m *MockWorkflowEngine) Resume(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockNotificationChannel struct{ mock.Mock }

func (m *MockNotificationChannel) Publish(ctx context.Context, filter ports.RecipientFilter, msg ports.Notification) error {
	return m.Called(ctx, filter, msg).Error(0)
}

func (m *MockNotificationChannel) Subscribe(ctx context.Context, endpoint string, filter ports.RecipientFilter) error {
	return m.Called(ctx, endpoint, filter).Error(0)
}

type MockConnectionPusher struct{ mock.Mock }

func (m *MockConnectionPusher) Push(ctx context.Context, connectionID string, payload []byte) error {
	return m.Called(ctx, connectionID, payload).Error(0)
}

func newActor(t *testing.T, userID string, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(tenant, userID, userID+"@example.com", userID, role)
	require.NoError(t, err)
	return a
}

func newItem(t *testing.T, productID, name string, qty int) order.Item {
	t.Helper()
	p, err := order.NewProduct(tenant, productID, name, "4.50", "")
	require.NoError(t, err)
	i, err := order.NewItem(p, qty)
	require.NoError(t, err)
	return i
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		newActor(t, "client-1", kernel.RoleClient),
		[]order.Item{newItem(t, "p1", "Soup", 2), newItem(t, "p2", "Bread", 1)},
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return o
}

func restoredOrder(t *testing.T, status order.Status, resumeToken string) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.RestoreParams{
		TenantID:    tenant,
		ID:          kernel.NewUUID(),
		Client:      newActor(t, "client-1", kernel.RoleClient),
		Items:       []order.Item{newItem(t, "p1", "Soup", 1)},
		Status:      status,
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ResumeToken: resumeToken,
	})
	require.NoError(t, err)
	return o
}
