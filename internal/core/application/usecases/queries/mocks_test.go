package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const tenant = "tenant-1"

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Create(_ context.Context, _ *order.Order) error { return nil }

func (m *MockOrderRepository) Get(ctx context.Context, tenantID string, orderID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, orderID)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) UpdateTransition(_ context.Context, _ string, _ kernel.UUID, _ order.Transition) (*order.Order, error) {
	return nil, nil
}

func (m *MockOrderRepository) Query(
	ctx context.Context,
	tenantID string,
	selector ports.OrderSelector,
	pageSize int,
	cursor string,
) (ports.OrderPage, error) {
	args := m.Called(ctx, tenantID, selector, pageSize, cursor)
	return args.Get(0).(ports.OrderPage), args.Error(1)
}

// ScanAll feeds the orders configured through Return into fn.
func (m *MockOrderRepository) ScanAll(ctx context.Context, tenantID string, fn func(*order.Order) error) error {
	args := m.Called(ctx, tenantID)
	orders, _ := args.Get(0).([]*order.Order)
	for _, o := range orders {
		if err := fn(o); err != nil {
			return err
		}
	}
	return args.Error(1)
}

func (m *MockOrderRepository) SetExecutionHandle(_ context.Context, _ string, _ kernel.UUID, _ string) error {
	return nil
}

func (m *MockOrderRepository) SetResumeToken(_ context.Context, _ string, _ kernel.UUID, _ string) error {
	return nil
}

type MockWorkflowEngine struct{ mock.Mock }

func (m *MockWorkflowEngine) Start(_ context.Context, _ order.Snapshot) (string, error) {
	return "", nil
}

func (m *MockWorkflowEngine) Describe(ctx context.Context, handle string) (ports.ExecutionDescription, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(ports.ExecutionDescription), args.Error(1)
}

func (m *MockWorkflowEngine) Resume(_ context.Context, _ string) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newActor(t *testing.T, userID string, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(tenant, userID, "", userID, role)
	require.NoError(t, err)
	return a
}

type stamp struct {
	status order.Status
	at     time.Time
}

func storedOrder(t *testing.T, status order.Status, createdAt time.Time, handle string, stamps ...stamp) *order.Order {
	t.Helper()
	p, err := order.NewProduct(tenant, "p1", "Soup", "5.00", "")
	require.NoError(t, err)
	item, err := order.NewItem(p, 1)
	require.NoError(t, err)

	var cook *kernel.Actor
	history := make([]order.HistoryEntry, 0, len(stamps))
	for _, s := range stamps {
		a := newActor(t, "staff-1", kernel.RoleCook)
		if s.status == order.Cooking {
			cook = &a
		}
		h, err := order.NewHistoryEntry(a, s.status, s.at)
		require.NoError(t, err)
		history = append(history, h)
	}

	o, err := order.RestoreOrder(order.RestoreParams{
		TenantID:        tenant,
		ID:              kernel.NewUUID(),
		Client:          newActor(t, "client-1", kernel.RoleClient),
		Items:           []order.Item{item},
		Status:          status,
		CreatedAt:       createdAt,
		Cook:            cook,
		ExecutionHandle: handle,
		History:         history,
	})
	require.NoError(t, err)
	return o
}
