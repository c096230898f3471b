package services_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

const tenant = "tenant-1"

func newActor(t *testing.T, userID string, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(tenant, userID, "", userID, role)
	require.NoError(t, err)
	return a
}

func newItem(t *testing.T) order.Item {
	t.Helper()
	p, err := order.NewProduct(tenant, "p1", "Dumplings", "7.00", "")
	require.NoError(t, err)
	i, err := order.NewItem(p, 2)
	require.NoError(t, err)
	return i
}

func newOrder(t *testing.T, clientID string, createdAt time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), newActor(t, clientID, kernel.RoleClient), []order.Item{newItem(t)}, createdAt)
	require.NoError(t, err)
	return o
}

type stamp struct {
	status order.Status
	at     time.Time
}

// restoredOrder builds an order whose persisted history is given verbatim.
func restoredOrder(t *testing.T, status order.Status, createdAt time.Time, cook *kernel.Actor, stamps ...stamp) *order.Order {
	t.Helper()
	history := make([]order.HistoryEntry, 0, len(stamps))
	for _, s := range stamps {
		h, err := order.NewHistoryEntry(newActor(t, "someone", kernel.RoleAdmin), s.status, s.at)
		require.NoError(t, err)
		history = append(history, h)
	}
	o, err := order.RestoreOrder(order.RestoreParams{
		TenantID:  tenant,
		ID:        kernel.NewUUID(),
		Client:    newActor(t, "client-1", kernel.RoleClient),
		Items:     []order.Item{newItem(t)},
		Status:    status,
		CreatedAt: createdAt,
		Cook:      cook,
		History:   history,
	})
	require.NoError(t, err)
	return o
}
