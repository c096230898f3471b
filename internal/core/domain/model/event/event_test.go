package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	client, err := kernel.NewActor("t1", "c1", "", "", kernel.RoleClient)
	require.NoError(t, err)
	p, err := order.NewProduct("t1", "p1", "Soup", "3", "")
	require.NoError(t, err)
	i, err := order.NewItem(p, 1)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), client, []order.Item{i}, time.Now())
	require.NoError(t, err)

	e := event.New("orders", event.OrderCreated, o, time.Now())

	assert.Equal(t, "t1", e.TenantID())
	id, err := e.OrderID()
	require.NoError(t, err)
	assert.True(t, id.IsEqual(o.ID()))

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"order.created"`)
	assert.Contains(t, string(data), `"source":"orders"`)
}

func TestPushTypeOf(t *testing.T) {
	typ, ok := event.PushTypeOf(event.OrderCreated)
	assert.True(t, ok)
	assert.Equal(t, event.PushOrderCreated, typ)

	typ, ok = event.PushTypeOf(event.OrderStatusUpdated)
	assert.True(t, ok)
	assert.Equal(t, event.PushOrderStatusUpdated, typ)

	_, ok = event.PushTypeOf(event.UserRegistered)
	assert.False(t, ok)
}
