package fanout_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/fanout"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSubscription(t *testing.T, orderID *kernel.UUID, connID string) subscription.Subscription {
	t.Helper()
	s, err := subscription.NewSubscription(tenant, orderID, connID, time.Now())
	require.NoError(t, err)
	return s
}

func TestBroadcaster_Broadcast_MatchesWildcardAndScoped(t *testing.T) {
	uow := newStubUoW()
	pusher := new(MockConnectionPusher)
	o := newOrder(t)
	other := kernel.NewUUID()
	id := o.ID()

	uow.subscriptions.On("ListByTenant", mock.Anything, tenant).Return([]subscription.Subscription{
		newSubscription(t, nil, "conn-wildcard"),
		newSubscription(t, &id, "conn-scoped"),
		newSubscription(t, &other, "conn-other"),
	}, nil).Once()

	var pushed []byte
	pusher.On("Push", mock.Anything, "conn-wildcard", mock.Anything).
		Run(func(args mock.Arguments) { pushed = args.Get(2).([]byte) }).
		Return(nil).Once()
	pusher.On("Push", mock.Anything, "conn-scoped", mock.Anything).Return(nil).Once()

	b := fanout.NewBroadcaster(uow, pusher, 2, discardLogger())
	report, err := b.Broadcast(t.Context(), event.New("orderflow", event.OrderCreated, o, time.Now()))
	require.NoError(t, err)

	assert.Equal(t, []string{"conn-scoped", "conn-wildcard"}, report.Delivered)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 2, report.Matched())
	pusher.AssertNotCalled(t, "Push", mock.Anything, "conn-other", mock.Anything)

	var msg event.PushMessage
	require.NoError(t, json.Unmarshal(pushed, &msg))
	assert.Equal(t, event.PushOrderCreated, msg.Type)
	require.NotNil(t, msg.Order)
	assert.Equal(t, o.ID().String(), msg.Order.OrderID)
	assert.Len(t, msg.Order.Items, 2)

	uow.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestBroadcaster_Broadcast_FailureDoesNotStopOthers(t *testing.T) {
	uow := newStubUoW()
	pusher := new(MockConnectionPusher)
	o := newOrder(t)

	uow.subscriptions.On("ListByTenant", mock.Anything, tenant).Return([]subscription.Subscription{
		newSubscription(t, nil, "conn-a"),
		newSubscription(t, nil, "conn-b"),
		newSubscription(t, nil, "conn-c"),
	}, nil).Once()

	gone := errors.New("connection gone")
	pusher.On("Push", mock.Anything, "conn-a", mock.Anything).Return(nil).Once()
	pusher.On("Push", mock.Anything, "conn-b", mock.Anything).Return(gone).Once()
	pusher.On("Push", mock.Anything, "conn-c", mock.Anything).Return(nil).Once()

	b := fanout.NewBroadcaster(uow, pusher, 1, discardLogger())
	report, err := b.Broadcast(t.Context(), event.New("orderflow", event.OrderStatusUpdated, o, time.Now()))
	require.NoError(t, err)

	assert.Equal(t, []string{"conn-a", "conn-c"}, report.Delivered)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "conn-b", report.Failed[0].ConnectionID)
	assert.ErrorIs(t, report.Failed[0].Err, gone)
	pusher.AssertExpectations(t)
}

func TestBroadcaster_Broadcast_NoSubscriptions(t *testing.T) {
	uow := newStubUoW()
	pusher := new(MockConnectionPusher)

	uow.subscriptions.On("ListByTenant", mock.Anything, tenant).Return(nil, nil).Once()

	b := fanout.NewBroadcaster(uow, pusher, 0, discardLogger())
	report, err := b.Broadcast(t.Context(), event.New("orderflow", event.OrderCreated, newOrder(t), time.Now()))
	require.NoError(t, err)
	assert.Zero(t, report.Matched())
	pusher.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestBroadcaster_Broadcast_ListFailure(t *testing.T) {
	uow := newStubUoW()
	uow.subscriptions.On("ListByTenant", mock.Anything, tenant).Return(nil, errors.New("db down")).Once()

	b := fanout.NewBroadcaster(uow, new(MockConnectionPusher), 4, discardLogger())
	_, err := b.Broadcast(t.Context(), event.New("orderflow", event.OrderCreated, newOrder(t), time.Now()))
	require.Error(t, err)
}

func TestBroadcaster_Broadcast_RejectsForeignEventTypes(t *testing.T) {
	b := fanout.NewBroadcaster(newStubUoW(), new(MockConnectionPusher), 4, discardLogger())
	e := event.New("orderflow", event.OrderCreated, newOrder(t), time.Now())
	e.Type = event.UserRegistered

	_, err := b.Broadcast(t.Context(), e)
	require.Error(t, err)
}
