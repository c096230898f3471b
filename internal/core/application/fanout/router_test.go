package fanout_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"orderflow/internal/core/application/fanout"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBroadcaster struct{ mock.Mock }

func (m *MockBroadcaster) Broadcast(ctx context.Context, e event.DomainEvent) (fanout.BroadcastReport, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(fanout.BroadcastReport), args.Error(1)
}

type MockRecipientRegistrar struct{ mock.Mock }

func (m *MockRecipientRegistrar) RegisterRecipient(ctx context.Context, reg event.UserRegistration) error {
	return m.Called(ctx, reg).Error(0)
}

func TestEventRouter_Route_OrderEvent(t *testing.T) {
	b := new(MockBroadcaster)
	r := new(MockRecipientRegistrar)
	o := newOrder(t)

	payload, err := json.Marshal(event.New("orderflow", event.OrderStatusUpdated, o, time.Now()))
	require.NoError(t, err)

	b.On("Broadcast", mock.Anything, mock.MatchedBy(func(e event.DomainEvent) bool {
		return e.Type == event.OrderStatusUpdated && e.Payload.OrderID == o.ID().String()
	})).Return(fanout.BroadcastReport{Delivered: []string{"c1"}}, nil).Once()

	router := fanout.NewEventRouter(b, r, discardLogger())
	require.NoError(t, router.Route(t.Context(), payload))
	b.AssertExpectations(t)
	r.AssertNotCalled(t, "RegisterRecipient", mock.Anything, mock.Anything)
}

func TestEventRouter_Route_UserRegistered(t *testing.T) {
	b := new(MockBroadcaster)
	r := new(MockRecipientRegistrar)

	payload := []byte(`{"type":"user.registered","payload":{"tenant_id":"tenant-1","user_id":"u1","email":"u1@example.com","username":"u1","role":"client"}}`)
	r.On("RegisterRecipient", mock.Anything, event.UserRegistration{
		TenantID: tenant, UserID: "u1", Email: "u1@example.com", Username: "u1", Role: "client",
	}).Return(nil).Once()

	router := fanout.NewEventRouter(b, r, discardLogger())
	require.NoError(t, router.Route(t.Context(), payload))
	r.AssertExpectations(t)
	b.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestEventRouter_Route_UnknownTypeIsSkipped(t *testing.T) {
	b := new(MockBroadcaster)
	r := new(MockRecipientRegistrar)

	router := fanout.NewEventRouter(b, r, discardLogger())
	require.NoError(t, router.Route(t.Context(), []byte(`{"type":"catalog.updated","payload":{}}`)))
	b.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
	r.AssertNotCalled(t, "RegisterRecipient", mock.Anything, mock.Anything)
}

func TestEventRouter_Route_Malformed(t *testing.T) {
	router := fanout.NewEventRouter(new(MockBroadcaster), new(MockRecipientRegistrar), discardLogger())

	err := router.Route(t.Context(), []byte(`not json`))
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
