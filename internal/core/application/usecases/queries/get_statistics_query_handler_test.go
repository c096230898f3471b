package queries_test

import (
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetStatisticsQuery(t *testing.T) {
	q, err := queries.NewGetStatisticsQuery(tenant)
	require.NoError(t, err)
	assert.Equal(t, tenant, q.TenantID())

	_, err = queries.NewGetStatisticsQuery("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetStatisticsQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	done := storedOrder(t, order.Complete, t0, "",
		stamp{order.Cooking, t0.Add(60 * time.Second)},
		stamp{order.Complete, t0.Add(600 * time.Second)},
	)
	waiting := storedOrder(t, order.WaitForCook, t0.Add(24*time.Hour), "")

	repo := new(MockOrderRepository)
	repo.On("ScanAll", ctx, tenant).Return([]*order.Order{done, waiting}, nil).Once()

	q, err := queries.NewGetStatisticsQuery(tenant)
	require.NoError(t, err)

	stats, err := queries.NewGetStatisticsQueryHandler(repo).Handle(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.StatusCount["complete"])
	assert.Equal(t, 1, stats.StatusCount["wait_for_cook"])
	assert.Equal(t, 2, stats.OrdersByClient["client-1"])
	assert.Equal(t, 1, stats.OrdersByCook["staff-1"])
	assert.Equal(t, 1, stats.OrdersPerDay["2026-03-01"])
	assert.Equal(t, 1, stats.OrdersPerDay["2026-03-02"])
	require.NotNil(t, stats.AvgTotalDuration)
	assert.InDelta(t, 600.0, *stats.AvgTotalDuration, 0.001)
	_, hasStage := stats.AvgStageDurations[services.StageKey(order.Cooking, order.WaitForDispatcher)]
	assert.False(t, hasStage)
	repo.AssertExpectations(t)
}

func TestGetStatisticsQueryHandler_Handle_ScanError(t *testing.T) {
	ctx := t.Context()
	repo := new(MockOrderRepository)
	repo.On("ScanAll", ctx, tenant).Return(nil, errors.New("db down")).Once()

	q, err := queries.NewGetStatisticsQuery(tenant)
	require.NoError(t, err)

	_, err = queries.NewGetStatisticsQueryHandler(repo).Handle(ctx, q)
	require.Error(t, err)
}
