package queries

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// GetStatisticsQueryHandler streams the tenant's orders through a StatisticsAggregator.
type GetStatisticsQueryHandler struct {
	repo ports.OrderRepository
}

func NewGetStatisticsQueryHandler(repo ports.OrderRepository) GetStatisticsQueryHandler {
	return GetStatisticsQueryHandler{repo: repo}
}

func (h GetStatisticsQueryHandler) Handle(ctx context.Context, query GetStatisticsQuery) (services.Statistics, error) {
	if err := query.Validate(); err != nil {
		return services.Statistics{}, err
	}

	agg := services.NewStatisticsAggregator()
	err := h.repo.ScanAll(ctx, query.TenantID(), func(o *order.Order) error {
		agg.Add(o)
		return nil
	})
	if err != nil {
		return services.Statistics{}, err
	}

	return agg.Result(), nil
}
