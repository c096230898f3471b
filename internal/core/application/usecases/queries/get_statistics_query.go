package queries

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

var ErrGetStatisticsQueryIsNotConstructed = errors.New(
	"GetStatisticsQuery must be created via NewGetStatisticsQuery constructor",
)

// GetStatisticsQuery computes the operational statistics of one tenant.
// Statistics are recomputed from every order of the tenant on each call.
type GetStatisticsQuery struct {
	tenantID string

	guard guard.ConstructorGuard
}

func NewGetStatisticsQuery(tenantID string) (GetStatisticsQuery, error) {
	if tenantID == "" {
		return GetStatisticsQuery{}, ErrTenantIDIsRequired
	}
	return GetStatisticsQuery{tenantID: tenantID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatisticsQueryIsNotConstructed)
}

func (q GetStatisticsQuery) TenantID() string { return q.tenantID }
