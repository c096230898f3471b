// Package subscriptionrepo persists push-channel subscriptions keyed by connection id.
package subscriptionrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/subscription"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SubscriptionDTO is the row of order_subscriptions. A NULL order id is a wildcard.
type SubscriptionDTO struct {
	ConnectionID string     `gorm:"primaryKey"`
	TenantID     string     `gorm:"not null"`
	OrderID      *uuid.UUID `gorm:"type:uuid"`
	ConnectedAt  time.Time  `gorm:"not null"`
}

func (SubscriptionDTO) TableName() string {
	return "order_subscriptions"
}

// GormSubscriptionRepository implements ports.SubscriptionRepository using GORM.
type GormSubscriptionRepository struct {
	db *gorm.DB
}

var _ ports.SubscriptionRepository = (*GormSubscriptionRepository)(nil)

func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

func (r *GormSubscriptionRepository) Add(ctx context.Context, s subscription.Subscription) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := SubscriptionDTO{
		ConnectionID: s.ConnectionID(),
		TenantID:     s.TenantID(),
		ConnectedAt:  s.ConnectedAt(),
	}
	if id := s.OrderID(); id != nil {
		raw := id.Bytes()
		dto.OrderID = &raw
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, gorm.ErrDuplicatedKey) || (errors.As(err, &pgErr) && pgErr.Code == "23505") {
			return errs.NewObjectAlreadyExistsErrorWithCause("subscription", s.ConnectionID(), err)
		}
		return err
	}
	return nil
}

func (r *GormSubscriptionRepository) GetByConnection(ctx context.Context, connectionID string) (subscription.Subscription, error) {
	var dto SubscriptionDTO
	if err := r.db.WithContext(ctx).First(&dto, "connection_id = ?", connectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return subscription.Subscription{}, errs.NewObjectNotFoundError("subscription", connectionID)
		}
		return subscription.Subscription{}, err
	}
	return toDomain(dto)
}

func (r *GormSubscriptionRepository) RemoveByConnection(ctx context.Context, connectionID string) error {
	return r.db.WithContext(ctx).Delete(&SubscriptionDTO{}, "connection_id = ?", connectionID).Error
}

func (r *GormSubscriptionRepository) ListByTenant(ctx context.Context, tenantID string) ([]subscription.Subscription, error) {
	var dtos []SubscriptionDTO
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("connected_at ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	subs := make([]subscription.Subscription, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, nil
}

func toDomain(dto SubscriptionDTO) (subscription.Subscription, error) {
	var orderID *kernel.UUID
	if dto.OrderID != nil {
		id, err := kernel.UUIDFromBytes(dto.OrderID[:])
		if err != nil {
			return subscription.Subscription{}, err
		}
		orderID = &id
	}
	return subscription.NewSubscription(dto.TenantID, orderID, dto.ConnectionID, dto.ConnectedAt)
}
