// Package subscription models live push-channel subscriptions to order events.
package subscription

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrSubscriptionIsNotConstructed = errors.New("Subscription must be created via NewSubscription constructor")

// Subscription binds one live connection to a tenant's order events. A subscription
// without an order id is a wildcard and matches every order of the tenant.
type Subscription struct {
	tenantID     string
	orderID      *kernel.UUID
	connectionID string
	connectedAt  time.Time

	guard guard.ConstructorGuard
}

// NewSubscription validates a subscription request. orderID may be nil for a wildcard.
func NewSubscription(tenantID string, orderID *kernel.UUID, connectionID string, connectedAt time.Time) (Subscription, error) {
	var errList []error
	if tenantID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("tenant_id"))
	}
	if connectionID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("connection_id"))
	}
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := errors.Join(errList...); err != nil {
		return Subscription{}, err
	}

	return Subscription{
		tenantID:     tenantID,
		orderID:      orderID,
		connectionID: connectionID,
		connectedAt:  connectedAt.UTC().Truncate(time.Microsecond),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (s Subscription) Validate() error {
	return s.guard.Validate(ErrSubscriptionIsNotConstructed)
}

func (s Subscription) TenantID() string       { return s.tenantID }
func (s Subscription) OrderID() *kernel.UUID  { return s.orderID }
func (s Subscription) ConnectionID() string   { return s.connectionID }
func (s Subscription) ConnectedAt() time.Time { return s.connectedAt }

// IsWildcard reports whether the subscription covers every order of its tenant.
func (s Subscription) IsWildcard() bool {
	return s.orderID == nil
}

// Matches reports whether an event about orderID of tenantID must be pushed to this subscription.
func (s Subscription) Matches(tenantID string, orderID kernel.UUID) bool {
	if s.tenantID != tenantID {
		return false
	}
	return s.orderID == nil || s.orderID.IsEqual(orderID)
}
