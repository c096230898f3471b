// Package orderrepo provides the GORM implementation of the Indexed Order Store.
// Actor, item and history snapshots are stored as jsonb, and every access path
// is backed by a "C"-collated composite key column so range scans are byte ordered.
package orderrepo

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	TenantID        string                                `gorm:"primaryKey"`
	OrderID         uuid.UUID                             `gorm:"type:uuid;primaryKey"`
	ClientID        string                                `gorm:"not null"`
	Client          datatypes.JSONType[ActorDTO]          `gorm:"type:jsonb;not null"`
	Items           datatypes.JSONSlice[ItemDTO]          `gorm:"type:jsonb;not null"`
	Status          string                                `gorm:"not null"`
	CreatedAt       time.Time                             `gorm:"autoCreateTime:false;not null"`
	CookID          *string
	Cook            datatypes.JSONType[*ActorDTO]         `gorm:"type:jsonb"`
	DispatcherID    *string
	Dispatcher      datatypes.JSONType[*ActorDTO]         `gorm:"type:jsonb"`
	DriverID        *string
	Driver          datatypes.JSONType[*ActorDTO]         `gorm:"type:jsonb"`
	ExecutionHandle *string
	ResumeToken     *string
	History         datatypes.JSONSlice[HistoryEntryDTO] `gorm:"type:jsonb;not null"`
	CreatedKey      string                                `gorm:"not null"`
	ClientKey       string                                `gorm:"not null"`
	StatusKey       string                                `gorm:"not null"`
	CookKey         *string
	DispatcherKey   *string
	DriverKey       *string
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ActorDTO is the jsonb form of an actor snapshot.
type ActorDTO struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ItemDTO is the jsonb form of an order line.
type ItemDTO struct {
	TenantID  string `json:"tenant_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
	Quantity  int    `json:"quantity"`
}

// HistoryEntryDTO is the jsonb form of a history entry. Date is kept as text so a
// malformed value survives a round trip instead of failing the whole row.
type HistoryEntryDTO struct {
	User   ActorDTO `json:"user"`
	Status string   `json:"status"`
	Date   string   `json:"date"`
}

func actorFromDomain(a kernel.Actor) ActorDTO {
	return ActorDTO{
		TenantID: a.TenantID(),
		UserID:   a.UserID(),
		Email:    a.Email(),
		Username: a.Username(),
		Role:     a.Role().String(),
	}
}

func (d ActorDTO) toDomain() (kernel.Actor, error) {
	role, err := kernel.ParseRole(d.Role)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(d.TenantID, d.UserID, d.Email, d.Username, role)
}

func optionalActor(a *kernel.Actor) (*string, datatypes.JSONType[*ActorDTO]) {
	if a == nil {
		return nil, datatypes.NewJSONType[*ActorDTO](nil)
	}
	id := a.UserID()
	dto := actorFromDomain(*a)
	return &id, datatypes.NewJSONType(&dto)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// fromDomain converts an order aggregate to its database representation,
// including every derived composite key.
func fromDomain(o *order.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(o.Items()))
	for _, i := range o.Items() {
		p := i.Product()
		items = append(items, ItemDTO{
			TenantID:  p.TenantID(),
			ProductID: p.ProductID(),
			Name:      p.Name(),
			Price:     p.Price(),
			ImageURL:  p.ImageURL(),
			Quantity:  i.Quantity(),
		})
	}

	history := make([]HistoryEntryDTO, 0, len(o.History()))
	for _, h := range o.History() {
		date := ""
		if !h.At().IsZero() {
			date = order.FormatTimestamp(h.At())
		}
		history = append(history, HistoryEntryDTO{
			User:   actorFromDomain(h.Actor()),
			Status: h.Status().String(),
			Date:   date,
		})
	}

	dto := OrderDTO{
		TenantID:        o.TenantID(),
		OrderID:         o.ID().Bytes(),
		ClientID:        o.Client().UserID(),
		Client:          datatypes.NewJSONType(actorFromDomain(o.Client())),
		Items:           datatypes.NewJSONSlice(items),
		Status:          o.Status().String(),
		CreatedAt:       o.CreatedAt(),
		ExecutionHandle: optionalString(o.ExecutionHandle()),
		ResumeToken:     optionalString(o.ResumeToken()),
		History:         datatypes.NewJSONSlice(history),
		CreatedKey:      order.FormatTimestamp(o.CreatedAt()),
		ClientKey:       o.ClientKey(),
		StatusKey:       o.StatusKey(),
		CookKey:         optionalString(o.CookKey()),
		DispatcherKey:   optionalString(o.DispatcherKey()),
		DriverKey:       optionalString(o.DriverKey()),
	}
	dto.CookID, dto.Cook = optionalActor(o.Cook())
	dto.DispatcherID, dto.Dispatcher = optionalActor(o.Dispatcher())
	dto.DriverID, dto.Driver = optionalActor(o.Driver())

	return dto
}

// toDomain reconstructs the aggregate with RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	client, err := dto.Client.Data().toDomain()
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, i := range dto.Items {
		p, pErr := order.NewProduct(i.TenantID, i.ProductID, i.Name, i.Price, i.ImageURL)
		if pErr != nil {
			return nil, pErr
		}
		item, iErr := order.NewItem(p, i.Quantity)
		if iErr != nil {
			return nil, iErr
		}
		items = append(items, item)
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, h := range dto.History {
		user, uErr := h.User.toDomain()
		if uErr != nil {
			return nil, uErr
		}
		st, sErr := order.ParseStatus(h.Status)
		if sErr != nil {
			return nil, sErr
		}
		// An unparseable date restores as the zero time.
		at, _ := order.ParseTimestamp(h.Date)
		entry, hErr := order.NewHistoryEntry(user, st, at)
		if hErr != nil {
			return nil, hErr
		}
		history = append(history, entry)
	}

	cook, cookErr := restoreOptionalActor(dto.Cook)
	dispatcher, dispatcherErr := restoreOptionalActor(dto.Dispatcher)
	driver, driverErr := restoreOptionalActor(dto.Driver)
	if err = errors.Join(cookErr, dispatcherErr, driverErr); err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreParams{
		TenantID:        dto.TenantID,
		ID:              id,
		Client:          client,
		Items:           items,
		Status:          status,
		CreatedAt:       dto.CreatedAt,
		Cook:            cook,
		Dispatcher:      dispatcher,
		Driver:          driver,
		ExecutionHandle: derefString(dto.ExecutionHandle),
		ResumeToken:     derefString(dto.ResumeToken),
		History:         history,
	})
}

func restoreOptionalActor(j datatypes.JSONType[*ActorDTO]) (*kernel.Actor, error) {
	dto := j.Data()
	if dto == nil {
		return nil, nil
	}
	a, err := dto.toDomain()
	if err != nil {
		return nil, err
	}
	return &a, nil
}
