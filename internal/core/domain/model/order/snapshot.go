package order

import "orderflow/internal/core/domain/model/kernel"

// ActorSnapshot is the serialized form of a kernel.Actor.
type ActorSnapshot struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ProductSnapshot is the serialized form of a Product.
type ProductSnapshot struct {
	TenantID  string `json:"tenant_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
}

// ItemSnapshot is the serialized form of an Item.
type ItemSnapshot struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// HistorySnapshot is the serialized form of a HistoryEntry.
type HistorySnapshot struct {
	User   ActorSnapshot `json:"user"`
	Status string        `json:"status"`
	Date   string        `json:"date"`
}

// Snapshot is the full, immutable view of an order used as event payload,
// workflow input and query result.
type Snapshot struct {
	TenantID        string            `json:"tenant_id"`
	OrderID         string            `json:"order_id"`
	ClientID        string            `json:"client_id"`
	Client          ActorSnapshot     `json:"client"`
	Items           []ItemSnapshot    `json:"items"`
	Status          string            `json:"status"`
	CreatedAt       string            `json:"created_at"`
	CookID          string            `json:"cook_id,omitempty"`
	Cook            *ActorSnapshot    `json:"cook,omitempty"`
	DispatcherID    string            `json:"dispatcher_id,omitempty"`
	Dispatcher      *ActorSnapshot    `json:"dispatcher,omitempty"`
	DriverID        string            `json:"driver_id,omitempty"`
	Driver          *ActorSnapshot    `json:"driver,omitempty"`
	ExecutionHandle string            `json:"execution_handle,omitempty"`
	History         []HistorySnapshot `json:"history"`
}

// NewActorSnapshot serializes an actor.
func NewActorSnapshot(a kernel.Actor) ActorSnapshot {
	return ActorSnapshot{
		TenantID: a.TenantID(),
		UserID:   a.UserID(),
		Email:    a.Email(),
		Username: a.Username(),
		Role:     a.Role().String(),
	}
}

// Actor parses the snapshot back into a kernel.Actor.
func (s ActorSnapshot) Actor() (kernel.Actor, error) {
	role, err := kernel.ParseRole(s.Role)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(s.TenantID, s.UserID, s.Email, s.Username, role)
}

// Snapshot captures the current state of the order.
func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		TenantID:        o.tenantID,
		OrderID:         o.id.String(),
		ClientID:        o.client.UserID(),
		Client:          NewActorSnapshot(o.client),
		Items:           make([]ItemSnapshot, 0, len(o.items)),
		Status:          o.status.String(),
		CreatedAt:       FormatTimestamp(o.createdAt),
		ExecutionHandle: o.executionHandle,
		History:         make([]HistorySnapshot, 0, len(o.history)),
	}

	for _, item := range o.items {
		p := item.Product()
		s.Items = append(s.Items, ItemSnapshot{
			Product: ProductSnapshot{
				TenantID:  p.TenantID(),
				ProductID: p.ProductID(),
				Name:      p.Name(),
				Price:     p.Price(),
				ImageURL:  p.ImageURL(),
			},
			Quantity: item.Quantity(),
		})
	}

	s.CookID, s.Cook = assigneeSnapshot(o.cook)
	s.DispatcherID, s.Dispatcher = assigneeSnapshot(o.dispatcher)
	s.DriverID, s.Driver = assigneeSnapshot(o.driver)

	for _, h := range o.history {
		date := ""
		if !h.At().IsZero() {
			date = FormatTimestamp(h.At())
		}
		s.History = append(s.History, HistorySnapshot{
			User:   NewActorSnapshot(h.Actor()),
			Status: h.Status().String(),
			Date:   date,
		})
	}

	return s
}

func assigneeSnapshot(a *kernel.Actor) (string, *ActorSnapshot) {
	if a == nil {
		return "", nil
	}
	snap := NewActorSnapshot(*a)
	return a.UserID(), &snap
}
