package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrItemsAreRequired is returned for an order without lines.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Order is the aggregate root of the lifecycle domain. It is created in WaitForCook
// and advanced one pipeline stage at a time by ApplyTransition.
//
// Order follows these invariants:
//   - tenant, order id, client, items and created_at never change after creation
//   - items is non-empty and every quantity is positive
//   - status only moves along the pipeline defined by Status
//   - cook, dispatcher and driver are each set once, on first entry into
//     Cooking, Dispatching and Delivering respectively
//   - history grows by exactly one entry per accepted transition, in acceptance order
//
// Composite sort keys are derived from the fields above and are therefore always in
// lockstep with them.
type Order struct {
	// tenantID is the isolation boundary the order belongs to
	tenantID string

	// id is unique within the tenant
	id kernel.UUID

	// client is the ordering user frozen at creation time
	client kernel.Actor

	// items is the ordered list of lines
	items []Item

	// status is the current pipeline position
	status Status

	// createdAt is truncated to microseconds so it round-trips through storage
	createdAt time.Time

	// cook, dispatcher and driver are nil until assigned
	cook       *kernel.Actor
	dispatcher *kernel.Actor
	driver     *kernel.Actor

	// executionHandle references the workflow execution started for the order
	executionHandle string

	// resumeToken lets the workflow engine resume a parked step
	resumeToken string

	// history holds one entry per accepted transition
	history []HistoryEntry

	// isConstructed ensures the order was created via NewOrder or RestoreOrder
	isConstructed bool
}

// NewOrder creates an order in WaitForCook with empty history.
//
// Parameters:
//   - id: identifier of the new order
//   - client: the authenticated user placing the order, its tenant becomes the order's tenant
//   - items: at least one line
//   - createdAt: creation time, stored in UTC with microsecond precision
//
// Example:
//
//	client, _ := kernel.NewActor("tenant-1", "user-1", "a@b.c", "alice", kernel.RoleClient)
//	product, _ := order.NewProduct("tenant-1", "p-1", "Ramen", "9.50", "")
//	item, _ := order.NewItem(product, 2)
//	o, err := order.NewOrder(kernel.NewUUID(), client, []order.Item{item}, time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id kernel.UUID, client kernel.Actor, items []Item, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        WaitForCook,
		createdAt:     createdAt.UTC().Truncate(time.Microsecond),
		history:       make([]HistoryEntry, 0),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setClient(client),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreParams carries persisted order state back into the domain.
type RestoreParams struct {
	TenantID        string
	ID              kernel.UUID
	Client          kernel.Actor
	Items           []Item
	Status          Status
	CreatedAt       time.Time
	Cook            *kernel.Actor
	Dispatcher      *kernel.Actor
	Driver          *kernel.Actor
	ExecutionHandle string
	ResumeToken     string
	History         []HistoryEntry
}

// RestoreOrder rebuilds an order loaded from persistence. It re-checks the
// structural invariants but trusts the stored status and assignments.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		tenantID:        p.TenantID,
		createdAt:       p.CreatedAt.UTC(),
		cook:            p.Cook,
		dispatcher:      p.Dispatcher,
		driver:          p.Driver,
		executionHandle: p.ExecutionHandle,
		resumeToken:     p.ResumeToken,
		history:         append(make([]HistoryEntry, 0, len(p.History)), p.History...),
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setClient(p.Client),
		o.setItems(p.Items),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if o.tenantID != p.Client.TenantID() {
		return nil, errs.NewValueIsInvalidErrorWithCause("tenant_id",
			fmt.Errorf("order tenant %q differs from client tenant %q", p.TenantID, p.Client.TenantID()))
	}
	o.status = p.Status

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

func (o *Order) TenantID() string        { return o.tenantID }
func (o *Order) ID() kernel.UUID         { return o.id }
func (o *Order) Client() kernel.Actor    { return o.client }
func (o *Order) Status() Status          { return o.status }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }
func (o *Order) ExecutionHandle() string { return o.executionHandle }
func (o *Order) ResumeToken() string     { return o.resumeToken }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// History returns a copy of the accepted transitions, oldest first.
func (o *Order) History() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history...)
}

// Cook returns the assigned cook or nil.
func (o *Order) Cook() *kernel.Actor { return o.cook }

// Dispatcher returns the assigned dispatcher or nil.
func (o *Order) Dispatcher() *kernel.Actor { return o.dispatcher }

// Driver returns the assigned driver or nil.
func (o *Order) Driver() *kernel.Actor { return o.driver }

// ClientKey returns "<client_id>#<created_at>".
func (o *Order) ClientKey() string {
	return SortKey(o.client.UserID(), o.createdAt)
}

// StatusKey returns "<status>#<created_at>".
func (o *Order) StatusKey() string {
	return SortKey(o.status.String(), o.createdAt)
}

// CookKey returns the cook composite key, or "" while no cook is assigned.
func (o *Order) CookKey() string { return o.assigneeKey(o.cook) }

// DispatcherKey returns the dispatcher composite key, or "" while unassigned.
func (o *Order) DispatcherKey() string { return o.assigneeKey(o.dispatcher) }

// DriverKey returns the driver composite key, or "" while unassigned.
func (o *Order) DriverKey() string { return o.assigneeKey(o.driver) }

func (o *Order) assigneeKey(a *kernel.Actor) string {
	if a == nil {
		return ""
	}
	return SortKey(a.UserID(), o.createdAt)
}

// ApplyTransition applies an approved transition to the aggregate.
//
// This method enforces the following business rules:
//   - The order must still be in tr.From(), otherwise a ConflictError naming both
//     statuses is returned and the order is left unchanged
//   - Entering Cooking, Dispatching or Delivering assigns the actor when the
//     corresponding slot is still empty
//   - Exactly one HistoryEntry is appended
//
// Example:
//
//	tr, _ := order.NewTransition(order.WaitForCook, order.Cooking, cook, time.Now())
//	if err := o.ApplyTransition(tr); err != nil {
//	    // Order moved on in the meantime
//	}
func (o *Order) ApplyTransition(tr Transition) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	if o.status != tr.From() {
		return errs.NewConflictError("status", tr.From(), o.status)
	}

	actor := tr.Actor()
	if tr.To().Assigns() {
		switch tr.To() { //nolint:exhaustive // only assigning statuses
		case Cooking:
			o.cook = assignOnce(o.cook, actor)
		case Dispatching:
			o.dispatcher = assignOnce(o.dispatcher, actor)
		case Delivering:
			o.driver = assignOnce(o.driver, actor)
		}
	}

	o.status = tr.To()
	o.history = append(o.history, HistoryEntry{actor: actor, status: tr.To(), at: tr.At()})
	return nil
}

// AttachExecution records the workflow execution handle.
func (o *Order) AttachExecution(handle string) error {
	if handle == "" {
		return errs.NewValueIsRequiredError("execution handle")
	}
	o.executionHandle = handle
	return nil
}

// SetResumeToken stores or overwrites the token used to resume a parked workflow step.
func (o *Order) SetResumeToken(token string) error {
	if token == "" {
		return errs.NewValueIsRequiredError("resume token")
	}
	o.resumeToken = token
	return nil
}

func assignOnce(current *kernel.Actor, actor kernel.Actor) *kernel.Actor {
	if current != nil {
		return current
	}
	return &actor
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setClient(client kernel.Actor) error {
	if err := client.Validate(); err != nil {
		return err
	}
	o.client = client
	if o.tenantID == "" {
		o.tenantID = client.TenantID()
	}
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	o.items = append(make([]Item, 0, len(items)), items...)
	return nil
}
