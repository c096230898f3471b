package kernel

import (
	"errors"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is a frozen snapshot of an authenticated user as supplied by the request
// gateway. Orders keep Actor copies for the client, for every assignee and for every
// history entry, so later profile changes never rewrite what happened.
type Actor struct {
	tenantID string
	userID   string
	email    string
	username string
	role     Role

	guard guard.ConstructorGuard
}

// NewActor validates and freezes a user identity. Tenant id, user id and role are
// mandatory, email and username are carried as given.
func NewActor(tenantID, userID, email, username string, role Role) (Actor, error) {
	var errList []error
	if tenantID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("tenant_id"))
	}
	if userID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("user_id"))
	}
	if err := role.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return Actor{}, err
	}

	return Actor{
		tenantID: tenantID,
		userID:   userID,
		email:    email,
		username: username,
		role:     role,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) TenantID() string {
	return a.tenantID
}

func (a Actor) UserID() string {
	return a.userID
}

func (a Actor) Email() string {
	return a.email
}

func (a Actor) Username() string {
	return a.username
}

func (a Actor) Role() Role {
	return a.role
}

// Is reports whether both snapshots describe the same user of the same tenant.
func (a Actor) Is(other Actor) bool {
	return a.tenantID == other.tenantID && a.userID == other.userID
}
