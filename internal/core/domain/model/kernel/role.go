package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Role is the pipeline function an authenticated user performs.
type Role int

const (
	// RoleUnknown is the zero value and is never valid.
	RoleUnknown Role = iota
	RoleClient
	RoleCook
	RoleDispatcher
	RoleDriver
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleClient:     "client",
		RoleCook:       "cook",
		RoleDispatcher: "dispatcher",
		RoleDriver:     "driver",
		RoleAdmin:      "admin",
	}
}

// ParseRole maps the gateway's role name onto a Role.
func ParseRole(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

// Validate rejects RoleUnknown and out-of-range values.
func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}
