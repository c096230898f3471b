package order

import (
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Status is the position of an order in the kitchen, dispatch and delivery pipeline.
//
// Pipeline:
//
//	WaitForCook ──> Cooking ──> WaitForDispatcher ──> Dispatching ──> WaitForDeliverer ──> Delivering ──> Complete
//
// Every status except WaitForCook has exactly one predecessor. There is no way back
// and no way to skip a stage.
type Status int

const (
	// Unknown (0) catches uninitialized values.
	Unknown Status = iota

	// WaitForCook is the initial status of a freshly created order.
	WaitForCook

	// Cooking is entered by the cook who picks the order up. The cook is assigned here.
	Cooking

	// WaitForDispatcher is set by the cook once the food is ready.
	WaitForDispatcher

	// Dispatching is entered by the dispatcher who takes the order. The dispatcher is assigned here.
	Dispatching

	// WaitForDeliverer is set by the dispatcher once the order is packed.
	WaitForDeliverer

	// Delivering is entered by the driver who takes the order. The driver is assigned here.
	Delivering

	// Complete is terminal.
	Complete
)

// Pipeline lists every valid status in pipeline order.
func Pipeline() []Status {
	return []Status{WaitForCook, Cooking, WaitForDispatcher, Dispatching, WaitForDeliverer, Delivering, Complete}
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		WaitForCook:       "wait_for_cook",
		Cooking:           "cooking",
		WaitForDispatcher: "wait_for_dispatcher",
		Dispatching:       "dispatching",
		WaitForDeliverer:  "wait_for_deliverer",
		Delivering:        "delivering",
		Complete:          "complete",
	}
}

// transitionRule is one row of the transition table: the only status a target can be
// reached from, the role allowed to move there, and whether entering it assigns the actor.
type transitionRule struct {
	predecessor Status
	role        kernel.Role
	assigns     bool
}

func getTransitionRules() map[Status]transitionRule {
	//nolint:exhaustive // WaitForCook and Unknown have no predecessor
	return map[Status]transitionRule{
		Cooking:           {predecessor: WaitForCook, role: kernel.RoleCook, assigns: true},
		WaitForDispatcher: {predecessor: Cooking, role: kernel.RoleCook},
		Dispatching:       {predecessor: WaitForDispatcher, role: kernel.RoleDispatcher, assigns: true},
		WaitForDeliverer:  {predecessor: Dispatching, role: kernel.RoleDispatcher},
		Delivering:        {predecessor: WaitForDeliverer, role: kernel.RoleDriver, assigns: true},
		Complete:          {predecessor: Delivering, role: kernel.RoleDriver},
	}
}

// ParseStatus maps a status name such as "wait_for_cook" onto a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and values outside of the pipeline.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, or "unknown".
//
// Example:
//
//	fmt.Println(order.Cooking) // Output: "cooking"
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Predecessor returns the only status s can be entered from.
// The second result is false for WaitForCook and for invalid values.
func (s Status) Predecessor() (Status, bool) {
	rule, ok := getTransitionRules()[s]
	return rule.predecessor, ok
}

// RequiredRole returns the role that may move an order into s.
func (s Status) RequiredRole() (kernel.Role, bool) {
	rule, ok := getTransitionRules()[s]
	return rule.role, ok
}

// Assigns reports whether entering s assigns the acting user to the order.
// This holds for Cooking, Dispatching and Delivering.
func (s Status) Assigns() bool {
	return getTransitionRules()[s].assigns
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Complete
}
