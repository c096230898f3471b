package services

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// TransitionEngine decides legal status changes.
//
// The checks run in a fixed order so every rejected request maps to exactly one
// error kind:
//  1. the target must have a predecessor, otherwise InvalidTransitionError
//  2. the actor must hold the target's required role, otherwise ForbiddenError
//  3. the order must currently be in the predecessor, otherwise ConflictError
//     naming both statuses
//
// An approved decision is returned as an order.Transition. Applying it (status,
// assignment, history, composite keys) is left to the store's conditional update.
//
// Example usage:
//
//	engine := services.NewTransitionEngine()
//	tr, err := engine.Decide(o, cook, order.Cooking, time.Now())
//	if errors.Is(err, errs.ErrForbidden) {
//	    // actor may not perform this step
//	}
//	updated, err := repo.UpdateTransition(ctx, o.TenantID(), o.ID(), tr)
type TransitionEngine struct{}

// NewTransitionEngine creates a TransitionEngine.
func NewTransitionEngine() TransitionEngine {
	return TransitionEngine{}
}

// Decide validates moving o to target on behalf of actor at the given time.
//
// Parameters:
//   - o: the current state of the order (must be valid)
//   - actor: the authenticated user requesting the change
//   - target: the requested status
//   - at: acceptance time recorded in history
//
// Returns:
//   - order.Transition on approval
//   - InvalidTransitionError, ForbiddenError or ConflictError otherwise
func (TransitionEngine) Decide(o *order.Order, actor kernel.Actor, target order.Status, at time.Time) (order.Transition, error) {
	if err := o.Validate(); err != nil {
		return order.Transition{}, err
	}
	if err := actor.Validate(); err != nil {
		return order.Transition{}, err
	}

	predecessor, ok := target.Predecessor()
	if !ok {
		return order.Transition{}, errs.NewInvalidTransitionError(target)
	}

	if role, ok := target.RequiredRole(); ok && actor.Role() != role {
		return order.Transition{}, errs.NewForbiddenError(actor.UserID(), actor.Role(), role)
	}

	if o.Status() != predecessor {
		return order.Transition{}, errs.NewConflictError("status", predecessor, o.Status())
	}

	return order.NewTransition(predecessor, target, actor, at)
}
