package order

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrTransitionIsNotConstructed = errors.New("Transition must be created via NewTransition constructor")

// Transition is an approved status change. It carries everything the store needs to
// apply the mutation atomically: the expected current status, the target, the actor
// and the acceptance time.
type Transition struct {
	from  Status
	to    Status
	actor kernel.Actor
	at    time.Time

	guard guard.ConstructorGuard
}

// NewTransition builds a transition along a pipeline edge. It does not check roles,
// that is the transition engine's job.
func NewTransition(from, to Status, actor kernel.Actor, at time.Time) (Transition, error) {
	pred, ok := to.Predecessor()
	if !ok {
		return Transition{}, errs.NewInvalidTransitionError(to)
	}
	if pred != from {
		return Transition{}, errs.NewConflictError("status", pred, from)
	}
	if err := actor.Validate(); err != nil {
		return Transition{}, err
	}

	return Transition{
		from:  from,
		to:    to,
		actor: actor,
		at:    at.UTC().Truncate(time.Microsecond),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (t Transition) Validate() error {
	return t.guard.Validate(ErrTransitionIsNotConstructed)
}

// From is the status the order must still hold for the transition to apply.
func (t Transition) From() Status        { return t.from }
func (t Transition) To() Status          { return t.to }
func (t Transition) Actor() kernel.Actor { return t.actor }
func (t Transition) At() time.Time       { return t.at }
