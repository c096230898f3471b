package order

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

// HistoryEntry records one accepted transition: who moved the order, into which status, and when.
type HistoryEntry struct {
	actor  kernel.Actor
	status Status
	at     time.Time
}

// NewHistoryEntry is used when restoring persisted history. Live entries are
// produced by Order.ApplyTransition.
func NewHistoryEntry(actor kernel.Actor, status Status, at time.Time) (HistoryEntry, error) {
	if err := actor.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if err := status.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	return HistoryEntry{actor: actor, status: status, at: at}, nil
}

func (h HistoryEntry) Actor() kernel.Actor { return h.actor }
func (h HistoryEntry) Status() Status      { return h.status }

// At returns the transition time. It is the zero time when the persisted
// timestamp could not be parsed.
func (h HistoryEntry) At() time.Time { return h.at }
