// Package guard decides which order status transitions a mutation may
// attempt. It is a pure table lookup: no side effects, no network. The guard
// is a UX gate only; the data service runs its own authoritative check and
// its rejection always wins.
package guard

import "merchops/internal/domain"

// forward encodes the single-step progression of the lifecycle. Skipping
// two or more stages is never legal, whatever flags the caller holds.
var forward = map[domain.Status]domain.Status{
	domain.StatusPending:           domain.StatusConfirmed,
	domain.StatusConfirmed:         domain.StatusPreparing,
	domain.StatusPreparing:         domain.StatusReady,
	domain.StatusReady:             domain.StatusOutForFulfillment,
	domain.StatusOutForFulfillment: domain.StatusCompleted,
}

// Guard evaluates transition legality. The zero value forbids cancelling an
// order that is already out for fulfillment; merchants who accept returns at
// the door can relax that with CancelAfterDispatch.
type Guard struct {
	// CancelAfterDispatch permits OUT_FOR_FULFILLMENT -> CANCELLED.
	CancelAfterDispatch bool
}

// Allowed reports whether from -> to may be dispatched. directCompletion
// models the fulfillment mode: a pickup order may go READY -> COMPLETED
// without an explicit dispatch step, a delivery order may not.
func (g Guard) Allowed(from, to domain.Status, directCompletion bool) bool {
	if from == to {
		return false
	}
	if from.Terminal() {
		return false
	}
	if to == domain.StatusCancelled {
		if from == domain.StatusOutForFulfillment {
			return g.CancelAfterDispatch
		}
		return true
	}
	if from == domain.StatusReady && to == domain.StatusCompleted {
		return directCompletion
	}
	return forward[from] == to
}
