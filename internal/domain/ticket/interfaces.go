package ticket

import (
	"context"
	"time"
)

// Repository provides persistence for tickets. Claim and Transition must be
// single atomic conditional writes: the status predicate belongs in the same
// store operation as the update, never in a separate read.
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, id string) (*Ticket, error)
	List(ctx context.Context) ([]Ticket, error)
	// Claim sets status to In Progress and claimedBy to the given name,
	// only if the current status is exactly New. Returns
	// repository.ErrNotFound if no ticket has the id, repository.ErrConflict
	// if the ticket exists but the predicate failed.
	Claim(ctx context.Context, id, claimedBy string) error
	// Transition moves a ticket from one status to another under the same
	// conditional-update discipline as Claim.
	Transition(ctx context.Context, id string, from, to Status) error
	UpdateNotes(ctx context.Context, id, notes string) error
	// ExpireOlderThan moves all New tickets created before the cutoff to
	// Missed and returns how many were affected.
	ExpireOlderThan(ctx context.Context, cutoff time.Time, to Status) (int64, error)
}
