package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/campus-tutoring/helpqueue/internal/domain/ticket"
	"github.com/campus-tutoring/helpqueue/internal/repository"
)

// TicketRepository implements ticket.Repository for SQLite
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create inserts a new ticket
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	query := `
		INSERT INTO tickets (
			id, student_name, class_name, problem, steps_taken,
			status, claimed_by, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.StudentName,
		t.ClassName,
		t.Problem,
		t.StepsTaken,
		t.Status,
		t.ClaimedBy,
		t.Notes,
		t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// Get retrieves a ticket by ID
func (r *TicketRepository) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	query := `
		SELECT id, student_name, class_name, problem, steps_taken,
		       status, claimed_by, notes, created_at
		FROM tickets
		WHERE id = ?
	`

	var t ticket.Ticket
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.StudentName,
		&t.ClassName,
		&t.Problem,
		&t.StepsTaken,
		&t.Status,
		&t.ClaimedBy,
		&t.Notes,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return &t, nil
}

// List returns all tickets ordered by creation time, newest first
func (r *TicketRepository) List(ctx context.Context) ([]ticket.Ticket, error) {
	query := `
		SELECT id, student_name, class_name, problem, steps_taken,
		       status, claimed_by, notes, created_at
		FROM tickets
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []ticket.Ticket
	for rows.Next() {
		var t ticket.Ticket
		err := rows.Scan(
			&t.ID,
			&t.StudentName,
			&t.ClassName,
			&t.Problem,
			&t.StepsTaken,
			&t.Status,
			&t.ClaimedBy,
			&t.Notes,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket rows: %w", err)
	}

	return tickets, nil
}

// Claim atomically takes ownership of a New ticket. The status predicate is
// part of the UPDATE itself, so concurrent claimants race on a single
// statement and at most one of them can match the row.
func (r *TicketRepository) Claim(ctx context.Context, id, claimedBy string) error {
	query := `
		UPDATE tickets
		SET status = ?, claimed_by = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		ticket.StatusInProgress,
		claimedBy,
		id,
		ticket.StatusNew,
	)
	if err != nil {
		return fmt.Errorf("failed to claim ticket: %w", err)
	}

	return r.checkMatched(ctx, result, id)
}

// Transition moves a ticket from one status to another, conditional on the
// current status matching the expected one.
func (r *TicketRepository) Transition(ctx context.Context, id string, from, to ticket.Status) error {
	query := `
		UPDATE tickets
		SET status = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to transition ticket: %w", err)
	}

	return r.checkMatched(ctx, result, id)
}

// UpdateNotes replaces the tutor notes on a ticket
func (r *TicketRepository) UpdateNotes(ctx context.Context, id, notes string) error {
	query := `UPDATE tickets SET notes = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ExpireOlderThan moves all New tickets created before the cutoff to the
// given status and returns how many were affected.
func (r *TicketRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time, to ticket.Status) (int64, error) {
	query := `
		UPDATE tickets
		SET status = ?
		WHERE status = ? AND created_at < ?
	`

	result, err := r.db.ExecContext(ctx, query, to, ticket.StatusNew, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to expire tickets: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// checkMatched distinguishes a missing row from a failed predicate after a
// conditional update that matched nothing.
func (r *TicketRepository) checkMatched(ctx context.Context, result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM tickets WHERE id = ?)`
	if err := r.db.QueryRowContext(ctx, checkQuery, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check ticket existence: %w", err)
	}

	if !exists {
		return repository.ErrNotFound
	}

	// Ticket exists but its status didn't match the predicate
	return repository.ErrConflict
}
