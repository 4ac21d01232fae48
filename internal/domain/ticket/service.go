package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campus-tutoring/helpqueue/internal/domain/identity"
	"github.com/campus-tutoring/helpqueue/internal/repository"
)

// Service owns the ticket state machine. All status mutations go through the
// repository's conditional writes so that at most one tutor can ever hold a
// ticket.
type Service struct {
	tickets Repository
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new ticket service.
func NewService(tickets Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tickets: tickets,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateRequest describes a student ticket submission.
type CreateRequest struct {
	StudentName string
	ClassName   string
	Problem     string
	StepsTaken  string
}

// Create validates a submission and persists a new ticket in the New state.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Ticket, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	t := &Ticket{
		ID:          uuid.NewString(),
		StudentName: req.StudentName,
		ClassName:   req.ClassName,
		Problem:     req.Problem,
		StepsTaken:  req.StepsTaken,
		Status:      StatusNew,
		CreatedAt:   s.now(),
	}

	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	s.logger.Info("ticket created", "ticket_id", t.ID, "class", t.ClassName)
	return t, nil
}

// Claim atomically takes ownership of a New ticket for the given identity.
// Under concurrent claims exactly one caller succeeds; the others get
// ErrAlreadyClaimed. The store performs the status check and the write as one
// operation, so there is no window where two tutors both observe New.
func (s *Service) Claim(ctx context.Context, id string, ident identity.Identity) (*Ticket, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}

	if err := s.tickets.Claim(ctx, id, ident.DisplayName); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTicketNotFound
		case errors.Is(err, repository.ErrConflict):
			s.logger.Info("claim lost", "ticket_id", id, "tutor", ident.DisplayName)
			return nil, ErrAlreadyClaimed
		}
		return nil, fmt.Errorf("claiming ticket: %w", err)
	}

	s.logger.Info("ticket claimed", "ticket_id", id, "tutor", ident.DisplayName)
	return s.Get(ctx, id)
}

// Complete marks an In Progress ticket as Complete.
func (s *Service) Complete(ctx context.Context, id string) (*Ticket, error) {
	return s.transition(ctx, id, StatusInProgress, StatusComplete)
}

// CloseOut marks an In Progress ticket as Closed.
func (s *Service) CloseOut(ctx context.Context, id string) (*Ticket, error) {
	return s.transition(ctx, id, StatusInProgress, StatusClosed)
}

func (s *Service) transition(ctx context.Context, id string, from, to Status) (*Ticket, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if err := ValidateTransition(from, to); err != nil {
		return nil, err
	}

	if err := s.tickets.Transition(ctx, id, from, to); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTicketNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("transitioning ticket: %w", err)
	}

	s.logger.Info("ticket transitioned", "ticket_id", id, "to", to)
	return s.Get(ctx, id)
}

// UpdateNotes replaces the tutor notes on a ticket. Any authenticated tutor
// may edit notes, matching the source system's behavior.
func (s *Service) UpdateNotes(ctx context.Context, id, notes string) (*Ticket, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}

	if err := s.tickets.UpdateNotes(ctx, id, notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("updating notes: %w", err)
	}
	return s.Get(ctx, id)
}

// Get returns a ticket by ID.
func (s *Service) Get(ctx context.Context, id string) (*Ticket, error) {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	return t, nil
}

// List returns all tickets, most recently created first.
func (s *Service) List(ctx context.Context) ([]Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	return tickets, nil
}

// ExpireStale moves New tickets older than the given age to Missed and
// returns how many were expired.
func (s *Service) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, ErrInvalidInput
	}

	cutoff := s.now().Add(-olderThan)
	n, err := s.tickets.ExpireOlderThan(ctx, cutoff, StatusMissed)
	if err != nil {
		return 0, fmt.Errorf("expiring tickets: %w", err)
	}
	if n > 0 {
		s.logger.Info("expired stale tickets", "count", n)
	}
	return n, nil
}
