package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/campus-tutoring/helpqueue/internal/domain/identity"
	"github.com/campus-tutoring/helpqueue/internal/domain/ticket"
)

// TicketRepository is a mock for ticket.Repository.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TicketRepository) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) List(ctx context.Context) ([]ticket.Ticket, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]ticket.Ticket); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Claim(ctx context.Context, id, claimedBy string) error {
	args := m.Called(ctx, id, claimedBy)
	return args.Error(0)
}

func (m *TicketRepository) Transition(ctx context.Context, id string, from, to ticket.Status) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *TicketRepository) UpdateNotes(ctx context.Context, id, notes string) error {
	args := m.Called(ctx, id, notes)
	return args.Error(0)
}

func (m *TicketRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time, to ticket.Status) (int64, error) {
	args := m.Called(ctx, cutoff, to)
	return args.Get(0).(int64), args.Error(1)
}

// UserRepository is a mock for identity.Repository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*identity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByID(ctx context.Context, id string) (*identity.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*identity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
