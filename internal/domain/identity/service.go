package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-tutoring/helpqueue/internal/repository"
)

// Service verifies credentials and resolves trusted identities.
type Service struct {
	users  Repository
	codec  *TokenCodec
	logger *slog.Logger
}

// NewService creates a new identity service.
func NewService(users Repository, codec *TokenCodec, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:  users,
		codec:  codec,
		logger: logger,
	}
}

// Login checks a username and password against the stored credential record
// and issues a signed, time-bounded token on success. Unknown usernames and
// wrong passwords return the same error.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidInput
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.codec.Sign(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	s.logger.Info("credential issued", "user_id", user.ID)
	return token, nil
}

// Verify validates a token and resolves the current identity behind it. The
// display name is looked up fresh because the account may have been renamed
// since the token was issued.
func (s *Service) Verify(ctx context.Context, token string) (Identity, error) {
	userID, role, err := s.codec.Verify(token)
	if err != nil {
		return Identity{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Identity{}, ErrIdentityNotFound
		}
		return Identity{}, fmt.Errorf("resolving identity: %w", err)
	}

	return Identity{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Role:        role,
	}, nil
}

// Register creates a user account with a bcrypt password hash. Used by the
// seed tool and tests; there is no self-service signup.
func (s *Service) Register(ctx context.Context, username, password, displayName string, role Role) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "username", username)
	return user, nil
}
