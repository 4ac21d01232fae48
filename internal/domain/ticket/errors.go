package ticket

import (
	"errors"
	"fmt"
)

var (
	// ErrTicketNotFound indicates the ticket doesn't exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrAlreadyClaimed indicates the claim predicate failed: the ticket
	// exists but is no longer in the New state.
	ErrAlreadyClaimed = errors.New("ticket already claimed")
	// ErrInvalidTransition indicates an invalid lifecycle transition.
	ErrInvalidTransition = errors.New("invalid ticket status transition")
	// ErrInvalidInput indicates invalid input for ticket operations.
	ErrInvalidInput = errors.New("invalid ticket input")
)

// ValidationError reports which submission field was missing or empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Is makes ValidationError match ErrInvalidInput in errors.Is chains.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
