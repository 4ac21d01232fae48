package ticket

import "strings"

// ValidateCreateInput validates fields required to create a ticket.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.StudentName) == "" {
		return &ValidationError{Field: "studentName"}
	}
	if strings.TrimSpace(req.ClassName) == "" {
		return &ValidationError{Field: "className"}
	}
	if strings.TrimSpace(req.Problem) == "" {
		return &ValidationError{Field: "problem"}
	}
	if strings.TrimSpace(req.StepsTaken) == "" {
		return &ValidationError{Field: "stepsTaken"}
	}
	return nil
}

// ValidateTransition validates a requested lifecycle transition.
func ValidateTransition(from, to Status) error {
	valid := false
	switch from {
	case StatusNew:
		if to == StatusInProgress || to == StatusMissed {
			valid = true
		}
	case StatusInProgress:
		if to == StatusComplete || to == StatusClosed {
			valid = true
		}
	}
	if !valid {
		return ErrInvalidTransition
	}
	return nil
}
