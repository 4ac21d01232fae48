package ticket

import "time"

// Status represents the lifecycle state of a ticket
type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In Progress"
	StatusComplete   Status = "Complete"
	StatusClosed     Status = "Closed"
	StatusMissed     Status = "Missed"
)

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusComplete, StatusClosed, StatusMissed:
		return true
	}
	return false
}

// Ticket represents a student help request and its lifecycle state.
// The submission fields are immutable after creation; status, claimedBy
// and notes are mutated only through the Service.
type Ticket struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	ClassName   string    `json:"className"`
	Problem     string    `json:"problem"`
	StepsTaken  string    `json:"stepsTaken"`
	Status      Status    `json:"status"`
	ClaimedBy   *string   `json:"claimedBy"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
}
