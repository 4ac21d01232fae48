package identity

import "time"

// Role represents the privilege level of a user account
type Role string

const (
	RoleTutor Role = "tutor"
	RoleAdmin Role = "admin"
)

// User is a stored credential record. PasswordHash is a bcrypt hash and is
// never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the resolved, trusted principal derived from a verified
// credential. It is re-resolved per request and never persisted.
type Identity struct {
	UserID      string
	DisplayName string
	Role        Role
}
