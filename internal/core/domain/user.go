package domain

import "time"

const (
	RoleRegular  = 0
	RoleElevated = 1

	ActiveDefault = 1

	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72
)

// User is the persisted account record. PasswordHash and Token never leave
// the service through a view.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Token        string
	Role         int
	Active       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsElevated reports whether the account holds the elevated role.
func (u *User) IsElevated() bool {
	return u.Role == RoleElevated
}
