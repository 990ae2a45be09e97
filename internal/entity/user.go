package entity

import "time"

const (
	RoleReader    = "READER"
	RoleLibrarian = "LIBRARIAN"
	RoleAdmin     = "ADMIN"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"` // READER, LIBRARIAN, ADMIN
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the recognized role values.
func ValidRole(role string) bool {
	switch role {
	case RoleReader, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}
