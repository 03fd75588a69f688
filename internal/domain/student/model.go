package student

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyEmail   = errors.New("email cannot be empty")
	ErrInvalidEmail = errors.New("email must contain '@'")
	ErrEmptyName    = errors.New("first and last name cannot be empty")
)

// Student is a roster entry. Students are identified by school email and are
// registered into activities by teachers.
type Student struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Grade     string
	Phone     string
}

// Validate checks if the Student has valid data.
// PRE: Student struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Student) Validate() error {
	if strings.TrimSpace(s.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(s.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(s.FirstName) == "" || strings.TrimSpace(s.LastName) == "" {
		return ErrEmptyName
	}
	return nil
}

// FullName returns the display name for rosters.
// INVARIANT: Student fields are not mutated
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
