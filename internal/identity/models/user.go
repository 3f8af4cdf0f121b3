// Package models defines the identity aggregate: users and their roles.
package models

import (
	"strings"
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// Role determines which dashboard a user sees and which operations they may
// perform.
type Role string

const (
	RoleJudge         Role = "judge"
	RoleClerk         Role = "clerk"
	RolePrisonOfficer Role = "prison_officer"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(strings.ToLower(s)))
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role must be one of judge, clerk, prison_officer")
	}
	return r, nil
}

// IsValid checks the role against the supported set.
func (r Role) IsValid() bool {
	switch r {
	case RoleJudge, RoleClerk, RolePrisonOfficer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// User is a staff member of the court or prison system.
//
// Invariants:
//   - Username, EmployeeID are non-empty and unique across users
//   - Role is one of the three supported roles
//   - PasswordHash is a bcrypt hash, never the plaintext
//   - Inactive users cannot authenticate
type User struct {
	ID           id.UserID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	EmployeeID   string    `json:"employee_id"`
	Department   string    `json:"department,omitempty"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NewUser validates and constructs a user record.
func NewUser(userID id.UserID, username, email, firstName, lastName, employeeID string, role Role, passwordHash string, now time.Time) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "username is required")
	}
	if strings.TrimSpace(employeeID) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "employee id is required")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "role must be one of judge, clerk, prison_officer")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "password hash is required")
	}
	return &User{
		ID:           userID,
		Username:     username,
		Email:        strings.TrimSpace(email),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Role:         role,
		EmployeeID:   strings.TrimSpace(employeeID),
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
