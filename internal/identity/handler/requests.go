package handler

import (
	"strings"

	"gavel/internal/identity/models"
	dErrors "gavel/pkg/domain-errors"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number"`
	EmployeeID  string `json:"employee_id"`
	Department  string `json:"department"`

	role models.Role
}

func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)

	if r.Username == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	if len(r.Password) < 8 {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if r.FirstName == "" || r.LastName == "" {
		return dErrors.New(dErrors.CodeValidation, "first and last name are required")
	}
	if r.EmployeeID == "" {
		return dErrors.New(dErrors.CodeValidation, "employee id is required")
	}
	role, err := models.ParseRole(r.Role)
	if err != nil {
		return err
	}
	r.role = role
	return nil
}

// User builds the account to create from the validated request.
func (r *RegisterRequest) User() models.User {
	return models.User{
		Username:    r.Username,
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Role:        r.role,
		PhoneNumber: r.PhoneNumber,
		EmployeeID:  r.EmployeeID,
		Department:  r.Department,
	}
}

type UpdateProfileRequest struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Department  string `json:"department"`
}

func (r *UpdateProfileRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" && r.FirstName == "" && r.LastName == "" && r.PhoneNumber == "" && r.Department == "" {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}
