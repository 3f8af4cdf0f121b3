package handler

import (
	"gavel/internal/identity/models"
)

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number,omitempty"`
	EmployeeID  string `json:"employee_id"`
	Department  string `json:"department,omitempty"`
	Active      bool   `json:"active"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName(),
		Role:        string(u.Role),
		PhoneNumber: u.PhoneNumber,
		EmployeeID:  u.EmployeeID,
		Department:  u.Department,
		Active:      u.Active,
	}
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

func toUserListResponse(users []models.User) UserListResponse {
	out := UserListResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, toUserResponse(u))
	}
	return out
}
