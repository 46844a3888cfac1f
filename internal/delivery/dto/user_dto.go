package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// Response DTOs

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      string    `json:"role"`
	RoleLabel string    `json:"role_label"`
	Dashboard string    `json:"dashboard"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}
