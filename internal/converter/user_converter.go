package converter

import (
	"github.com/carewell-health/carewell/internal/delivery/dto"
	"github.com/carewell-health/carewell/internal/domain/repository"
	"github.com/carewell-health/carewell/internal/rbac"
)

// UserToResponse converts a directory user record to a UserResponse DTO.
// Unknown role metadata is surfaced as patient, matching how the access
// gate treats it.
func UserToResponse(user *repository.DirectoryUser) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role, ok := rbac.Parse(user.Role)
	if !ok {
		role = rbac.RolePatient
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(role),
		RoleLabel: rbac.Labels[role],
		Dashboard: rbac.DashboardFor(role),
	}
}

// UsersToResponses converts a slice of directory users to DTOs.
func UsersToResponses(users []repository.DirectoryUser) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}
