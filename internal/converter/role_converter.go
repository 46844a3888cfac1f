package converter

import (
	"github.com/carewell-health/carewell/internal/delivery/dto"
	"github.com/carewell-health/carewell/internal/rbac"
)

// RoleToResponse converts a role to its display DTO.
func RoleToResponse(role rbac.Role) dto.RoleResponse {
	perms := rbac.PermissionsOf(role)
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}

	return dto.RoleResponse{
		Name:        string(role),
		Label:       rbac.Labels[role],
		Description: rbac.Descriptions[role],
		Dashboard:   rbac.DashboardFor(role),
		Permissions: names,
	}
}

// RolesToResponses converts a slice of roles to display DTOs.
func RolesToResponses(roles []rbac.Role) []dto.RoleResponse {
	responses := make([]dto.RoleResponse, len(roles))
	for i, role := range roles {
		responses[i] = RoleToResponse(role)
	}
	return responses
}
