package middleware

import (
	"net/http"

	"github.com/carewell-health/carewell/internal/rbac"
	"github.com/carewell-health/carewell/pkg/response"
)

// RequireRole creates a middleware that checks if the caller holds any of
// the allowed roles. It must run after SessionMiddleware.Authenticate,
// which stores the session in the request context.
func RequireRole(allowedRoles ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSessionFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Session information not found")
				return
			}

			role := sess.ParsedRole()
			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission creates a middleware that checks if the caller's role
// holds any of the given permissions.
func RequirePermission(perms ...rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSessionFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Session information not found")
				return
			}

			if !rbac.HasAny(sess.ParsedRole(), perms...) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(rbac.RoleSuperAdmin, rbac.RoleAdmin)(next)
}

// RequireManageUsers guards the role-management endpoints.
func RequireManageUsers(next http.Handler) http.Handler {
	return RequirePermission(rbac.PermissionManageUsers)(next)
}
