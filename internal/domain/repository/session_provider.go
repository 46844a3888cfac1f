package repository

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/carewell-health/carewell/internal/rbac"
)

// Session is the authenticated principal attached to a request, as
// reported by the hosted identity provider. Role carries the raw
// metadata value and may be empty or garbage; callers normalize it with
// rbac.Parse and fall back to the lowest-privilege role.
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// ParsedRole normalizes the raw role metadata, defaulting to patient
// when the value is absent or names no defined role.
func (s *Session) ParsedRole() rbac.Role {
	if s == nil {
		return rbac.RolePatient
	}
	role, ok := rbac.Parse(s.Role)
	if !ok {
		return rbac.RolePatient
	}
	return role
}

// SessionProvider resolves the current session from provider-managed
// cookies on the request. It returns (nil, nil) when no session exists
// and an error when the provider is unreachable; the access gate treats
// both as anonymous.
type SessionProvider interface {
	CurrentSession(ctx context.Context, r *http.Request) (*Session, error)
}

// DirectoryUser is a user record held by the identity provider,
// including its role metadata.
type DirectoryUser struct {
	ID       uuid.UUID
	Email    string
	FullName string
	Role     string
}

// UserDirectory exposes the provider's admin user API: listing records
// and rewriting role metadata. Implementations authenticate with the
// provider's service-role key.
type UserDirectory interface {
	ListUsers(ctx context.Context, page, limit int) ([]DirectoryUser, int64, error)
	GetUser(ctx context.Context, id uuid.UUID) (*DirectoryUser, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role rbac.Role) error
}
