package rbac

import "strings"

// PathClass is the gate's classification of a request path.
type PathClass int

const (
	// PathPublic requires no session (marketing pages, booking flow).
	PathPublic PathClass = iota
	// PathAuth is meant for anonymous users only (login, register, ...).
	PathAuth
	// PathProtected is everything else, primarily role dashboards.
	PathProtected
)

// RouteRule maps a path prefix to the roles allowed to reach it.
type RouteRule struct {
	Prefix       string
	AllowedRoles []Role
}

// routeRules is scanned in order; the first matching prefix wins. Paths
// matching no rule are allowed: most of the site is public marketing
// pages, so the default is deliberately fail-open. Any new protected
// prefix MUST be added here or it ships world-readable.
var routeRules = []RouteRule{
	{Prefix: "/admin", AllowedRoles: []Role{RoleSuperAdmin, RoleAdmin}},
	{Prefix: "/location-admin", AllowedRoles: []Role{RoleSuperAdmin, RoleAdmin, RoleLocationAdmin}},
	{Prefix: "/doctor", AllowedRoles: []Role{RoleSuperAdmin, RoleAdmin, RoleLocationAdmin, RoleDoctor}},
	{Prefix: "/patient", AllowedRoles: []Role{RoleSuperAdmin, RoleAdmin, RoleLocationAdmin, RoleDoctor, RolePatient}},
}

// publicRoutes need no session; sub-paths included.
var publicRoutes = []string{
	"/",
	"/about",
	"/contact",
	"/services",
	"/locations",
	"/booking",
	"/coming-soon",
	"/maintenance",
}

// authRoutes are the anonymous-only identity screens.
var authRoutes = []string{
	"/login",
	"/register",
	"/forgot-password",
	"/reset-password",
}

// skipPrefixes are excluded from gating entirely: static assets, the API
// surface and the identity provider's callback. These must pass before
// any session lookup so webhook and callback traffic is never blocked.
var skipPrefixes = []string{
	"/api",
	"/auth/callback",
	"/static",
	"/assets",
	"/favicon.ico",
}

// matchesPrefix reports whether path equals prefix or starts with
// prefix + "/".
func matchesPrefix(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// CanAccessRoute reports whether the role may reach the given path. The
// rule table is scanned in order and the first matching prefix decides;
// paths with no matching rule are allowed (fail-open).
func CanAccessRoute(r Role, path string) bool {
	for _, rule := range routeRules {
		if !matchesPrefix(path, rule.Prefix) {
			continue
		}
		for _, allowed := range rule.AllowedRoles {
			if allowed == r {
				return true
			}
		}
		return false
	}
	return true
}

// Classify buckets a path as public, auth-only or protected.
func Classify(path string) PathClass {
	for _, p := range authRoutes {
		if matchesPrefix(path, p) {
			return PathAuth
		}
	}
	for _, p := range publicRoutes {
		if matchesPrefix(path, p) {
			return PathPublic
		}
	}
	return PathProtected
}

// SkipGate reports whether the path bypasses the access gate entirely.
func SkipGate(path string) bool {
	for _, p := range skipPrefixes {
		if matchesPrefix(path, p) {
			return true
		}
	}
	return false
}
