package rbac

// Role is one of the fixed authorization classes a user can hold.
// Every user has exactly one role at all times.
type Role string

const (
	RolePatient       Role = "patient"
	RoleDoctor        Role = "doctor"
	RoleLocationAdmin Role = "location_admin"
	RoleAdmin         Role = "admin"
	RoleSuperAdmin    Role = "super_admin"
)

// Hierarchy lists every role ordered from least to most privileged.
// The order is used only for "is at least as privileged as" comparisons;
// permissions come from the explicit tables in permission.go.
var Hierarchy = []Role{
	RolePatient,
	RoleDoctor,
	RoleLocationAdmin,
	RoleAdmin,
	RoleSuperAdmin,
}

var roleLevels = func() map[Role]int {
	levels := make(map[Role]int, len(Hierarchy))
	for i, r := range Hierarchy {
		levels[r] = i
	}
	return levels
}()

// Labels maps roles to their display names. Consumed by UI components only.
var Labels = map[Role]string{
	RolePatient:       "Patient",
	RoleDoctor:        "Doctor",
	RoleLocationAdmin: "Location Administrator",
	RoleAdmin:         "Administrator",
	RoleSuperAdmin:    "Super Administrator",
}

// Descriptions maps roles to short display descriptions. UI only.
var Descriptions = map[Role]string{
	RolePatient:       "Book appointments and manage personal health records",
	RoleDoctor:        "Manage schedules and view assigned patient appointments",
	RoleLocationAdmin: "Manage doctors and appointments for a single location",
	RoleAdmin:         "Manage users, doctors and every location",
	RoleSuperAdmin:    "Full access to the entire platform",
}

// Dashboards maps each role to its canonical landing path after login.
var Dashboards = map[Role]string{
	RolePatient:       "/patient",
	RoleDoctor:        "/doctor",
	RoleLocationAdmin: "/location-admin",
	RoleAdmin:         "/admin",
	RoleSuperAdmin:    "/admin",
}

// Parse returns the Role for a raw metadata value. The boolean is false
// when the value names no defined role; callers are expected to fall back
// to RolePatient in that case.
func Parse(value string) (Role, bool) {
	r := Role(value)
	_, ok := roleLevels[r]
	return r, ok
}

// Valid reports whether r is one of the defined roles.
func Valid(r Role) bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the position of r in the hierarchy. Unknown roles map to
// the lowest level.
func Level(r Role) int {
	return roleLevels[r]
}

// IsAtLeast reports whether r is at least as privileged as required.
func IsAtLeast(r, required Role) bool {
	return Level(r) >= Level(required)
}

// DashboardFor returns the landing path for a role. Unknown roles land on
// the patient dashboard, the lowest-privilege area.
func DashboardFor(r Role) string {
	if path, ok := Dashboards[r]; ok {
		return path
	}
	return Dashboards[RolePatient]
}
