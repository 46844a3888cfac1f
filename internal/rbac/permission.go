package rbac

// Permission is a fine-grained capability tag a role may hold.
type Permission string

const (
	PermissionViewOwnAppointments      Permission = "view_own_appointments"
	PermissionBookAppointments         Permission = "book_appointments"
	PermissionManageOwnProfile         Permission = "manage_own_profile"
	PermissionManageOwnSchedule        Permission = "manage_own_schedule"
	PermissionViewPatientRecords       Permission = "view_patient_records"
	PermissionManageOwnLocation        Permission = "manage_own_location"
	PermissionManageLocationDoctors    Permission = "manage_location_doctors"
	PermissionViewLocationAppointments Permission = "view_location_appointments"
	PermissionManageAllLocations       Permission = "manage_all_locations"
	PermissionManageUsers              Permission = "manage_users"
	PermissionViewAllAppointments      Permission = "view_all_appointments"
	PermissionViewAnalytics            Permission = "view_analytics"
	PermissionManageSystem             Permission = "manage_system"
)

// rolePermissions is the static role -> permission table. It is defined
// explicitly per role, never derived from the hierarchy. super_admin is
// the single exception: it holds the union of every permission, built
// once below.
var rolePermissions = map[Role][]Permission{
	RolePatient: {
		PermissionViewOwnAppointments,
		PermissionBookAppointments,
		PermissionManageOwnProfile,
	},
	RoleDoctor: {
		PermissionViewOwnAppointments,
		PermissionManageOwnSchedule,
		PermissionViewPatientRecords,
		PermissionManageOwnProfile,
	},
	RoleLocationAdmin: {
		PermissionManageOwnLocation,
		PermissionManageLocationDoctors,
		PermissionViewLocationAppointments,
		PermissionViewAnalytics,
		PermissionManageOwnProfile,
	},
	RoleAdmin: {
		PermissionManageAllLocations,
		PermissionManageLocationDoctors,
		PermissionManageUsers,
		PermissionViewAllAppointments,
		PermissionViewAnalytics,
		PermissionManageOwnProfile,
	},
}

func init() {
	seen := make(map[Permission]struct{})
	var all []Permission
	for _, r := range Hierarchy {
		for _, p := range rolePermissions[r] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}
	all = append(all, PermissionManageSystem)
	rolePermissions[RoleSuperAdmin] = all
}

// PermissionsOf returns the permissions held by a role. The returned slice
// must not be mutated. Unknown roles hold nothing.
func PermissionsOf(r Role) []Permission {
	return rolePermissions[r]
}

// HasPermission reports whether the role holds the given permission.
func HasPermission(r Role, p Permission) bool {
	for _, held := range rolePermissions[r] {
		if held == p {
			return true
		}
	}
	return false
}

// HasAny reports whether the role holds at least one of the permissions.
func HasAny(r Role, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(r, p) {
			return true
		}
	}
	return false
}

// HasAll reports whether the role holds every one of the permissions.
func HasAll(r Role, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(r, p) {
			return false
		}
	}
	return true
}
