package rbac

// manageableRoles is the explicit manager -> managed-roles table. It is
// enumerated case by case rather than derived from hierarchy levels, so
// reordering the Hierarchy slice can never silently widen a role's reach.
var manageableRoles = map[Role][]Role{
	RoleSuperAdmin:    {RoleAdmin, RoleLocationAdmin, RoleDoctor, RolePatient},
	RoleAdmin:         {RoleLocationAdmin, RoleDoctor, RolePatient},
	RoleLocationAdmin: {RoleDoctor, RolePatient},
}

// assignableRoles is the explicit table of roles each role may assign to
// other users. Nobody can hand out super_admin through this path; doctor
// and patient can assign nothing.
var assignableRoles = map[Role][]Role{
	RoleSuperAdmin:    {RoleAdmin, RoleLocationAdmin, RoleDoctor, RolePatient},
	RoleAdmin:         {RoleLocationAdmin, RoleDoctor, RolePatient},
	RoleLocationAdmin: {RoleDoctor, RolePatient},
}

// CanManage reports whether manager may perform management operations on
// users holding target.
func CanManage(manager, target Role) bool {
	for _, r := range manageableRoles[manager] {
		if r == target {
			return true
		}
	}
	return false
}

// AssignableRoles returns the roles that the given role may assign to
// other users, ordered from most to least privileged. Empty for doctor
// and patient.
func AssignableRoles(r Role) []Role {
	return assignableRoles[r]
}

// CanAssign reports whether actor may assign target to another user.
func CanAssign(actor, target Role) bool {
	for _, r := range assignableRoles[actor] {
		if r == target {
			return true
		}
	}
	return false
}
