package model

// RolePermissions maps each role to the permissions embedded in its tokens.
var RolePermissions = map[AdminRole][]Permission{
	RoleSuperAdmin: AllPermissions,
	RoleEditor: {
		PermissionCatalogRead,
		PermissionCatalogWrite,
		PermissionRequirementsRead,
		PermissionRequirementsWrite,
		PermissionOfferingsRead,
		PermissionOfferingsWrite,
		PermissionAnalyticsRead,
	},
	RoleViewer: {
		PermissionCatalogRead,
		PermissionRequirementsRead,
		PermissionOfferingsRead,
		PermissionAnalyticsRead,
	},
}

// PermissionsFor returns the permission codes of a role. Unknown roles get none.
func PermissionsFor(role AdminRole) []string {
	perms := RolePermissions[role]
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
