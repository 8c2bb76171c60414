package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionCatalogRead allows viewing the course catalog in the console.
	PermissionCatalogRead Permission = "catalog:read"

	// PermissionCatalogWrite allows creating, updating, and deleting courses.
	PermissionCatalogWrite Permission = "catalog:write"

	// PermissionRequirementsRead allows viewing degree requirements.
	PermissionRequirementsRead Permission = "requirements:read"

	// PermissionRequirementsWrite allows editing categories and exclusion rules.
	PermissionRequirementsWrite Permission = "requirements:write"

	// PermissionOfferingsRead allows viewing term offerings.
	PermissionOfferingsRead Permission = "offerings:read"

	// PermissionOfferingsWrite allows editing term offerings and the active term.
	PermissionOfferingsWrite Permission = "offerings:write"

	// PermissionAnalyticsRead allows viewing the anonymous analytics summary.
	PermissionAnalyticsRead Permission = "analytics:read"

	// PermissionSystemReload allows forcing a catalog snapshot reload.
	PermissionSystemReload Permission = "system:reload"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionCatalogRead,
	PermissionCatalogWrite,
	PermissionRequirementsRead,
	PermissionRequirementsWrite,
	PermissionOfferingsRead,
	PermissionOfferingsWrite,
	PermissionAnalyticsRead,
	PermissionSystemReload,
}
