package auth

import "logisticsmart/pkg/contracts/domain"

// PermissionsFor returns the capability set of role. Unknown roles get the
// viewer set.
func PermissionsFor(role domain.UserRole) domain.Permissions {
	switch role {
	case domain.RoleAdmin:
		return domain.Permissions{
			UploadFiles:     true,
			ViewReports:     true,
			ExportData:      true,
			ManageUsers:     true,
			ViewLogs:        true,
			AdvancedFilters: true,
		}
	case domain.RoleUser:
		return domain.Permissions{
			UploadFiles:     true,
			ViewReports:     true,
			ExportData:      true,
			AdvancedFilters: true,
		}
	default:
		return domain.Permissions{ViewReports: true}
	}
}

// RoleAtLeast reports whether role grants at least required, ordering
// viewer < user < admin
func RoleAtLeast(role, required domain.UserRole) bool {
	return role.AtLeast(required)
}
