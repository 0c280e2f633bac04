package domain

import "strings"

// UserRole is an access level
type UserRole string

const (
	RoleViewer UserRole = "viewer"
	RoleUser   UserRole = "user"
	RoleAdmin  UserRole = "admin"
)

// ParseUserRole falls back to viewer for unknown roles
func ParseUserRole(s string) UserRole {
	switch UserRole(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleUser:
		return RoleUser
	default:
		return RoleViewer
	}
}

// Level orders roles viewer < user < admin
func (r UserRole) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleUser:
		return 2
	default:
		return 1
	}
}

// AtLeast reports whether r grants at least the access of required
func (r UserRole) AtLeast(required UserRole) bool {
	return r.Level() >= required.Level()
}

// User is an account without its credential material
type User struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	Name     string   `json:"name"`
	Active   bool     `json:"active"`
}

// Permission names a single capability
type Permission string

const (
	PermUploadFiles     Permission = "upload_files"
	PermViewReports     Permission = "view_reports"
	PermExportData      Permission = "export_data"
	PermManageUsers     Permission = "manage_users"
	PermViewLogs        Permission = "view_logs"
	PermAdvancedFilters Permission = "advanced_filters"
)

// Permissions is the fixed capability set derived from a role
type Permissions struct {
	UploadFiles     bool `json:"upload_files"`
	ViewReports     bool `json:"view_reports"`
	ExportData      bool `json:"export_data"`
	ManageUsers     bool `json:"manage_users"`
	ViewLogs        bool `json:"view_logs"`
	AdvancedFilters bool `json:"advanced_filters"`
}

// Allows reports whether p grants perm
func (p Permissions) Allows(perm Permission) bool {
	switch perm {
	case PermUploadFiles:
		return p.UploadFiles
	case PermViewReports:
		return p.ViewReports
	case PermExportData:
		return p.ExportData
	case PermManageUsers:
		return p.ManageUsers
	case PermViewLogs:
		return p.ViewLogs
	case PermAdvancedFilters:
		return p.AdvancedFilters
	}
	return false
}
