package service

// Admin permission names.
const (
	PermissionViewAdmins           = "view_admins"
	PermissionCreateAdmin          = "create_admin"
	PermissionEditAdmin            = "edit_admin"
	PermissionEditAdminRole        = "edit_admin_role"
	PermissionEditAdminPermissions = "edit_admin_permissions"
	PermissionToggleAdminStatus    = "toggle_admin_status"
	PermissionResetAdminPassword   = "reset_admin_password"
)

// AllPermissions returns a fresh copy of the full permission set, in catalog order.
func AllPermissions() []string {
	return []string{
		PermissionViewAdmins,
		PermissionCreateAdmin,
		PermissionEditAdmin,
		PermissionEditAdminRole,
		PermissionEditAdminPermissions,
		PermissionToggleAdminStatus,
		PermissionResetAdminPassword,
	}
}
