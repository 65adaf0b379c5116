package user

type Permission string

const (
	// Requests
	PermissionRequestCreate  Permission = "request.create"
	PermissionRequestViewOwn Permission = "request.view_own"
	PermissionRequestViewAll Permission = "request.view_all"
	PermissionRequestPost    Permission = "request.post"
	PermissionRequestRespond Permission = "request.respond"

	// Loans
	PermissionLoanScheduleBuild Permission = "loan.schedule_build"

	// Payroll
	PermissionPayrollViewOwn Permission = "payroll.view_own"
	PermissionPayrollViewAll Permission = "payroll.view_all"
	PermissionPayrollPost    Permission = "payroll.post"
	PermissionPayrollRoll    Permission = "payroll.roll_forward"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleMD: {
		PermissionRequestCreate,
		PermissionRequestViewOwn,
		PermissionRequestViewAll,
		PermissionRequestPost,
		PermissionRequestRespond,
		PermissionLoanScheduleBuild,
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollPost,
		PermissionPayrollRoll,
	},
	RoleHR: {
		PermissionRequestCreate,
		PermissionRequestViewOwn,
		PermissionRequestViewAll,
		PermissionRequestPost,
		PermissionRequestRespond,
		PermissionLoanScheduleBuild,
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollPost,
	},
	RoleEmployee: {
		PermissionRequestCreate,
		PermissionRequestViewOwn,
		PermissionPayrollViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// AnyHasPermission checks the permission across a role set.
func AnyHasPermission(roles []Role, permission Permission) bool {
	for _, r := range roles {
		if HasPermission(r, permission) {
			return true
		}
	}
	return false
}
