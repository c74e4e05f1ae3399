package user

type Permission string

const (
	// Attendance
	PermissionAttendanceRecord    Permission = "attendance.record"
	PermissionAttendanceRecordAny Permission = "attendance.record_any"
	PermissionAttendanceViewOwn   Permission = "attendance.view_own"
	PermissionAttendanceViewAll   Permission = "attendance.view_all"
	PermissionAttendanceManage    Permission = "attendance.manage"

	// Leave
	PermissionLeaveRequest Permission = "leave.request"
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// Work sessions and claims
	PermissionSessionClaim    Permission = "session.claim"
	PermissionSessionClaimAny Permission = "session.claim_any"
	PermissionSessionViewOwn  Permission = "session.view_own"
	PermissionSessionViewAll  Permission = "session.view_all"
	PermissionSessionApprove  Permission = "session.approve"
	PermissionSessionManage   Permission = "session.manage"

	// Monthly recaps
	PermissionRecapGenerate Permission = "recap.generate"
	PermissionRecapViewOwn  Permission = "recap.view_own"
	PermissionRecapViewAll  Permission = "recap.view_all"

	// Payroll
	PermissionPayrollGenerate Permission = "payroll.generate"
	PermissionPayrollApprove  Permission = "payroll.approve"
	PermissionPayrollPay      Permission = "payroll.pay"
	PermissionPayrollViewOwn  Permission = "payroll.view_own"
	PermissionPayrollViewAll  Permission = "payroll.view_all"

	// Employees
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"
)

var employeePermissions = []Permission{
	PermissionAttendanceRecord,
	PermissionAttendanceViewOwn,
	PermissionLeaveRequest,
	PermissionLeaveViewOwn,
	PermissionSessionClaim,
	PermissionSessionViewOwn,
	PermissionRecapViewOwn,
	PermissionPayrollViewOwn,
}

var adminPermissions = append([]Permission{
	PermissionAttendanceRecordAny,
	PermissionAttendanceViewAll,
	PermissionAttendanceManage,
	PermissionLeaveViewAll,
	PermissionLeaveApprove,
	PermissionSessionClaimAny,
	PermissionSessionViewAll,
	PermissionSessionApprove,
	PermissionSessionManage,
	PermissionRecapGenerate,
	PermissionRecapViewAll,
	PermissionPayrollGenerate,
	PermissionPayrollPay,
	PermissionPayrollViewAll,
	PermissionEmployeeViewAll,
	PermissionEmployeeManage,
}, employeePermissions...)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	// Owner has all permissions, payroll approval is owner-only
	RoleOwner: append([]Permission{PermissionPayrollApprove}, adminPermissions...),
	RoleAdmin: adminPermissions,
	RoleEmployee: employeePermissions,
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

// PermissionSet is a resolved set of capabilities for one identity.
type PermissionSet map[Permission]struct{}

// PermissionsFor resolves the permission set granted to role.
func PermissionsFor(role Role) PermissionSet {
	set := make(PermissionSet, len(RolePermissions[role]))
	for _, p := range RolePermissions[role] {
		set[p] = struct{}{}
	}
	return set
}

func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}
