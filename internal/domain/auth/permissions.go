package auth

const (
	RolePayrollClerk   = "payroll_clerk"
	RolePayrollManager = "payroll_manager"
	RoleViewer         = "viewer"
)

const (
	PermEmployeesRead      = "employees.read"
	PermEmployeesWrite     = "employees.write"
	PermPayrollRead        = "payroll.read"
	PermPayrollWrite       = "payroll.write"
	PermPayrollApprove     = "payroll.approve"
	PermPayrollPay         = "payroll.pay"
	PermAdjustmentsRead    = "adjustments.read"
	PermAdjustmentsWrite   = "adjustments.write"
	PermAdjustmentsApprove = "adjustments.approve"
	PermTerminationsWrite  = "terminations.write"
	PermAuditRead          = "audit.read"
	PermSyncNotify         = "sync.notify"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermPayrollRead,
	PermPayrollWrite,
	PermPayrollApprove,
	PermPayrollPay,
	PermAdjustmentsRead,
	PermAdjustmentsWrite,
	PermAdjustmentsApprove,
	PermTerminationsWrite,
	PermAuditRead,
	PermSyncNotify,
}

// RolePermissions is fixed at build time. A clerk prepares payroll, only a manager can
// approve it or pay it out.
var RolePermissions = map[string][]string{
	RoleViewer: {
		PermEmployeesRead,
		PermPayrollRead,
		PermAdjustmentsRead,
	},
	RolePayrollClerk: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermPayrollRead,
		PermPayrollWrite,
		PermAdjustmentsRead,
		PermAdjustmentsWrite,
		PermSyncNotify,
	},
	RolePayrollManager: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermPayrollRead,
		PermPayrollWrite,
		PermPayrollApprove,
		PermPayrollPay,
		PermAdjustmentsRead,
		PermAdjustmentsWrite,
		PermAdjustmentsApprove,
		PermTerminationsWrite,
		PermAuditRead,
		PermSyncNotify,
	},
}

func HasPermission(role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}

// StaticPermissions adapts RolePermissions to the middleware permission check.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(role, permission string) bool {
	return HasPermission(role, permission)
}
