package payroll

const (
	WarningNegativeNet     = "negative_net"
	WarningInputClamped    = "input_clamped"
	WarningNoCompensation  = "zero_base_salary"
	WarningSubsidyNoAmount = "holiday_subsidy_not_configured"
)

const (
	AuditActionPeriodCreate     = "payroll.period.create"
	AuditActionPeriodRegenerate = "payroll.period.regenerate"
	AuditActionPeriodTransition = "payroll.period.transition"
	AuditActionEntryUpdate      = "payroll.entry.update"
	AuditEntityPeriod           = "payroll_period"
	AuditEntityEntry            = "payroll_entry"
)
