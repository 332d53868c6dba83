package core

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusTerminated = "terminated"
)

var EmployeeStatuses = []string{StatusActive, StatusInactive, StatusTerminated}
