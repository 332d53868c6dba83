package leave

import "time"

// VacationSchedule is a planned annual vacation. Its holiday subsidy is paid with the
// payroll of the month before StartDate.
type VacationSchedule struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         time.Time  `json:"endDate"`
	Days            float64    `json:"days"`
	SubsidyPaid     bool       `json:"subsidyPaid"`
	SubsidyPeriodID string     `json:"subsidyPeriodId,omitempty"`
	SubsidyPaidAt   *time.Time `json:"subsidyPaidAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}
