package leave

import "errors"

var (
	ErrScheduleNotFound     = errors.New("vacation schedule not found")
	ErrInvalidRange         = errors.New("end date before start date")
	ErrSubsidyAlreadyPaid   = errors.New("holiday subsidy already paid for this vacation")
	ErrEmployeeRequired     = errors.New("employee id required")
	ErrOverlappingVacations = errors.New("vacation overlaps an existing schedule")
)
