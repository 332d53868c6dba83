package leave

import "time"

// CalculateDays returns inclusive day count between start and end.
func CalculateDays(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

// NextMonth returns the calendar month following year/month.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// SubsidyDue reports whether the schedule's holiday subsidy belongs to the payroll of
// year/month, i.e. the vacation starts in the following month and the subsidy is unpaid.
func SubsidyDue(s VacationSchedule, year int, month time.Month) bool {
	if s.SubsidyPaid {
		return false
	}
	nextYear, nextMonth := NextMonth(year, month)
	return s.StartDate.Year() == nextYear && s.StartDate.Month() == nextMonth
}

func overlaps(a, b VacationSchedule) bool {
	return !a.EndDate.Before(b.StartDate) && !b.EndDate.Before(a.StartDate)
}
