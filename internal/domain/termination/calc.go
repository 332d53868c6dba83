package termination

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"angopay/internal/domain/payroll"
)

var (
	daysPerYear        = decimal.RequireFromString("365.25")
	fullRateYears      = decimal.NewFromInt(5)
	reducedRate        = decimal.RequireFromString("0.5")
	leaveFraction      = decimal.NewFromInt(1)
	thirteenthFraction = decimal.RequireFromString("0.5")
	holidayFraction    = decimal.RequireFromString("0.5")
	monthsPerYear      = decimal.NewFromInt(12)
)

// Calculate computes the termination package. Negative service time, salary or leave
// balance is rejected with ErrInvalidInput.
func Calculate(calc *payroll.Calculator, in Input) (Package, error) {
	if calc == nil {
		calc = payroll.DefaultCalculator()
	}
	if !in.Reason.Valid() {
		return Package{}, fmt.Errorf("%q: %w", in.Reason, ErrInvalidReason)
	}
	if in.HireDate.IsZero() || in.TerminationDate.IsZero() {
		return Package{}, fmt.Errorf("hire and termination dates required: %w", ErrInvalidInput)
	}
	if in.TerminationDate.Before(in.HireDate) {
		return Package{}, fmt.Errorf("termination date before hire date: %w", ErrInvalidInput)
	}
	if in.FinalBaseSalary.IsNegative() {
		return Package{}, fmt.Errorf("final base salary must not be negative: %w", ErrInvalidInput)
	}
	if in.UnusedLeaveDays.IsNegative() {
		return Package{}, fmt.Errorf("unused leave days must not be negative: %w", ErrInvalidInput)
	}

	base := in.FinalBaseSalary
	years := YearsOfService(in.HireDate, in.TerminationDate)
	months := MonthsElapsed(in.HireDate, in.TerminationDate)
	share := decimal.NewFromInt(int64(months)).Div(monthsPerYear)
	daily := calc.DailyRate(base)

	pkg := Package{
		YearsOfService:             years.Round(2),
		MonthsElapsed:              months,
		SeverancePay:               payroll.RoundMoney(severanceYears(in.Reason, years).Mul(base)),
		ProportionalLeave:          payroll.RoundMoney(base.Mul(leaveFraction).Mul(share)),
		Proportional13th:           payroll.RoundMoney(base.Mul(thirteenthFraction).Mul(share)),
		ProportionalHolidaySubsidy: payroll.RoundMoney(base.Mul(holidayFraction).Mul(share)),
		NoticePeriodDays:           NoticeDays(in.Reason, years),
		NoticeCompensation:         decimal.Zero,
		UnusedLeaveCompensation:    payroll.RoundMoney(in.UnusedLeaveDays.Mul(daily)),
	}
	if in.Reason.EmployerInitiated() && !in.NoticeHonored {
		pkg.NoticeCompensation = payroll.RoundMoney(decimal.NewFromInt(int64(pkg.NoticePeriodDays)).Mul(daily))
	}
	pkg.TotalPackage = decimal.Sum(pkg.SeverancePay, pkg.ProportionalLeave, pkg.Proportional13th,
		pkg.ProportionalHolidaySubsidy, pkg.NoticeCompensation, pkg.UnusedLeaveCompensation)
	return pkg, nil
}

// YearsOfService is the fractional number of years between hire and termination.
func YearsOfService(hire, end time.Time) decimal.Decimal {
	days := dateOnly(end).Sub(dateOnly(hire)).Hours() / 24
	if days <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(days).Div(daysPerYear)
}

// MonthsElapsed counts completed months in the termination year, starting from the later
// of 1 January and the hire date.
func MonthsElapsed(hire, end time.Time) int {
	start := time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if h := dateOnly(hire); h.After(start) {
		start = h
	}
	e := dateOnly(end)
	if e.Before(start) {
		return 0
	}
	months := (e.Year()-start.Year())*12 + int(e.Month()-start.Month())
	if e.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	if months > 12 {
		return 12
	}
	return months
}

// NoticeDays is the statutory notice for the service length. Probation carries none.
func NoticeDays(reason Reason, years decimal.Decimal) int {
	if reason == ReasonProbation {
		return 0
	}
	switch {
	case years.LessThan(decimal.NewFromInt(1)):
		return 15
	case years.LessThan(decimal.NewFromInt(5)):
		return 30
	case years.LessThan(decimal.NewFromInt(10)):
		return 45
	default:
		return 60
	}
}

// severanceYears converts service time into the number of monthly salaries owed.
func severanceYears(reason Reason, years decimal.Decimal) decimal.Decimal {
	switch reason {
	case ReasonWithoutJustCause, ReasonCollectiveDismissal:
		first := decimal.Min(years, fullRateYears)
		rest := years.Sub(first)
		return first.Add(rest.Mul(reducedRate))
	case ReasonMutualAgreement:
		return years.Mul(reducedRate)
	}
	return decimal.Zero
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
