package termination

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertAmount(t *testing.T, want int64, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(amount(want)), "%s: expected %d, got %s", field, want, got)
}

func sumComponents(p Package) decimal.Decimal {
	return decimal.Sum(p.SeverancePay, p.ProportionalLeave, p.Proportional13th,
		p.ProportionalHolidaySubsidy, p.NoticeCompensation, p.UnusedLeaveCompensation)
}

func TestCalculateDismissalWithoutJustCause(t *testing.T) {
	pkg, err := Calculate(nil, Input{
		HireDate:        date(2015, time.March, 1),
		TerminationDate: date(2024, time.July, 15),
		Reason:          ReasonWithoutJustCause,
		FinalBaseSalary: amount(300000),
		UnusedLeaveDays: amount(5),
	})
	require.NoError(t, err)

	assert.True(t, pkg.YearsOfService.Equal(decimal.RequireFromString("9.37")), pkg.YearsOfService.String())
	assert.Equal(t, 6, pkg.MonthsElapsed)
	assertAmount(t, 2156160, pkg.SeverancePay, "severance")
	assertAmount(t, 150000, pkg.ProportionalLeave, "proportional leave")
	assertAmount(t, 75000, pkg.Proportional13th, "proportional 13th")
	assertAmount(t, 75000, pkg.ProportionalHolidaySubsidy, "proportional holiday subsidy")
	assert.Equal(t, 45, pkg.NoticePeriodDays)
	assertAmount(t, 519231, pkg.NoticeCompensation, "notice")
	assertAmount(t, 57692, pkg.UnusedLeaveCompensation, "unused leave")
	assertAmount(t, 3033083, pkg.TotalPackage, "total")
	assert.True(t, pkg.TotalPackage.Equal(sumComponents(pkg)))
}

func TestCalculateNoticeHonored(t *testing.T) {
	pkg, err := Calculate(nil, Input{
		HireDate:        date(2015, time.March, 1),
		TerminationDate: date(2024, time.July, 15),
		Reason:          ReasonWithoutJustCause,
		FinalBaseSalary: amount(300000),
		NoticeHonored:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, pkg.NoticePeriodDays)
	assert.True(t, pkg.NoticeCompensation.IsZero())
	assert.True(t, pkg.TotalPackage.Equal(sumComponents(pkg)))
}

func TestCalculateMutualAgreement(t *testing.T) {
	pkg, err := Calculate(nil, Input{
		HireDate:        date(2020, time.January, 1),
		TerminationDate: date(2022, time.January, 1),
		Reason:          ReasonMutualAgreement,
		FinalBaseSalary: amount(120000),
	})
	require.NoError(t, err)
	assertAmount(t, 120082, pkg.SeverancePay, "severance")
	assert.Equal(t, 0, pkg.MonthsElapsed)
	assert.Equal(t, 30, pkg.NoticePeriodDays)
	assert.True(t, pkg.NoticeCompensation.IsZero())
	assertAmount(t, 120082, pkg.TotalPackage, "total")
}

func TestCalculateResignationHasNoSeverance(t *testing.T) {
	pkg, err := Calculate(nil, Input{
		HireDate:        date(2010, time.June, 1),
		TerminationDate: date(2024, time.April, 1),
		Reason:          ReasonResignation,
		FinalBaseSalary: amount(240000),
	})
	require.NoError(t, err)
	assert.True(t, pkg.SeverancePay.IsZero())
	assert.True(t, pkg.NoticeCompensation.IsZero())
	assertAmount(t, 60000, pkg.ProportionalLeave, "proportional leave")
	assert.True(t, pkg.TotalPackage.Equal(sumComponents(pkg)))
}

func TestCalculateProbationSameDayIsZero(t *testing.T) {
	pkg, err := Calculate(nil, Input{
		HireDate:        date(2024, time.March, 15),
		TerminationDate: date(2024, time.March, 15),
		Reason:          ReasonProbation,
		FinalBaseSalary: amount(200000),
	})
	require.NoError(t, err)
	assert.True(t, pkg.YearsOfService.IsZero())
	assert.Equal(t, 0, pkg.NoticePeriodDays)
	assert.True(t, pkg.TotalPackage.IsZero(), pkg.TotalPackage.String())
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	base := Input{
		HireDate:        date(2024, time.March, 15),
		TerminationDate: date(2024, time.June, 15),
		Reason:          ReasonResignation,
		FinalBaseSalary: amount(200000),
	}

	future := base
	future.HireDate = date(2025, time.January, 1)
	_, err := Calculate(nil, future)
	assert.ErrorIs(t, err, ErrInvalidInput)

	negativeLeave := base
	negativeLeave.UnusedLeaveDays = amount(-2)
	_, err = Calculate(nil, negativeLeave)
	assert.ErrorIs(t, err, ErrInvalidInput)

	negativeSalary := base
	negativeSalary.FinalBaseSalary = amount(-1)
	_, err = Calculate(nil, negativeSalary)
	assert.ErrorIs(t, err, ErrInvalidInput)

	unknown := base
	unknown.Reason = "redundancy"
	_, err = Calculate(nil, unknown)
	assert.ErrorIs(t, err, ErrInvalidReason)
}

func TestMonthsElapsed(t *testing.T) {
	assert.Equal(t, 2, MonthsElapsed(date(2024, time.February, 20), date(2024, time.May, 19)))
	assert.Equal(t, 3, MonthsElapsed(date(2024, time.February, 20), date(2024, time.May, 20)))
	assert.Equal(t, 11, MonthsElapsed(date(2019, time.February, 20), date(2024, time.December, 31)))
	assert.Equal(t, 0, MonthsElapsed(date(2019, time.February, 20), date(2024, time.January, 31)))
}

func TestNoticeDays(t *testing.T) {
	cases := []struct {
		years string
		want  int
	}{
		{"0.5", 15},
		{"1", 30},
		{"4.99", 30},
		{"5", 45},
		{"9.9", 45},
		{"10", 60},
		{"25", 60},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NoticeDays(ReasonWithoutJustCause, decimal.RequireFromString(tc.years)), tc.years)
	}
	assert.Equal(t, 0, NoticeDays(ReasonProbation, decimal.NewFromInt(3)))
}
