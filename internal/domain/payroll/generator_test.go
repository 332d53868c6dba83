package payroll

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"angopay/internal/domain/core"
)

func testEmployee() core.Employee {
	return core.Employee{
		ID:       "emp-1",
		Code:     "A001",
		Name:     "Teresa Neto",
		Position: "Analyst",
		HireDate: time.Date(2020, time.March, 2, 0, 0, 0, 0, time.UTC),
		Status:   core.StatusActive,
		Compensation: core.CompensationConfig{
			BaseSalary:         d(150000),
			MealAllowance:      d(30000),
			TransportAllowance: d(30000),
		},
	}
}

func TestMonthsWorked(t *testing.T) {
	cases := []struct {
		hire  time.Time
		month time.Month
		want  int
	}{
		{time.Date(2019, time.May, 10, 0, 0, 0, 0, time.UTC), time.December, 12},
		{time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC), time.December, 6},
		{time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), time.December, 1},
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), time.December, 0},
		{time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), time.February, 0},
	}
	for _, tc := range cases {
		if got := MonthsWorked(tc.hire, 2024, tc.month); got != tc.want {
			t.Fatalf("MonthsWorked(%s, 2024-%02d): expected %d, got %d", tc.hire.Format("2006-01-02"), tc.month, tc.want, got)
		}
	}
}

func TestBuildEntryWorkedExample(t *testing.T) {
	entry, err := BuildEntry(DefaultCalculator(), EntryContext{
		Period:   Period{ID: "p-1", Year: 2024, Month: time.March, Status: StatusDraft},
		Employee: testEmployee(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectAmount(t, "gross", entry.GrossSalary, d(210000))
	expectAmount(t, "inss base", entry.INSSBase, d(210000))
	expectAmount(t, "inss employee", entry.Deductions.INSSEmployee, d(6300))
	expectAmount(t, "taxable", entry.TaxableIncome, d(143700))
	expectAmount(t, "irt", entry.Deductions.IRT, d(5681))
	expectAmount(t, "net", entry.NetSalary, d(198019))
	expectAmount(t, "employer cost", entry.TotalEmployerCost, d(226800))
	if entry.PeriodID != "p-1" || entry.EmployeeID != "emp-1" || entry.Status != StatusDraft {
		t.Fatalf("unexpected identity fields %+v", entry)
	}
	if len(entry.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", entry.Warnings)
	}
}

func TestBuildEntryThirteenthAndHolidaySubsidy(t *testing.T) {
	emp := testEmployee()
	emp.Compensation.FamilyAllowance = d(5000)
	emp.Compensation.HolidaySubsidy = d(75000)

	entry, err := BuildEntry(DefaultCalculator(), EntryContext{
		Period:            Period{ID: "p-12", Year: 2024, Month: time.December, Status: StatusDraft, IncludeThirteenthMonth: true},
		Employee:          emp,
		HolidayScheduleID: "vac-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectAmount(t, "thirteenth", entry.Earnings.ThirteenthMonth, d(75000))
	expectAmount(t, "holiday subsidy", entry.Earnings.HolidaySubsidy, d(75000))
	expectAmount(t, "gross", entry.GrossSalary, d(365000))
	expectAmount(t, "inss base", entry.INSSBase, d(285000))
	expectAmount(t, "inss employee", entry.Deductions.INSSEmployee, d(8550))
	expectAmount(t, "irt taxable gross", entry.IRTTaxableGross, d(225000))
	expectAmount(t, "irt", entry.Deductions.IRT, d(34211))
	expectAmount(t, "net", entry.NetSalary, d(322239))
	expectAmount(t, "employer cost", entry.TotalEmployerCost, d(387800))
	if entry.HolidayScheduleID != "vac-1" {
		t.Fatalf("expected schedule to be carried, got %q", entry.HolidayScheduleID)
	}
}

func TestBuildEntryClampsInputsAndWarnsOnNegativeNet(t *testing.T) {
	entry, err := BuildEntry(DefaultCalculator(), EntryContext{
		Period:   Period{ID: "p-1", Year: 2024, Month: time.March, Status: StatusCalculated},
		Employee: testEmployee(),
		Inputs:   VariableInputs{DaysAbsent: d(30), DelayHours: d(-2)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectAmount(t, "days used", entry.Inputs.DaysAbsent, d(26))
	expectAmount(t, "delay used", entry.Inputs.DelayHours, decimal.Zero)
	expectAmount(t, "absence", entry.Deductions.Absence, d(210000))
	expectAmount(t, "net", entry.NetSalary, d(-11981))

	clamped := 0
	negative := false
	for _, w := range entry.Warnings {
		if strings.HasPrefix(w, WarningInputClamped) {
			clamped++
		}
		if w == WarningNegativeNet {
			negative = true
		}
	}
	if clamped != 2 || !negative {
		t.Fatalf("unexpected warnings %v", entry.Warnings)
	}
	if entry.Status != StatusCalculated {
		t.Fatalf("expected entry to follow period status, got %s", entry.Status)
	}
}

func TestBuildEntryOvertime(t *testing.T) {
	emp := testEmployee()
	emp.Compensation.BaseSalary = d(176000)

	entry, err := BuildEntry(DefaultCalculator(), EntryContext{
		Period:   Period{ID: "p-1", Year: 2024, Month: time.March, Status: StatusDraft},
		Employee: emp,
		Inputs:   VariableInputs{OvertimeHoursNormal: d(35), OvertimeHoursNight: d(2)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectAmount(t, "overtime normal", entry.Earnings.OvertimeNormal, d(53750))
	expectAmount(t, "overtime night", entry.Earnings.OvertimeNight, d(3500))
	expectAmount(t, "inss base", entry.INSSBase, d(176000+30000+30000+53750+3500))
}

func TestBuildEntrySubsidyWithoutAmount(t *testing.T) {
	entry, err := BuildEntry(DefaultCalculator(), EntryContext{
		Period:            Period{ID: "p-1", Year: 2024, Month: time.March, Status: StatusDraft},
		Employee:          testEmployee(),
		HolidayScheduleID: "vac-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.HolidayScheduleID != "" {
		t.Fatalf("schedule must not be linked when nothing was paid")
	}
	found := false
	for _, w := range entry.Warnings {
		found = found || w == WarningSubsidyNoAmount
	}
	if !found {
		t.Fatalf("expected %s warning, got %v", WarningSubsidyNoAmount, entry.Warnings)
	}
}

func TestBuildEntryNegativeCompensation(t *testing.T) {
	emp := testEmployee()
	emp.Compensation.BaseSalary = d(-1)

	_, err := BuildEntry(DefaultCalculator(), EntryContext{
		Period:   Period{ID: "p-1", Year: 2024, Month: time.March},
		Employee: emp,
	})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !errors.Is(err, core.ErrNegativeCompensation) {
		t.Fatalf("expected negative compensation cause, got %v", err)
	}
}

func TestAggregate(t *testing.T) {
	totals, count := Aggregate([]Entry{
		{GrossSalary: d(100), NetSalary: d(80), TotalDeductions: d(20), TotalEmployerCost: d(108)},
		{GrossSalary: d(200), NetSalary: d(150), TotalDeductions: d(50), TotalEmployerCost: d(216)},
	})
	if count != 2 {
		t.Fatalf("expected 2 entries, got %d", count)
	}
	expectAmount(t, "gross", totals.Gross, d(300))
	expectAmount(t, "net", totals.Net, d(230))
	expectAmount(t, "deductions", totals.Deductions, d(70))
	expectAmount(t, "employer cost", totals.EmployerCost, d(324))
}
