package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"angopay/internal/domain/core"
)

// EntryContext is everything BuildEntry needs for one employee in one period.
type EntryContext struct {
	Period   Period
	Employee core.Employee
	Inputs   VariableInputs
	// HolidayScheduleID is set when a vacation starting next month makes the holiday
	// subsidy due in this period.
	HolidayScheduleID string
}

// MonthsWorked counts calendar months from the later of January and the hire month up to
// and including the period month.
func MonthsWorked(hireDate time.Time, year int, month time.Month) int {
	if hireDate.Year() > year || (hireDate.Year() == year && hireDate.Month() > month) {
		return 0
	}
	start := time.January
	if hireDate.Year() == year {
		start = hireDate.Month()
	}
	return int(month-start) + 1
}

// BuildEntry computes one payroll entry. It fails only with a ConfigurationError; out of
// range inputs are clamped and listed in the entry warnings.
func BuildEntry(calc *Calculator, ec EntryContext) (Entry, error) {
	cfg := ec.Employee.Compensation
	if err := cfg.Validate(); err != nil {
		return Entry{}, &ConfigurationError{Field: "employee " + ec.Employee.ID, Reason: "invalid compensation", Err: err}
	}
	table := calc.Table()
	inputs, issues := ec.Inputs.Normalize(table)

	var warnings []string
	for _, issue := range issues {
		warnings = append(warnings, WarningInputClamped+": "+issue.String())
	}
	if cfg.BaseSalary.IsZero() {
		warnings = append(warnings, WarningNoCompensation)
	}

	hourly := calc.HourlyRate(cfg.BaseSalary)
	otNormal, err := calc.OvertimePay(hourly, inputs.OvertimeHoursNormal, OvertimeNormal, decimal.Zero)
	if err != nil {
		return Entry{}, err
	}
	otNight, err := calc.OvertimePay(hourly, inputs.OvertimeHoursNight, OvertimeNight, decimal.Zero)
	if err != nil {
		return Entry{}, err
	}
	otHoliday, err := calc.OvertimePay(hourly, inputs.OvertimeHoursHoliday, OvertimeHoliday, decimal.Zero)
	if err != nil {
		return Entry{}, err
	}

	thirteenth := decimal.Zero
	if ec.Period.IncludeThirteenthMonth {
		months := MonthsWorked(ec.Employee.HireDate, ec.Period.Year, ec.Period.Month)
		thirteenth = calc.ThirteenthMonth(cfg.BaseSalary, months)
	}

	subsidy := decimal.Zero
	if ec.HolidayScheduleID != "" {
		subsidy = RoundMoney(cfg.HolidaySubsidy)
		if subsidy.IsZero() {
			warnings = append(warnings, WarningSubsidyNoAmount)
		}
	}

	earnings := fixedEarnings(cfg)
	earnings.OvertimeNormal = otNormal
	earnings.OvertimeNight = otNight
	earnings.OvertimeHoliday = otHoliday
	earnings.ThirteenthMonth = thirteenth
	earnings.HolidaySubsidy = subsidy

	inssBase := calc.INSSBase(earnings)
	inssEmployee := calc.INSSEmployee(inssBase, cfg.IsRetired)
	inssEmployer := calc.INSSEmployer(inssBase)
	irtGross := calc.IRTTaxableGross(earnings)
	taxable := calc.TaxableIncome(irtGross, inssEmployee)
	irt, err := calc.IRT(taxable)
	if err != nil {
		return Entry{}, err
	}

	full := calc.FullMonthlySalary(cfg, subsidy)
	deductions := Deductions{
		IRT:          RoundMoney(irt),
		INSSEmployee: inssEmployee,
		Absence:      calc.AbsenceDeduction(full, inputs.DaysAbsent, inputs.DelayHours),
		Loan:         inputs.LoanDeduction,
		Advance:      inputs.AdvanceDeduction,
		Other:        inputs.OtherDeductions,
	}

	gross := earnings.Total()
	totalDeductions := deductions.Total()
	net := gross.Sub(totalDeductions)
	if net.IsNegative() {
		warnings = append(warnings, WarningNegativeNet)
	}

	scheduleID := ""
	if subsidy.IsPositive() {
		scheduleID = ec.HolidayScheduleID
	}

	return Entry{
		PeriodID:          ec.Period.ID,
		EmployeeID:        ec.Employee.ID,
		EmployeeName:      ec.Employee.Name,
		Position:          ec.Employee.Position,
		Inputs:            inputs,
		Earnings:          earnings,
		Deductions:        deductions,
		INSSBase:          inssBase,
		INSSEmployer:      inssEmployer,
		IRTTaxableGross:   irtGross,
		TaxableIncome:     taxable,
		GrossSalary:       gross,
		TotalDeductions:   totalDeductions,
		NetSalary:         net,
		TotalEmployerCost: gross.Add(inssEmployer),
		HolidayScheduleID: scheduleID,
		Warnings:          warnings,
		Status:            ec.Period.Status,
	}, nil
}

// Aggregate sums entries into period totals.
func Aggregate(entries []Entry) (Totals, int) {
	totals := Totals{Gross: decimal.Zero, Net: decimal.Zero, Deductions: decimal.Zero, EmployerCost: decimal.Zero}
	for _, e := range entries {
		totals.Gross = totals.Gross.Add(e.GrossSalary)
		totals.Net = totals.Net.Add(e.NetSalary)
		totals.Deductions = totals.Deductions.Add(e.TotalDeductions)
		totals.EmployerCost = totals.EmployerCost.Add(e.TotalEmployerCost)
	}
	return totals, len(entries)
}

// fixedEarnings holds the monthly components of the compensation config, each rounded
// to whole kwanzas.
func fixedEarnings(cfg core.CompensationConfig) Earnings {
	return Earnings{
		Base:         RoundMoney(cfg.BaseSalary),
		Meal:         RoundMoney(cfg.MealAllowance),
		Transport:    RoundMoney(cfg.TransportAllowance),
		Family:       RoundMoney(cfg.FamilyAllowance),
		Other:        RoundMoney(cfg.OtherAllowances),
		MonthlyBonus: RoundMoney(cfg.MonthlyBonus),
	}
}
