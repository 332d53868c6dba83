package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariableInputs are the per-employee figures collected for one month.
type VariableInputs struct {
	OvertimeHoursNormal  decimal.Decimal `json:"overtimeHoursNormal" yaml:"overtimeHoursNormal"`
	OvertimeHoursNight   decimal.Decimal `json:"overtimeHoursNight" yaml:"overtimeHoursNight"`
	OvertimeHoursHoliday decimal.Decimal `json:"overtimeHoursHoliday" yaml:"overtimeHoursHoliday"`
	DaysAbsent           decimal.Decimal `json:"daysAbsent" yaml:"daysAbsent"`
	DelayHours           decimal.Decimal `json:"delayHours" yaml:"delayHours"`
	OtherDeductions      decimal.Decimal `json:"otherDeductions" yaml:"otherDeductions"`
	LoanDeduction        decimal.Decimal `json:"loanDeduction" yaml:"loanDeduction"`
	AdvanceDeduction     decimal.Decimal `json:"advanceDeduction" yaml:"advanceDeduction"`
}

type Earnings struct {
	Base            decimal.Decimal `json:"base"`
	Meal            decimal.Decimal `json:"meal"`
	Transport       decimal.Decimal `json:"transport"`
	Family          decimal.Decimal `json:"family"`
	Other           decimal.Decimal `json:"other"`
	OvertimeNormal  decimal.Decimal `json:"overtimeNormal"`
	OvertimeNight   decimal.Decimal `json:"overtimeNight"`
	OvertimeHoliday decimal.Decimal `json:"overtimeHoliday"`
	ThirteenthMonth decimal.Decimal `json:"thirteenthMonth"`
	HolidaySubsidy  decimal.Decimal `json:"holidaySubsidy"`
	MonthlyBonus    decimal.Decimal `json:"monthlyBonus"`
}

func (e Earnings) TotalOvertime() decimal.Decimal {
	return e.OvertimeNormal.Add(e.OvertimeNight).Add(e.OvertimeHoliday)
}

func (e Earnings) Total() decimal.Decimal {
	return decimal.Sum(e.Base, e.Meal, e.Transport, e.Family, e.Other, e.TotalOvertime(),
		e.ThirteenthMonth, e.HolidaySubsidy, e.MonthlyBonus)
}

// Deductions are withheld from the employee. Employer INSS is not part of it.
type Deductions struct {
	IRT          decimal.Decimal `json:"irt"`
	INSSEmployee decimal.Decimal `json:"inssEmployee"`
	Absence      decimal.Decimal `json:"absence"`
	Loan         decimal.Decimal `json:"loan"`
	Advance      decimal.Decimal `json:"advance"`
	Other        decimal.Decimal `json:"other"`
}

func (d Deductions) Total() decimal.Decimal {
	return decimal.Sum(d.IRT, d.INSSEmployee, d.Absence, d.Loan, d.Advance, d.Other)
}

type Entry struct {
	ID                string          `json:"id"`
	PeriodID          string          `json:"periodId"`
	EmployeeID        string          `json:"employeeId"`
	EmployeeName      string          `json:"employeeName"`
	Position          string          `json:"position"`
	Inputs            VariableInputs  `json:"inputs"`
	Earnings          Earnings        `json:"earnings"`
	Deductions        Deductions      `json:"deductions"`
	INSSBase          decimal.Decimal `json:"inssBase"`
	INSSEmployer      decimal.Decimal `json:"inssEmployer"`
	IRTTaxableGross   decimal.Decimal `json:"irtTaxableGross"`
	TaxableIncome     decimal.Decimal `json:"taxableIncome"`
	GrossSalary       decimal.Decimal `json:"grossSalary"`
	TotalDeductions   decimal.Decimal `json:"totalDeductions"`
	NetSalary         decimal.Decimal `json:"netSalary"`
	TotalEmployerCost decimal.Decimal `json:"totalEmployerCost"`
	HolidayScheduleID string          `json:"holidayScheduleId,omitempty"`
	Warnings          []string        `json:"warnings,omitempty"`
	Status            Status          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type Totals struct {
	Gross        decimal.Decimal `json:"gross"`
	Net          decimal.Decimal `json:"net"`
	Deductions   decimal.Decimal `json:"deductions"`
	EmployerCost decimal.Decimal `json:"employerCost"`
}

type Period struct {
	ID                     string     `json:"id"`
	Year                   int        `json:"year"`
	Month                  time.Month `json:"month"`
	Status                 Status     `json:"status"`
	IncludeThirteenthMonth bool       `json:"includeThirteenthMonth"`
	Totals                 Totals     `json:"totals"`
	EmployeeCount          int        `json:"employeeCount"`
	GeneratedAt            *time.Time `json:"generatedAt,omitempty"`
	CalculatedAt           *time.Time `json:"calculatedAt,omitempty"`
	ApprovedAt             *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy             string     `json:"approvedBy,omitempty"`
	PaidAt                 *time.Time `json:"paidAt,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// Label renders the period as YYYY-MM.
func (p Period) Label() string {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
