package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"angopay/internal/domain/core"
)

type OvertimeKind string

const (
	OvertimeNormal  OvertimeKind = "normal"
	OvertimeNight   OvertimeKind = "night"
	OvertimeHoliday OvertimeKind = "holiday"
)

// Calculator evaluates the statutory formulas of one RateTable. All methods are pure.
type Calculator struct {
	table RateTable
}

func NewCalculator(table RateTable) (*Calculator, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{table: table}, nil
}

// DefaultCalculator uses DefaultRateTable.
func DefaultCalculator() *Calculator {
	calc, err := NewCalculator(DefaultRateTable())
	if err != nil {
		panic(err)
	}
	return calc
}

func (c *Calculator) Table() RateTable {
	return c.table
}

func (c *Calculator) HourlyRate(baseSalary decimal.Decimal) decimal.Decimal {
	return baseSalary.Div(c.table.MonthlyHours)
}

// OvertimePay prices hours of the given kind. For normal overtime, accrued is the number of
// normal overtime hours already paid this month; hours up to the tier threshold take the
// first-tier multiplier and the remainder the second.
func (c *Calculator) OvertimePay(hourlyRate, hours decimal.Decimal, kind OvertimeKind, accrued decimal.Decimal) (decimal.Decimal, error) {
	if !hours.IsPositive() {
		if kind != OvertimeNormal && kind != OvertimeNight && kind != OvertimeHoliday {
			return decimal.Zero, fmt.Errorf("%q: %w", kind, ErrUnknownOvertimeKind)
		}
		return decimal.Zero, nil
	}
	rates := c.table.Overtime
	switch kind {
	case OvertimeNormal:
		remaining := nonNegative(rates.NormalTierHours.Sub(nonNegative(accrued)))
		first := decimal.Min(hours, remaining)
		second := hours.Sub(first)
		weighted := first.Mul(rates.NormalFirstTier).Add(second.Mul(rates.NormalSecondTier))
		return RoundMoney(hourlyRate.Mul(weighted)), nil
	case OvertimeNight:
		return RoundMoney(hourlyRate.Mul(hours).Mul(rates.Night)), nil
	case OvertimeHoliday:
		return RoundMoney(hourlyRate.Mul(hours).Mul(rates.Holiday)), nil
	}
	return decimal.Zero, fmt.Errorf("%q: %w", kind, ErrUnknownOvertimeKind)
}

// INSSBase excludes holiday subsidy, family allowance and the monthly bonus.
func (c *Calculator) INSSBase(e Earnings) decimal.Decimal {
	return decimal.Sum(e.Base, e.Transport, e.Meal, e.ThirteenthMonth, e.TotalOvertime(), e.Other)
}

// INSSEmployee is zero for retired employees.
func (c *Calculator) INSSEmployee(inssBase decimal.Decimal, retired bool) decimal.Decimal {
	if retired {
		return decimal.Zero
	}
	return RoundMoney(inssBase.Mul(c.table.INSSEmployeeRate))
}

func (c *Calculator) INSSEmployer(inssBase decimal.Decimal) decimal.Decimal {
	return RoundMoney(inssBase.Mul(c.table.INSSEmployerRate))
}

// TaxableExcess is the part of a meal or transport allowance above the tax-free cap.
func (c *Calculator) TaxableExcess(allowance decimal.Decimal) decimal.Decimal {
	return nonNegative(allowance.Sub(c.table.AllowanceTaxFreeCap))
}

func (c *Calculator) IRTTaxableGross(e Earnings) decimal.Decimal {
	return decimal.Sum(e.Base, c.TaxableExcess(e.Transport), c.TaxableExcess(e.Meal),
		e.ThirteenthMonth, e.TotalOvertime(), e.Other)
}

func (c *Calculator) TaxableIncome(irtTaxableGross, inssEmployee decimal.Decimal) decimal.Decimal {
	return nonNegative(irtTaxableGross.Sub(inssEmployee))
}

// Bracket returns the single bracket containing income.
func (c *Calculator) Bracket(income decimal.Decimal) (Bracket, error) {
	for _, b := range c.table.Brackets {
		if b.Contains(income) {
			return b, nil
		}
	}
	return Bracket{}, &ConfigurationError{Field: "brackets", Reason: "no bracket matches taxable income " + income.String()}
}

// IRT returns the unrounded income tax for a monthly taxable income.
func (c *Calculator) IRT(taxableIncome decimal.Decimal) (decimal.Decimal, error) {
	income := nonNegative(taxableIncome)
	if income.LessThanOrEqual(c.table.ExemptionThreshold) {
		return decimal.Zero, nil
	}
	b, err := c.Bracket(income)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Tax(income), nil
}

func (c *Calculator) DailyRate(fullMonthlySalary decimal.Decimal) decimal.Decimal {
	return fullMonthlySalary.Div(c.table.WorkingDays)
}

func (c *Calculator) HourlyDelayRate(fullMonthlySalary decimal.Decimal) decimal.Decimal {
	return c.DailyRate(fullMonthlySalary).Div(c.table.HoursPerDay)
}

// FullMonthlySalary is everything contractually owed in the month: base, allowances,
// monthly bonus and the holiday subsidy actually due this month.
func (c *Calculator) FullMonthlySalary(cfg core.CompensationConfig, holidaySubsidyOwed decimal.Decimal) decimal.Decimal {
	return decimal.Sum(cfg.BaseSalary, cfg.Allowances(), cfg.MonthlyBonus, holidaySubsidyOwed)
}

// AbsenceDeduction clamps days and delay hours to the table maxima before pricing them.
func (c *Calculator) AbsenceDeduction(fullMonthlySalary, absenceDays, delayHours decimal.Decimal) decimal.Decimal {
	days := clamp(absenceDays, decimal.Zero, c.table.MaxAbsenceDays)
	delay := clamp(delayHours, decimal.Zero, c.table.MaxDelayHours)
	amount := days.Mul(c.DailyRate(fullMonthlySalary)).Add(delay.Mul(c.HourlyDelayRate(fullMonthlySalary)))
	return RoundMoney(amount)
}

// ThirteenthMonth prorates the Christmas subsidy by months worked in the year.
func (c *Calculator) ThirteenthMonth(baseSalary decimal.Decimal, monthsWorked int) decimal.Decimal {
	if monthsWorked <= 0 {
		return decimal.Zero
	}
	if monthsWorked > 12 {
		monthsWorked = 12
	}
	return RoundMoney(baseSalary.Mul(c.table.ThirteenthMonthFraction).Mul(decimal.NewFromInt(int64(monthsWorked))).Div(twelve))
}
