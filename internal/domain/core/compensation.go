package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Validate returns ErrNegativeCompensation naming the first negative field.
func (c CompensationConfig) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"baseSalary", c.BaseSalary},
		{"mealAllowance", c.MealAllowance},
		{"transportAllowance", c.TransportAllowance},
		{"familyAllowance", c.FamilyAllowance},
		{"otherAllowances", c.OtherAllowances},
		{"monthlyBonus", c.MonthlyBonus},
		{"holidaySubsidy", c.HolidaySubsidy},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return fmt.Errorf("%s: %w", f.name, ErrNegativeCompensation)
		}
	}
	return nil
}

// Allowances sums every recurring allowance.
func (c CompensationConfig) Allowances() decimal.Decimal {
	return c.MealAllowance.Add(c.TransportAllowance).Add(c.FamilyAllowance).Add(c.OtherAllowances)
}
