package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompensationConfig is the part of an employee record the payroll engine reads.
type CompensationConfig struct {
	BaseSalary         decimal.Decimal `json:"baseSalary" yaml:"baseSalary"`
	MealAllowance      decimal.Decimal `json:"mealAllowance" yaml:"mealAllowance"`
	TransportAllowance decimal.Decimal `json:"transportAllowance" yaml:"transportAllowance"`
	FamilyAllowance    decimal.Decimal `json:"familyAllowance" yaml:"familyAllowance"`
	OtherAllowances    decimal.Decimal `json:"otherAllowances" yaml:"otherAllowances"`
	MonthlyBonus       decimal.Decimal `json:"monthlyBonus" yaml:"monthlyBonus"`
	HolidaySubsidy     decimal.Decimal `json:"holidaySubsidy" yaml:"holidaySubsidy"`
	IsRetired          bool            `json:"isRetired" yaml:"isRetired"`
}

type Employee struct {
	ID           string             `json:"id"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	Position     string             `json:"position"`
	Department   string             `json:"department"`
	HireDate     time.Time          `json:"hireDate"`
	EndDate      *time.Time         `json:"endDate,omitempty"`
	Status       string             `json:"status"`
	Compensation CompensationConfig `json:"compensation"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// EmployedIn reports whether the employee is on payroll for the given month.
func (e Employee) EmployedIn(year int, month time.Month) bool {
	if e.Status != StatusActive {
		return false
	}
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	if e.HireDate.After(monthEnd) {
		return false
	}
	if e.EndDate != nil && e.EndDate.Before(monthStart) {
		return false
	}
	return true
}
