package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one row of the IRT table. Tax for an income inside the bracket is
// Fixed + Rate*(income-(Min-1)). A nil Max marks the open-ended top bracket.
type Bracket struct {
	Min   decimal.Decimal  `json:"min" yaml:"min"`
	Max   *decimal.Decimal `json:"max,omitempty" yaml:"max,omitempty"`
	Rate  decimal.Decimal  `json:"rate" yaml:"rate"`
	Fixed decimal.Decimal  `json:"fixed" yaml:"fixed"`
}

// Contains matches incomes in (Min-1, Max], so fractional incomes between two
// integer bounds fall into exactly one bracket.
func (b Bracket) Contains(income decimal.Decimal) bool {
	if !income.GreaterThan(b.Min.Sub(decimal.NewFromInt(1))) {
		return false
	}
	return b.Max == nil || income.LessThanOrEqual(*b.Max)
}

func (b Bracket) Tax(income decimal.Decimal) decimal.Decimal {
	excess := income.Sub(b.Min.Sub(decimal.NewFromInt(1)))
	return b.Fixed.Add(b.Rate.Mul(excess))
}

type OvertimeRates struct {
	NormalTierHours  decimal.Decimal `json:"normalTierHours" yaml:"normalTierHours"`
	NormalFirstTier  decimal.Decimal `json:"normalFirstTier" yaml:"normalFirstTier"`
	NormalSecondTier decimal.Decimal `json:"normalSecondTier" yaml:"normalSecondTier"`
	Night            decimal.Decimal `json:"night" yaml:"night"`
	Holiday          decimal.Decimal `json:"holiday" yaml:"holiday"`
}

// RateTable holds the statutory constants for one version of the law.
type RateTable struct {
	LawReference            string          `json:"lawReference" yaml:"lawReference"`
	EffectiveFrom           string          `json:"effectiveFrom" yaml:"effectiveFrom"`
	INSSEmployeeRate        decimal.Decimal `json:"inssEmployeeRate" yaml:"inssEmployeeRate"`
	INSSEmployerRate        decimal.Decimal `json:"inssEmployerRate" yaml:"inssEmployerRate"`
	ExemptionThreshold      decimal.Decimal `json:"exemptionThreshold" yaml:"exemptionThreshold"`
	AllowanceTaxFreeCap     decimal.Decimal `json:"allowanceTaxFreeCap" yaml:"allowanceTaxFreeCap"`
	MonthlyHours            decimal.Decimal `json:"monthlyHours" yaml:"monthlyHours"`
	WorkingDays             decimal.Decimal `json:"workingDays" yaml:"workingDays"`
	HoursPerDay             decimal.Decimal `json:"hoursPerDay" yaml:"hoursPerDay"`
	MaxAbsenceDays          decimal.Decimal `json:"maxAbsenceDays" yaml:"maxAbsenceDays"`
	MaxDelayHours           decimal.Decimal `json:"maxDelayHours" yaml:"maxDelayHours"`
	ThirteenthMonthFraction decimal.Decimal `json:"thirteenthMonthFraction" yaml:"thirteenthMonthFraction"`
	Overtime                OvertimeRates   `json:"overtime" yaml:"overtime"`
	Brackets                []Bracket       `json:"brackets" yaml:"brackets"`
}

// DefaultRateTable returns the IRT Grupo A table of Lei 28/20 together with the
// INSS rates of Decreto Presidencial 227/18.
func DefaultRateTable() RateTable {
	return RateTable{
		LawReference:            "Lei 28/20; DP 227/18",
		EffectiveFrom:           "2020-09-01",
		INSSEmployeeRate:        decimal.RequireFromString("0.03"),
		INSSEmployerRate:        decimal.RequireFromString("0.08"),
		ExemptionThreshold:      decimal.NewFromInt(100000),
		AllowanceTaxFreeCap:     decimal.NewFromInt(30000),
		MonthlyHours:            decimal.NewFromInt(176),
		WorkingDays:             decimal.NewFromInt(26),
		HoursPerDay:             decimal.NewFromInt(8),
		MaxAbsenceDays:          decimal.NewFromInt(26),
		MaxDelayHours:           decimal.NewFromInt(208),
		ThirteenthMonthFraction: decimal.RequireFromString("0.5"),
		Overtime: OvertimeRates{
			NormalTierHours:  decimal.NewFromInt(30),
			NormalFirstTier:  decimal.RequireFromString("1.5"),
			NormalSecondTier: decimal.RequireFromString("1.75"),
			Night:            decimal.RequireFromString("1.75"),
			Holiday:          decimal.RequireFromString("2"),
		},
		Brackets: []Bracket{
			bracket(0, 100000, "0", 0),
			bracket(100001, 150000, "0.13", 0),
			bracket(150001, 200000, "0.16", 12500),
			bracket(200001, 300000, "0.18", 31250),
			bracket(300001, 500000, "0.19", 49250),
			bracket(500001, 1000000, "0.20", 87250),
			bracket(1000001, 1500000, "0.21", 187249),
			bracket(1500001, 2000000, "0.22", 292249),
			bracket(2000001, 2500000, "0.23", 402249),
			bracket(2500001, 5000000, "0.24", 517249),
			bracket(5000001, 10000000, "0.245", 1117249),
			{Min: decimal.NewFromInt(10000001), Rate: decimal.RequireFromString("0.25"), Fixed: decimal.NewFromInt(2342248)},
		},
	}
}

func bracket(lo, hi int64, rate string, fixed int64) Bracket {
	upper := decimal.NewFromInt(hi)
	return Bracket{
		Min:   decimal.NewFromInt(lo),
		Max:   &upper,
		Rate:  decimal.RequireFromString(rate),
		Fixed: decimal.NewFromInt(fixed),
	}
}

// Validate checks that the table is usable: positive divisors, rates within [0,1] and a
// bracket list starting at zero that is contiguous and open-ended.
func (t RateTable) Validate() error {
	one := decimal.NewFromInt(1)
	rates := []struct {
		field string
		value decimal.Decimal
	}{
		{"inssEmployeeRate", t.INSSEmployeeRate},
		{"inssEmployerRate", t.INSSEmployerRate},
		{"thirteenthMonthFraction", t.ThirteenthMonthFraction},
	}
	for _, r := range rates {
		if r.value.IsNegative() || r.value.GreaterThan(one) {
			return &ConfigurationError{Field: r.field, Reason: "must be between 0 and 1"}
		}
	}
	positive := []struct {
		field string
		value decimal.Decimal
	}{
		{"monthlyHours", t.MonthlyHours},
		{"workingDays", t.WorkingDays},
		{"hoursPerDay", t.HoursPerDay},
	}
	for _, p := range positive {
		if !p.value.IsPositive() {
			return &ConfigurationError{Field: p.field, Reason: "must be positive"}
		}
	}
	nonNeg := []struct {
		field string
		value decimal.Decimal
	}{
		{"exemptionThreshold", t.ExemptionThreshold},
		{"allowanceTaxFreeCap", t.AllowanceTaxFreeCap},
		{"maxAbsenceDays", t.MaxAbsenceDays},
		{"maxDelayHours", t.MaxDelayHours},
		{"overtime.normalTierHours", t.Overtime.NormalTierHours},
		{"overtime.normalFirstTier", t.Overtime.NormalFirstTier},
		{"overtime.normalSecondTier", t.Overtime.NormalSecondTier},
		{"overtime.night", t.Overtime.Night},
		{"overtime.holiday", t.Overtime.Holiday},
	}
	for _, n := range nonNeg {
		if n.value.IsNegative() {
			return &ConfigurationError{Field: n.field, Reason: "must not be negative"}
		}
	}
	return validateBrackets(t.Brackets)
}

func validateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return &ConfigurationError{Field: "brackets", Reason: "at least one bracket is required"}
	}
	if !brackets[0].Min.IsZero() {
		return &ConfigurationError{Field: "brackets[0].min", Reason: "first bracket must start at 0"}
	}
	one := decimal.NewFromInt(1)
	for i, b := range brackets {
		field := fmt.Sprintf("brackets[%d]", i)
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return &ConfigurationError{Field: field + ".rate", Reason: "must be between 0 and 1"}
		}
		if b.Fixed.IsNegative() {
			return &ConfigurationError{Field: field + ".fixed", Reason: "must not be negative"}
		}
		last := i == len(brackets)-1
		if b.Max == nil {
			if !last {
				return &ConfigurationError{Field: field + ".max", Reason: "only the last bracket may be open-ended"}
			}
			continue
		}
		if last {
			return &ConfigurationError{Field: field + ".max", Reason: "last bracket must be open-ended"}
		}
		if b.Max.LessThan(b.Min) {
			return &ConfigurationError{Field: field + ".max", Reason: "must not be below min"}
		}
		if !brackets[i+1].Min.Equal(b.Max.Add(one)) {
			return &ConfigurationError{Field: fmt.Sprintf("brackets[%d].min", i+1), Reason: "must follow the previous bracket without gap or overlap"}
		}
	}
	return nil
}
