package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InputIssue records a variable input that was clamped instead of rejected.
type InputIssue struct {
	Field string          `json:"field"`
	Given decimal.Decimal `json:"given"`
	Used  decimal.Decimal `json:"used"`
}

func (i InputIssue) String() string {
	return fmt.Sprintf("%s: %s clamped to %s", i.Field, i.Given, i.Used)
}

// Normalize clamps negative values to zero and absence/delay to the table maxima.
// Money amounts are rounded to whole units.
func (v VariableInputs) Normalize(table RateTable) (VariableInputs, []InputIssue) {
	var issues []InputIssue
	fix := func(field string, value, hi decimal.Decimal, bounded bool) decimal.Decimal {
		used := nonNegative(value)
		if bounded && used.GreaterThan(hi) {
			used = hi
		}
		if !used.Equal(value) {
			issues = append(issues, InputIssue{Field: field, Given: value, Used: used})
		}
		return used
	}
	out := VariableInputs{
		OvertimeHoursNormal:  fix("overtimeHoursNormal", v.OvertimeHoursNormal, decimal.Zero, false),
		OvertimeHoursNight:   fix("overtimeHoursNight", v.OvertimeHoursNight, decimal.Zero, false),
		OvertimeHoursHoliday: fix("overtimeHoursHoliday", v.OvertimeHoursHoliday, decimal.Zero, false),
		DaysAbsent:           fix("daysAbsent", v.DaysAbsent, table.MaxAbsenceDays, true),
		DelayHours:           fix("delayHours", v.DelayHours, table.MaxDelayHours, true),
		OtherDeductions:      RoundMoney(fix("otherDeductions", v.OtherDeductions, decimal.Zero, false)),
		LoanDeduction:        RoundMoney(fix("loanDeduction", v.LoanDeduction, decimal.Zero, false)),
		AdvanceDeduction:     RoundMoney(fix("advanceDeduction", v.AdvanceDeduction, decimal.Zero, false)),
	}
	return out, issues
}
