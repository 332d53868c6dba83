package payroll

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"angopay/internal/domain/core"
)

func TestQuoteWorkedExample(t *testing.T) {
	q, err := DefaultCalculator().Quote(core.CompensationConfig{
		BaseSalary:         d(150000),
		MealAllowance:      d(30000),
		TransportAllowance: d(30000),
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	expectAmount(t, "gross", q.Gross, d(210000))
	expectAmount(t, "inss employee", q.INSSEmployee, d(6300))
	expectAmount(t, "inss employer", q.INSSEmployer, d(16800))
	expectAmount(t, "irt taxable gross", q.IRTTaxableGross, d(150000))
	expectAmount(t, "taxable income", q.TaxableIncome, d(143700))
	expectAmount(t, "irt", q.IRT, d(5681))
	expectAmount(t, "net", q.Net, d(198019))
	expectAmount(t, "employer cost", q.EmployerCost, d(226800))
	if q.Bracket == nil {
		t.Fatal("expected bracket for taxed income")
	}
}

func TestQuoteIRTExempt(t *testing.T) {
	tax, bracket, err := DefaultCalculator().QuoteIRT(d(100000))
	if err != nil {
		t.Fatalf("quote irt: %v", err)
	}
	if !tax.IsZero() || bracket != nil {
		t.Fatalf("expected exemption, got %s %+v", tax, bracket)
	}
}

func TestQuoteRejectsNegativeCompensation(t *testing.T) {
	_, err := DefaultCalculator().Quote(core.CompensationConfig{BaseSalary: d(-1)})
	if !errors.Is(err, ErrConfiguration) || !errors.Is(err, core.ErrNegativeCompensation) {
		t.Fatalf("expected configuration error wrapping negative compensation, got %v", err)
	}
}

func TestQuoteMatchesEntryForFractionalConfig(t *testing.T) {
	emp := testEmployee()
	emp.Compensation = core.CompensationConfig{
		BaseSalary:         decimal.RequireFromString("150000.50"),
		MealAllowance:      decimal.RequireFromString("30000.40"),
		TransportAllowance: decimal.RequireFromString("30000.60"),
		MonthlyBonus:       decimal.RequireFromString("1000.50"),
	}
	calc := DefaultCalculator()
	q, err := calc.Quote(emp.Compensation)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	entry, err := BuildEntry(calc, EntryContext{
		Period:   Period{ID: "p-1", Year: 2024, Month: time.March, Status: StatusDraft},
		Employee: emp,
	})
	if err != nil {
		t.Fatalf("build entry: %v", err)
	}
	expectAmount(t, "gross", q.Gross, entry.GrossSalary)
	expectAmount(t, "inss employee", q.INSSEmployee, entry.Deductions.INSSEmployee)
	expectAmount(t, "irt", q.IRT, entry.Deductions.IRT)
	expectAmount(t, "net", q.Net, entry.NetSalary)
	expectAmount(t, "employer cost", q.EmployerCost, entry.TotalEmployerCost)
	if !q.Gross.Equal(q.Gross.Round(0)) {
		t.Fatalf("quote gross %s is not whole kwanzas", q.Gross)
	}
}
