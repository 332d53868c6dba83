package payroll

import (
	"github.com/shopspring/decimal"

	"angopay/internal/domain/core"
)

// Quote is the payroll of a standard month with no variable inputs, thirteenth month or
// holiday subsidy.
type Quote struct {
	Gross           decimal.Decimal `json:"gross"`
	INSSBase        decimal.Decimal `json:"inssBase"`
	INSSEmployee    decimal.Decimal `json:"inssEmployee"`
	INSSEmployer    decimal.Decimal `json:"inssEmployer"`
	IRTTaxableGross decimal.Decimal `json:"irtTaxableGross"`
	TaxableIncome   decimal.Decimal `json:"taxableIncome"`
	IRT             decimal.Decimal `json:"irt"`
	Net             decimal.Decimal `json:"net"`
	EmployerCost    decimal.Decimal `json:"employerCost"`
	Bracket         *Bracket        `json:"bracket,omitempty"`
}

func (c *Calculator) Quote(cfg core.CompensationConfig) (Quote, error) {
	if err := cfg.Validate(); err != nil {
		return Quote{}, &ConfigurationError{Field: "compensation", Reason: "invalid amounts", Err: err}
	}
	e := fixedEarnings(cfg)
	q := Quote{Gross: e.Total(), INSSBase: c.INSSBase(e), IRTTaxableGross: c.IRTTaxableGross(e)}
	q.INSSEmployee = c.INSSEmployee(q.INSSBase, cfg.IsRetired)
	q.INSSEmployer = c.INSSEmployer(q.INSSBase)
	q.TaxableIncome = c.TaxableIncome(q.IRTTaxableGross, q.INSSEmployee)

	tax, bracket, err := c.QuoteIRT(q.TaxableIncome)
	if err != nil {
		return Quote{}, err
	}
	q.IRT = tax
	q.Bracket = bracket
	q.Net = q.Gross.Sub(q.INSSEmployee).Sub(q.IRT)
	q.EmployerCost = q.Gross.Add(q.INSSEmployer)
	return q, nil
}

// QuoteIRT returns the rounded tax and the bracket applied, nil when the income is exempt.
func (c *Calculator) QuoteIRT(taxableIncome decimal.Decimal) (decimal.Decimal, *Bracket, error) {
	tax, err := c.IRT(taxableIncome)
	if err != nil {
		return decimal.Zero, nil, err
	}
	if tax.IsZero() {
		return decimal.Zero, nil, nil
	}
	b, err := c.Bracket(nonNegative(taxableIncome))
	if err != nil {
		return decimal.Zero, nil, err
	}
	return RoundMoney(tax), &b, nil
}
