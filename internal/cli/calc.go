package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"angopay/internal/domain/core"
	"angopay/internal/domain/payroll"
	"angopay/internal/domain/termination"
)

func NewIRTCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "irt <taxable-income>",
		Short: "Compute the monthly IRT withholding for a taxable income",
		Example: `  angopay irt 203700
  angopay irt 85000 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taxable, err := parseAmount("taxable income", args[0])
			if err != nil {
				return err
			}
			calc, err := rootOpts.calculator()
			if err != nil {
				return err
			}
			tax, bracket, err := calc.QuoteIRT(taxable)
			if err != nil {
				return classify(err)
			}
			result := map[string]any{"taxableIncome": taxable, "irt": tax, "bracket": bracket}
			return rootOpts.formatter(cmd).Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "Taxable income: %s\n", payroll.FormatKwanza(taxable))
				if bracket == nil {
					fmt.Fprintln(w, "Exempt")
					return
				}
				fmt.Fprintf(w, "Bracket:        from %s at %s%%\n", payroll.FormatKwanza(bracket.Min), bracket.Rate.Shift(2).String())
				fmt.Fprintf(w, "IRT:            %s\n", payroll.FormatKwanza(tax))
			})
		},
	}
}

type entryFile struct {
	Year                   int                    `yaml:"year"`
	Month                  int                    `yaml:"month"`
	IncludeThirteenthMonth bool                   `yaml:"includeThirteenthMonth"`
	HolidaySubsidyDue      bool                   `yaml:"holidaySubsidyDue"`
	Employee               entryEmployee          `yaml:"employee"`
	Inputs                 payroll.VariableInputs `yaml:"inputs"`
}

type entryEmployee struct {
	Name         string                  `yaml:"name"`
	Position     string                  `yaml:"position"`
	HireDate     string                  `yaml:"hireDate"`
	Compensation core.CompensationConfig `yaml:"compensation"`
}

// NewEntryCommand computes one payroll entry from a YAML description, without touching
// the database.
func NewEntryCommand(rootOpts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Compute a single payroll entry from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in entryFile
			if err := readYAML(file, &in); err != nil {
				return err
			}
			if in.Month < 1 || in.Month > 12 {
				return classify(fmt.Errorf("month %d: %w", in.Month, payroll.ErrInvalidPeriod))
			}
			hire := time.Date(in.Year, 1, 1, 0, 0, 0, 0, time.UTC)
			if in.Employee.HireDate != "" {
				parsed, err := parseDate("employee.hireDate", in.Employee.HireDate)
				if err != nil {
					return err
				}
				hire = parsed
			}
			calc, err := rootOpts.calculator()
			if err != nil {
				return err
			}
			ec := payroll.EntryContext{
				Period: payroll.Period{Year: in.Year, Month: time.Month(in.Month), IncludeThirteenthMonth: in.IncludeThirteenthMonth},
				Employee: core.Employee{
					ID:           "cli",
					Name:         in.Employee.Name,
					Position:     in.Employee.Position,
					HireDate:     hire,
					Status:       core.StatusActive,
					Compensation: in.Employee.Compensation,
				},
				Inputs: in.Inputs,
			}
			if in.HolidaySubsidyDue {
				ec.HolidayScheduleID = "cli"
			}
			entry, err := payroll.BuildEntry(calc, ec)
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(entry, func(w io.Writer) {
				printEntry(w, entry)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "employee YAML file")
	return cmd
}

func printEntry(w io.Writer, e payroll.Entry) {
	if e.EmployeeName != "" {
		fmt.Fprintf(w, "%s (%s)\n", e.EmployeeName, e.Position)
	}
	lines := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Base salary", e.Earnings.Base},
		{"Meal allowance", e.Earnings.Meal},
		{"Transport allowance", e.Earnings.Transport},
		{"Family allowance", e.Earnings.Family},
		{"Other allowances", e.Earnings.Other},
		{"Overtime", e.Earnings.TotalOvertime()},
		{"13th month", e.Earnings.ThirteenthMonth},
		{"Holiday subsidy", e.Earnings.HolidaySubsidy},
		{"Monthly bonus", e.Earnings.MonthlyBonus},
		{"Gross salary", e.GrossSalary},
		{"INSS (3%)", e.Deductions.INSSEmployee},
		{"Taxable income", e.TaxableIncome},
		{"IRT", e.Deductions.IRT},
		{"Absences", e.Deductions.Absence},
		{"Loans and advances", e.Deductions.Loan.Add(e.Deductions.Advance)},
		{"Other deductions", e.Deductions.Other},
		{"Total deductions", e.TotalDeductions},
		{"Net salary", e.NetSalary},
		{"INSS employer (8%)", e.INSSEmployer},
		{"Employer cost", e.TotalEmployerCost},
	}
	for _, l := range lines {
		if l.amount.IsZero() && l.label != "Net salary" {
			continue
		}
		fmt.Fprintf(w, "  %-22s %16s\n", l.label, payroll.FormatKwanza(l.amount))
	}
	for _, warning := range e.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}

type terminationFile struct {
	HireDate        string             `yaml:"hireDate"`
	TerminationDate string             `yaml:"terminationDate"`
	Reason          termination.Reason `yaml:"reason"`
	FinalBaseSalary decimal.Decimal    `yaml:"finalBaseSalary"`
	NoticeHonored   bool               `yaml:"noticeHonored"`
	UnusedLeaveDays decimal.Decimal    `yaml:"unusedLeaveDays"`
}

func NewTerminationCommand(rootOpts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "termination",
		Short: "Compute a termination package from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in terminationFile
			if err := readYAML(file, &in); err != nil {
				return err
			}
			hire, err := parseDate("hireDate", in.HireDate)
			if err != nil {
				return err
			}
			end, err := parseDate("terminationDate", in.TerminationDate)
			if err != nil {
				return err
			}
			calc, err := rootOpts.calculator()
			if err != nil {
				return err
			}
			pkg, err := termination.Calculate(calc, termination.Input{
				HireDate:        hire,
				TerminationDate: end,
				Reason:          in.Reason,
				FinalBaseSalary: in.FinalBaseSalary,
				NoticeHonored:   in.NoticeHonored,
				UnusedLeaveDays: in.UnusedLeaveDays,
			})
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(pkg, func(w io.Writer) {
				printPackage(w, pkg)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "termination YAML file")
	return cmd
}

func printPackage(w io.Writer, p termination.Package) {
	fmt.Fprintf(w, "Years of service: %s (%d months this year)\n", p.YearsOfService.StringFixed(2), p.MonthsElapsed)
	fmt.Fprintf(w, "  %-28s %16s\n", "Severance", payroll.FormatKwanza(p.SeverancePay))
	fmt.Fprintf(w, "  %-28s %16s\n", "Proportional leave", payroll.FormatKwanza(p.ProportionalLeave))
	fmt.Fprintf(w, "  %-28s %16s\n", "Proportional 13th month", payroll.FormatKwanza(p.Proportional13th))
	fmt.Fprintf(w, "  %-28s %16s\n", "Proportional holiday subsidy", payroll.FormatKwanza(p.ProportionalHolidaySubsidy))
	fmt.Fprintf(w, "  %-28s %16s\n", fmt.Sprintf("Notice (%d days)", p.NoticePeriodDays), payroll.FormatKwanza(p.NoticeCompensation))
	fmt.Fprintf(w, "  %-28s %16s\n", "Unused leave", payroll.FormatKwanza(p.UnusedLeaveCompensation))
	fmt.Fprintf(w, "  %-28s %16s\n", "Total", payroll.FormatKwanza(p.TotalPackage))
}
