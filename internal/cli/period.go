package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"angopay/internal/domain/payroll"
)

func NewPeriodCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Run monthly payroll periods (draft, calculated, approved, paid)",
	}
	cmd.AddCommand(newPeriodCreateCommand(rootOpts))
	cmd.AddCommand(newPeriodRegenerateCommand(rootOpts))
	cmd.AddCommand(newPeriodTransitionCommand(rootOpts, "calculate", "Mark a generated period as calculated"))
	cmd.AddCommand(newPeriodTransitionCommand(rootOpts, "approve", "Approve a calculated period"))
	cmd.AddCommand(newPeriodTransitionCommand(rootOpts, "pay", "Mark an approved period as paid"))
	cmd.AddCommand(newPeriodShowCommand(rootOpts))
	cmd.AddCommand(newPeriodPayslipCommand(rootOpts))
	return cmd
}

func newPeriodCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var in payroll.CreatePeriodInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a draft period for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			period, err := ws.payroll.CreatePeriod(rootOpts.ctx(cmd.Context()), in)
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(period, func(w io.Writer) {
				fmt.Fprintf(w, "period %s created (%s)\n", period.Label(), period.ID)
			})
		},
	}
	cmd.Flags().IntVar(&in.Year, "year", 0, "calendar year")
	cmd.Flags().IntVar(&in.Month, "month", 0, "month (1-12)")
	cmd.Flags().BoolVar(&in.IncludeThirteenthMonth, "thirteenth", false, "pay the 13th month in this period")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newPeriodRegenerateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file    string
		discard bool
	)
	cmd := &cobra.Command{
		Use:   "regenerate <period-id>",
		Short: "Rebuild the entries of a period from the current roster",
		Long: `Rebuild one entry per employee on payroll in the period month.

Variable inputs (overtime, absences, deductions) can be supplied in a YAML file keyed by
employee id:

  inputs:
    <employee-id>:
      overtimeHoursNormal: 10
      daysAbsent: 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := payroll.RegenerateOptions{DiscardOverrides: discard}
			if file != "" {
				if err := readYAML(file, &opts); err != nil {
					return err
				}
				opts.DiscardOverrides = opts.DiscardOverrides || discard
			}
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			entries, err := ws.payroll.RegenerateEntries(rootOpts.ctx(cmd.Context()), args[0], opts)
			if err != nil {
				return classify(err)
			}
			totals, warnings := payroll.Aggregate(entries)
			return rootOpts.formatter(cmd).Success(entries, func(w io.Writer) {
				fmt.Fprintf(w, "%d entries generated, %d with warnings\n", len(entries), warnings)
				fmt.Fprintf(w, "gross %s  net %s  employer cost %s\n",
					payroll.FormatKwanza(totals.Gross), payroll.FormatKwanza(totals.Net), payroll.FormatKwanza(totals.EmployerCost))
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with variable inputs per employee")
	cmd.Flags().BoolVar(&discard, "discard-overrides", false, "drop inputs stored on existing entries")
	return cmd
}

func newPeriodTransitionCommand(rootOpts *RootOptions, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <period-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			ctx := rootOpts.ctx(cmd.Context())
			var period *payroll.Period
			switch name {
			case "calculate":
				period, err = ws.payroll.MarkCalculated(ctx, args[0])
			case "approve":
				period, err = ws.payroll.Approve(ctx, args[0], rootOpts.Actor)
			case "pay":
				period, err = ws.payroll.MarkPaid(ctx, args[0])
			}
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(period, func(w io.Writer) {
				fmt.Fprintf(w, "period %s is now %s\n", period.Label(), period.Status)
			})
		},
	}
}

type periodView struct {
	Period  *payroll.Period `json:"period"`
	Entries []payroll.Entry `json:"entries"`
}

func newPeriodShowCommand(rootOpts *RootOptions) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "show [period-id]",
		Short: "Show a period and its entries, or list all periods",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()
			ctx := rootOpts.ctx(cmd.Context())
			out := rootOpts.formatter(cmd)

			if len(args) == 0 {
				var want payroll.Status
				if status != "" {
					if want, err = payroll.ParseStatus(status); err != nil {
						return WrapExitError(ExitCommandError, "invalid --status", err)
					}
				}
				periods, err := ws.payroll.ListPeriods(ctx)
				if err != nil {
					return classify(err)
				}
				periods = payroll.FilterPeriods(periods, want)
				return out.Success(periods, func(w io.Writer) {
					for _, p := range periods {
						fmt.Fprintf(w, "%s  %-10s %3d employees  net %16s  %s\n",
							p.Label(), p.Status, p.EmployeeCount, payroll.FormatKwanza(p.Totals.Net), p.ID)
					}
				})
			}

			period, err := ws.payroll.GetPeriod(ctx, args[0])
			if err != nil {
				return classify(err)
			}
			entries, err := ws.payroll.ListEntries(ctx, period.ID)
			if err != nil {
				return classify(err)
			}
			return out.Success(periodView{Period: period, Entries: entries}, func(w io.Writer) {
				fmt.Fprintf(w, "Period %s (%s)\n", period.Label(), period.Status)
				fmt.Fprintf(w, "  gross %s  deductions %s  net %s  employer cost %s\n",
					payroll.FormatKwanza(period.Totals.Gross), payroll.FormatKwanza(period.Totals.Deductions),
					payroll.FormatKwanza(period.Totals.Net), payroll.FormatKwanza(period.Totals.EmployerCost))
				for _, e := range entries {
					fmt.Fprintf(w, "  %-30s gross %16s  IRT %14s  net %16s\n", e.EmployeeName,
						payroll.FormatKwanza(e.GrossSalary), payroll.FormatKwanza(e.Deductions.IRT), payroll.FormatKwanza(e.NetSalary))
				}
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "list only periods in this status (draft|calculated|approved|paid)")
	return cmd
}

func newPeriodPayslipCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		output  string
		company string
	)
	cmd := &cobra.Command{
		Use:   "payslip <period-id> <employee-id>",
		Short: "Write the PDF payslip of one entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			var buf bytes.Buffer
			if err := ws.payroll.WritePayslip(rootOpts.ctx(cmd.Context()), args[0], args[1], company, &buf); err != nil {
				return classify(err)
			}
			if output == "" {
				output = fmt.Sprintf("payslip-%s-%s.pdf", args[0], args[1])
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return WrapExitError(ExitCommandError, "write payslip", err)
			}
			return rootOpts.formatter(cmd).Success(map[string]any{"file": output, "bytes": buf.Len()}, func(w io.Writer) {
				fmt.Fprintf(w, "payslip written to %s\n", output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF file to write")
	cmd.Flags().StringVar(&company, "company", "Empresa", "company name printed on the payslip")
	return cmd
}
