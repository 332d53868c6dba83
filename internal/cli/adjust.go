package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"angopay/internal/domain/adjustment"
	"angopay/internal/domain/payroll"
)

func NewAdjustCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Request and decide salary adjustments",
	}
	cmd.AddCommand(newAdjustRequestCommand(rootOpts))
	cmd.AddCommand(newAdjustDecideCommand(rootOpts, "approve"))
	cmd.AddCommand(newAdjustDecideCommand(rootOpts, "reject"))
	cmd.AddCommand(newAdjustListCommand(rootOpts))
	return cmd
}

func newAdjustRequestCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		in        adjustment.RequestInput
		kind      string
		newSalary string
		effective string
	)
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request a change to an employee's base salary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			salary, err := parseAmount("new-salary", newSalary)
			if err != nil {
				return err
			}
			in.Type = adjustment.Type(kind)
			in.NewSalary = salary
			in.RequestedBy = rootOpts.Actor
			if effective != "" {
				if in.EffectiveDate, err = parseDate("effective", effective); err != nil {
					return err
				}
			}
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			adj, err := ws.adjustments.Request(rootOpts.ctx(cmd.Context()), in)
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(adj, func(w io.Writer) {
				printAdjustment(w, *adj)
			})
		},
	}
	cmd.Flags().StringVar(&in.EmployeeID, "employee", "", "employee id")
	cmd.Flags().StringVar(&kind, "type", string(adjustment.TypeRaise), "raise|promotion|demotion|correction|annual_review")
	cmd.Flags().StringVar(&newSalary, "new-salary", "", "proposed base salary")
	cmd.Flags().StringVar(&in.NewPosition, "position", "", "new position, for promotions")
	cmd.Flags().StringVar(&in.Reason, "reason", "", "justification")
	cmd.Flags().StringVar(&effective, "effective", "", "effective date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("new-salary")
	return cmd
}

func newAdjustDecideCommand(rootOpts *RootOptions, action string) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   action + " <adjustment-id>",
		Short: "Decide a pending adjustment (" + action + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			ctx := rootOpts.ctx(cmd.Context())
			var adj *adjustment.Adjustment
			if action == "approve" {
				adj, err = ws.adjustments.Approve(ctx, args[0], rootOpts.Actor)
			} else {
				adj, err = ws.adjustments.Reject(ctx, args[0], rootOpts.Actor, reason)
			}
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(adj, func(w io.Writer) {
				printAdjustment(w, *adj)
			})
		},
	}
	if action == "reject" {
		cmd.Flags().StringVar(&reason, "reason", "", "why the adjustment is rejected")
	}
	return cmd
}

func newAdjustListCommand(rootOpts *RootOptions) *cobra.Command {
	var employeeID, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List salary adjustments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			items, err := ws.adjustments.List(rootOpts.ctx(cmd.Context()), adjustment.ListFilter{
				EmployeeID: employeeID,
				Status:     adjustment.Status(status),
			})
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(items, func(w io.Writer) {
				for _, adj := range items {
					printAdjustment(w, adj)
				}
			})
		},
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "filter by employee id")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending|approved|rejected)")
	return cmd
}

func printAdjustment(w io.Writer, adj adjustment.Adjustment) {
	fmt.Fprintf(w, "%s  %-13s %-8s %s -> %s (%s%%)  %s\n", adj.ID, adj.Type, adj.Status,
		payroll.FormatKwanza(adj.PreviousSalary), payroll.FormatKwanza(adj.NewSalary),
		adj.ChangePercent.StringFixed(2), adj.EmployeeID)
}
