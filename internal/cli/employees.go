package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
	"angopay/internal/domain/payroll"
)

type rosterFile struct {
	Employees []rosterEmployee `yaml:"employees"`
}

type rosterEmployee struct {
	Code         string                  `yaml:"code"`
	Name         string                  `yaml:"name"`
	Position     string                  `yaml:"position"`
	Department   string                  `yaml:"department"`
	HireDate     string                  `yaml:"hireDate"`
	Compensation core.CompensationConfig `yaml:"compensation"`
}

func NewEmployeeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage the employee roster",
	}
	cmd.AddCommand(newEmployeeAddCommand(rootOpts))
	cmd.AddCommand(newEmployeeListCommand(rootOpts))
	return cmd
}

func newEmployeeAddCommand(rootOpts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add the employees listed in a roster YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var roster rosterFile
			if err := readYAML(file, &roster); err != nil {
				return err
			}
			if len(roster.Employees) == 0 {
				return NewExitError(ExitCommandError, "roster lists no employees")
			}
			inputs := make([]core.CreateEmployeeInput, 0, len(roster.Employees))
			for i, e := range roster.Employees {
				hire, err := parseDate(fmt.Sprintf("employees[%d].hireDate", i), e.HireDate)
				if err != nil {
					return err
				}
				inputs = append(inputs, core.CreateEmployeeInput{
					Code:         e.Code,
					Name:         e.Name,
					Position:     e.Position,
					Department:   e.Department,
					HireDate:     hire,
					Compensation: e.Compensation,
				})
			}

			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()
			ctx := rootOpts.ctx(cmd.Context())

			var created []core.Employee
			err = ws.store.WithinReadWrite(ctx, func(ctx context.Context) error {
				for _, in := range inputs {
					emp, err := ws.core.CreateEmployee(ctx, in)
					if err != nil {
						return fmt.Errorf("%s: %w", in.Name, err)
					}
					created = append(created, *emp)
				}
				return nil
			})
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(created, func(w io.Writer) {
				for _, emp := range created {
					fmt.Fprintf(w, "added %s %s (%s)\n", emp.Code, emp.Name, emp.ID)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "roster YAML file")
	return cmd
}

func newEmployeeListCommand(rootOpts *RootOptions) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			employees, err := ws.core.ListEmployees(rootOpts.ctx(cmd.Context()), core.ListFilter{Status: status})
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(employees, func(w io.Writer) {
				for _, emp := range employees {
					fmt.Fprintf(w, "%-10s %-30s %-12s %16s  %s\n", emp.Code, emp.Name, emp.Status,
						payroll.FormatKwanza(emp.Compensation.BaseSalary), emp.ID)
				}
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (active|inactive|terminated)")
	return cmd
}

func NewVacationCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vacation",
		Short: "Schedule employee vacations",
	}

	var employeeID, start, end string
	add := &cobra.Command{
		Use:   "add",
		Short: "Schedule a vacation; the holiday subsidy is paid the month before it starts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDate("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseDate("end", end)
			if err != nil {
				return err
			}
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			schedule, err := ws.leave.ScheduleVacation(rootOpts.ctx(cmd.Context()), leave.ScheduleInput{
				EmployeeID: employeeID,
				StartDate:  startDate,
				EndDate:    endDate,
			})
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(schedule, func(w io.Writer) {
				fmt.Fprintf(w, "vacation %s scheduled: %s to %s (%.0f days)\n", schedule.ID,
					schedule.StartDate.Format(dateLayout), schedule.EndDate.Format(dateLayout), schedule.Days)
			})
		},
	}
	add.Flags().StringVar(&employeeID, "employee", "", "employee id")
	add.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	add.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	_ = add.MarkFlagRequired("employee")
	_ = add.MarkFlagRequired("start")
	_ = add.MarkFlagRequired("end")

	cmd.AddCommand(add)
	return cmd
}
