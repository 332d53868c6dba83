package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decodeData(t *testing.T, out string, dst any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, dst))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"irt", "entry", "termination", "employee", "vacation", "period", "adjust", "sync-notify", "token"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	db := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, db)
	assert.Equal(t, "angopay.db", db.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("rates"))
}

func TestInvalidFormatIsCommandError(t *testing.T) {
	_, err := run(t, "--format", "xml", "irt", "150000")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestIRTCommandJSON(t *testing.T) {
	out, err := run(t, "--format", "json", "irt", "143700")
	require.NoError(t, err)

	var result struct {
		IRT     decimal.Decimal `json:"irt"`
		Bracket *struct {
			Rate decimal.Decimal `json:"rate"`
		} `json:"bracket"`
	}
	decodeData(t, out, &result)
	assert.True(t, result.IRT.Equal(decimal.NewFromInt(5681)), result.IRT.String())
	require.NotNil(t, result.Bracket)
	assert.True(t, result.Bracket.Rate.Equal(decimal.RequireFromString("0.13")))
}

func TestIRTCommandExemptText(t *testing.T) {
	out, err := run(t, "irt", "100000")
	require.NoError(t, err)
	assert.Contains(t, out, "Exempt")
}

func TestIRTCommandRejectsGarbage(t *testing.T) {
	_, err := run(t, "irt", "lots")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEntryCommand(t *testing.T) {
	path := writeFile(t, "employee.yaml", `
year: 2024
month: 6
employee:
  name: Ana Sebastião
  position: Contabilista
  hireDate: 2020-01-15
  compensation:
    baseSalary: 150000
    mealAllowance: 30000
    transportAllowance: 30000
`)
	out, err := run(t, "--format", "json", "entry", "-f", path)
	require.NoError(t, err)

	var entry struct {
		GrossSalary       decimal.Decimal `json:"grossSalary"`
		NetSalary         decimal.Decimal `json:"netSalary"`
		TotalEmployerCost decimal.Decimal `json:"totalEmployerCost"`
	}
	decodeData(t, out, &entry)
	assert.True(t, entry.GrossSalary.Equal(decimal.NewFromInt(210000)), entry.GrossSalary.String())
	assert.True(t, entry.NetSalary.Equal(decimal.NewFromInt(198019)), entry.NetSalary.String())
	assert.True(t, entry.TotalEmployerCost.Equal(decimal.NewFromInt(226800)), entry.TotalEmployerCost.String())
}

func TestEntryCommandUnknownField(t *testing.T) {
	path := writeFile(t, "employee.yaml", "year: 2024\nmonth: 6\nsalary: 10\n")
	_, err := run(t, "entry", "-f", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEntryCommandInvalidMonth(t *testing.T) {
	path := writeFile(t, "employee.yaml", "year: 2024\nmonth: 13\n")
	_, err := run(t, "entry", "-f", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestTerminationCommand(t *testing.T) {
	path := writeFile(t, "termination.yaml", `
hireDate: "2015-03-01"
terminationDate: "2024-07-01"
reason: dismissal_without_just_cause
finalBaseSalary: 200000
noticeHonored: false
unusedLeaveDays: 5
`)
	out, err := run(t, "--format", "json", "termination", "-f", path)
	require.NoError(t, err)

	var pkg struct {
		SeverancePay               decimal.Decimal `json:"severancePay"`
		ProportionalLeave          decimal.Decimal `json:"proportionalLeave"`
		Proportional13th           decimal.Decimal `json:"proportional13th"`
		ProportionalHolidaySubsidy decimal.Decimal `json:"proportionalHolidaySubsidy"`
		NoticeCompensation         decimal.Decimal `json:"noticeCompensation"`
		UnusedLeaveCompensation    decimal.Decimal `json:"unusedLeaveCompensation"`
		TotalPackage               decimal.Decimal `json:"totalPackage"`
	}
	decodeData(t, out, &pkg)
	assert.True(t, pkg.SeverancePay.IsPositive())
	assert.True(t, pkg.NoticeCompensation.IsPositive())
	sum := pkg.SeverancePay.Add(pkg.ProportionalLeave).Add(pkg.Proportional13th).
		Add(pkg.ProportionalHolidaySubsidy).Add(pkg.NoticeCompensation).Add(pkg.UnusedLeaveCompensation)
	assert.True(t, sum.Equal(pkg.TotalPackage), "total %s, sum %s", pkg.TotalPackage, sum)
}

func TestTerminationCommandUnknownReason(t *testing.T) {
	path := writeFile(t, "termination.yaml", `
hireDate: "2015-03-01"
terminationDate: "2024-07-01"
reason: vanished
finalBaseSalary: 200000
`)
	_, err := run(t, "termination", "-f", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestPayrollLifecycleAgainstSQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "angopay.db")
	roster := writeFile(t, "roster.yaml", `
employees:
  - code: EMP-001
    name: Ana Sebastião
    position: Contabilista
    department: Finanças
    hireDate: "2020-01-15"
    compensation:
      baseSalary: 150000
      mealAllowance: 30000
      transportAllowance: 30000
`)

	out, err := run(t, "--db", db, "--format", "json", "employee", "add", "-f", roster)
	require.NoError(t, err, out)
	var employees []struct {
		ID string `json:"id"`
	}
	decodeData(t, out, &employees)
	require.Len(t, employees, 1)

	out, err = run(t, "--db", db, "--format", "json", "period", "create", "--year", "2024", "--month", "6")
	require.NoError(t, err, out)
	var period struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, out, &period)
	require.NotEmpty(t, period.ID)

	_, err = run(t, "--db", db, "period", "pay", period.ID)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	for _, step := range []string{"regenerate", "calculate", "approve", "pay"} {
		out, err = run(t, "--db", db, "--actor", "manager-1", "period", step, period.ID)
		require.NoError(t, err, "%s: %s", step, out)
	}

	out, err = run(t, "--db", db, "--format", "json", "period", "show", period.ID)
	require.NoError(t, err, out)
	var view struct {
		Period struct {
			Status     string `json:"status"`
			ApprovedBy string `json:"approvedBy"`
			Totals     struct {
				Net decimal.Decimal `json:"net"`
			} `json:"totals"`
		} `json:"period"`
		Entries []struct {
			Status string `json:"status"`
		} `json:"entries"`
	}
	decodeData(t, out, &view)
	assert.Equal(t, "paid", view.Period.Status)
	assert.Equal(t, "manager-1", view.Period.ApprovedBy)
	assert.True(t, view.Period.Totals.Net.Equal(decimal.NewFromInt(198019)), view.Period.Totals.Net.String())
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "paid", view.Entries[0].Status)

	out, err = run(t, "--db", db, "--format", "json", "period", "show", "--status", "paid")
	require.NoError(t, err, out)
	var listed []struct {
		ID string `json:"id"`
	}
	decodeData(t, out, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, period.ID, listed[0].ID)

	out, err = run(t, "--db", db, "--format", "json", "period", "show", "--status", "draft")
	require.NoError(t, err, out)
	listed = nil
	decodeData(t, out, &listed)
	assert.Empty(t, listed)

	_, err = run(t, "--db", db, "period", "show", "--status", "finalized")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	pdf := filepath.Join(t.TempDir(), "slip.pdf")
	_, err = run(t, "--db", db, "period", "payslip", period.ID, employees[0].ID, "-o", pdf)
	require.NoError(t, err)
	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = run(t, "--db", db, "period", "regenerate", period.ID)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestAdjustmentFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "angopay.db")
	roster := writeFile(t, "roster.yaml", `
employees:
  - code: EMP-002
    name: Paulo Neto
    position: Técnico
    hireDate: "2021-05-01"
    compensation:
      baseSalary: 200000
`)
	out, err := run(t, "--db", db, "--format", "json", "employee", "add", "-f", roster)
	require.NoError(t, err, out)
	var employees []struct {
		ID string `json:"id"`
	}
	decodeData(t, out, &employees)
	require.Len(t, employees, 1)

	out, err = run(t, "--db", db, "--format", "json", "adjust", "request",
		"--employee", employees[0].ID, "--new-salary", "220000", "--reason", "annual raise")
	require.NoError(t, err, out)
	var adj struct {
		ID            string          `json:"id"`
		Status        string          `json:"status"`
		ChangePercent decimal.Decimal `json:"changePercent"`
	}
	decodeData(t, out, &adj)
	assert.Equal(t, "pending", adj.Status)
	assert.True(t, adj.ChangePercent.Equal(decimal.NewFromInt(10)), adj.ChangePercent.String())

	out, err = run(t, "--db", db, "--format", "json", "adjust", "approve", adj.ID)
	require.NoError(t, err, out)

	_, err = run(t, "--db", db, "adjust", "reject", adj.ID, "--reason", "too late")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, err = run(t, "--db", db, "--format", "json", "employee", "list")
	require.NoError(t, err, out)
	var listed []struct {
		Compensation struct {
			BaseSalary decimal.Decimal `json:"baseSalary"`
		} `json:"compensation"`
	}
	decodeData(t, out, &listed)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Compensation.BaseSalary.Equal(decimal.NewFromInt(220000)))
}

func TestSyncNotifyRecordsRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "angopay.db")
	_, err := run(t, "--db", db, "period", "create", "--year", "2024", "--month", "3")
	require.NoError(t, err)

	out, err := run(t, "--db", db, "--format", "json", "sync-notify")
	require.NoError(t, err, out)
	var result struct {
		Periods int `json:"periods"`
	}
	decodeData(t, out, &result)
	assert.Equal(t, 1, result.Periods)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
