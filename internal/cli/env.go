package cli

import (
	"context"
	"errors"
	"os"

	"angopay/internal/domain/adjustment"
	"angopay/internal/domain/audit"
	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
	"angopay/internal/domain/payroll"
	"angopay/internal/domain/termination"
	"angopay/internal/platform/jobs"
	"angopay/internal/platform/logging"
	"angopay/internal/requestctx"
	"angopay/internal/store/sqlite"
)

// workspace bundles the services a command runs against one SQLite file.
type workspace struct {
	store        *sqlite.Store
	core         *core.Service
	leave        *leave.Service
	payroll      *payroll.Service
	adjustments  *adjustment.Service
	terminations *termination.Service
	audit        *audit.Service
	jobs         *jobs.Service
}

func (o *RootOptions) calculator() (*payroll.Calculator, error) {
	table, err := payroll.LoadRateTableFile(o.Rates)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load rate table", err)
	}
	calc, err := payroll.NewCalculator(table)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "rate table", err)
	}
	return calc, nil
}

func (o *RootOptions) open() (*workspace, error) {
	calc, err := o.calculator()
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(o.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}
	logger := logging.NewWithWriter(os.Stderr, "warn", "text")
	auditSvc := audit.New(store)
	leaveSvc := leave.NewService(store)
	return &workspace{
		store: store,
		core:  core.NewService(store),
		leave: leaveSvc,
		payroll: payroll.NewService(store, store, leaveSvc, calc,
			payroll.WithTransactionManager(store),
			payroll.WithAudit(auditSvc),
			payroll.WithLogger(logger),
		),
		adjustments: adjustment.NewService(store, store,
			adjustment.WithTransactionManager(store),
			adjustment.WithAudit(auditSvc),
			adjustment.WithLogger(logger),
		),
		terminations: termination.NewService(store, store, calc,
			termination.WithTransactionManager(store),
			termination.WithAudit(auditSvc),
			termination.WithLogger(logger),
		),
		audit: auditSvc,
		jobs:  jobs.New(store, 1, logger),
	}, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}

func (o *RootOptions) ctx(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return requestctx.WithActor(parent, o.Actor)
}

var ruleErrors = []error{
	payroll.ErrConfiguration,
	payroll.ErrStateTransition,
	payroll.ErrPeriodNotFound,
	payroll.ErrPeriodExists,
	payroll.ErrEntryNotFound,
	payroll.ErrInvalidPeriod,
	payroll.ErrPeriodNotGenerated,
	core.ErrEmployeeNotFound,
	core.ErrEmployeeCodeExists,
	core.ErrInvalidEmployee,
	core.ErrNegativeCompensation,
	leave.ErrEmployeeRequired,
	leave.ErrInvalidRange,
	leave.ErrOverlappingVacations,
	leave.ErrSubsidyAlreadyPaid,
	adjustment.ErrAdjustmentNotFound,
	adjustment.ErrInvalidAdjustment,
	adjustment.ErrInvalidType,
	adjustment.ErrInvalidStatus,
	adjustment.ErrRejectionReasonEmpty,
	termination.ErrInvalidInput,
	termination.ErrInvalidReason,
}

// classify attaches an exit code: refusals by the payroll rules exit with ExitFailure,
// everything else with ExitCommandError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	for _, target := range ruleErrors {
		if errors.Is(err, target) {
			return WrapExitError(ExitFailure, "rejected", err)
		}
	}
	return WrapExitError(ExitCommandError, "failed", err)
}
