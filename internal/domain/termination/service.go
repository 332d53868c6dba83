package termination

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"angopay/internal/domain/core"
	"angopay/internal/domain/payroll"
)

const (
	AuditActionFinalize = "termination.finalize"
	AuditEntity         = "termination"
)

type Service struct {
	store     StoreAPI
	employees EmployeeStore
	calc      *payroll.Calculator
	audit     AuditRecorder
	tx        TransactionManager
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Service)

func WithTransactionManager(tx TransactionManager) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

func WithAudit(recorder AuditRecorder) Option {
	return func(s *Service) { s.audit = recorder }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(store StoreAPI, employees EmployeeStore, calc *payroll.Calculator, opts ...Option) *Service {
	if calc == nil {
		calc = payroll.DefaultCalculator()
	}
	s := &Service{
		store:     store,
		employees: employees,
		calc:      calc,
		tx:        noopTransactionManager{},
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request is a termination of a stored employee. FinalBaseSalary defaults to the
// employee's current base salary.
type Request struct {
	EmployeeID      string           `json:"employeeId" yaml:"employeeId"`
	TerminationDate time.Time        `json:"terminationDate" yaml:"terminationDate"`
	Reason          Reason           `json:"reason" yaml:"reason"`
	NoticeHonored   bool             `json:"noticeHonored" yaml:"noticeHonored"`
	UnusedLeaveDays decimal.Decimal  `json:"unusedLeaveDays" yaml:"unusedLeaveDays"`
	FinalBaseSalary *decimal.Decimal `json:"finalBaseSalary,omitempty" yaml:"finalBaseSalary,omitempty"`
}

// Compute quotes the package without changing anything.
func (s *Service) Compute(ctx context.Context, req Request) (*Package, error) {
	emp, err := s.employees.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	pkg, err := Calculate(s.calc, s.input(emp, req))
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Finalize persists the termination record and marks the employee terminated.
func (s *Service) Finalize(ctx context.Context, req Request, actor string) (*Record, error) {
	var rec *Record
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		emp, err := s.employees.GetEmployee(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if emp.Status == core.StatusTerminated {
			return &payroll.StateTransitionError{Entity: "employee " + emp.ID, From: emp.Status, Action: "terminate"}
		}
		in := s.input(emp, req)
		pkg, err := Calculate(s.calc, in)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		rec = &Record{
			ID:              uuid.NewString(),
			EmployeeID:      emp.ID,
			EmployeeName:    emp.Name,
			TerminationDate: in.TerminationDate.UTC(),
			Reason:          in.Reason,
			NoticeHonored:   in.NoticeHonored,
			UnusedLeaveDays: in.UnusedLeaveDays,
			FinalBaseSalary: in.FinalBaseSalary,
			Package:         pkg,
			CreatedBy:       actor,
			CreatedAt:       now,
		}
		if err := s.store.CreateRecord(ctx, rec); err != nil {
			return err
		}

		before := emp.Status
		end := rec.TerminationDate
		emp.Status = core.StatusTerminated
		emp.EndDate = &end
		emp.UpdatedAt = now
		if err := s.employees.UpdateEmployee(ctx, emp); err != nil {
			return fmt.Errorf("mark employee terminated: %w", err)
		}
		s.record(ctx, actor, rec.ID, map[string]string{"status": before}, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("termination finalized", "employeeId", rec.EmployeeID, "total", rec.Package.TotalPackage.String())
	return rec, nil
}

func (s *Service) ListRecords(ctx context.Context, employeeID string) ([]Record, error) {
	return s.store.ListRecords(ctx, employeeID)
}

func (s *Service) input(emp *core.Employee, req Request) Input {
	base := emp.Compensation.BaseSalary
	if req.FinalBaseSalary != nil {
		base = *req.FinalBaseSalary
	}
	return Input{
		HireDate:        emp.HireDate,
		TerminationDate: req.TerminationDate,
		Reason:          req.Reason,
		FinalBaseSalary: base,
		NoticeHonored:   req.NoticeHonored,
		UnusedLeaveDays: req.UnusedLeaveDays,
	}
}

func (s *Service) record(ctx context.Context, actor, entityID string, before, after any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, actor, AuditActionFinalize, AuditEntity, entityID, before, after); err != nil {
		s.logger.Warn("audit record failed", "action", AuditActionFinalize, "entityId", entityID, "err", err)
	}
}
