package adjustment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"angopay/internal/domain/payroll"
)

const (
	AuditActionRequest = "adjustment.request"
	AuditActionApprove = "adjustment.approve"
	AuditActionReject  = "adjustment.reject"
	AuditEntity        = "salary_adjustment"
	AuditEntityComp    = "employee_compensation"
)

type Service struct {
	store     StoreAPI
	employees EmployeeStore
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

func NewService(store StoreAPI, employees EmployeeStore, opts ...Option) *Service {
	s := &Service{
		store:     store,
		employees: employees,
		tx:        noopTransactionManager{},
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RequestInput struct {
	EmployeeID    string          `json:"employeeId" yaml:"employeeId"`
	Type          Type            `json:"type" yaml:"type"`
	NewSalary     decimal.Decimal `json:"newSalary" yaml:"newSalary"`
	NewPosition   string          `json:"newPosition" yaml:"newPosition"`
	Reason        string          `json:"reason" yaml:"reason"`
	EffectiveDate time.Time       `json:"effectiveDate" yaml:"effectiveDate"`
	RequestedBy   string          `json:"-" yaml:"requestedBy"`
}

// Request records a pending adjustment against the employee's current salary.
func (s *Service) Request(ctx context.Context, in RequestInput) (*Adjustment, error) {
	if !validType(in.Type) {
		return nil, ErrInvalidType
	}
	if in.NewSalary.IsNegative() {
		return nil, fmt.Errorf("new salary must not be negative: %w", ErrInvalidAdjustment)
	}
	in.NewPosition = strings.TrimSpace(in.NewPosition)
	if in.Type == TypePromotion && in.NewPosition == "" {
		return nil, fmt.Errorf("promotion requires a new position: %w", ErrInvalidAdjustment)
	}
	emp, err := s.employees.GetEmployee(ctx, strings.TrimSpace(in.EmployeeID))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	previous := emp.Compensation.BaseSalary
	change := in.NewSalary.Sub(previous)
	effective := in.EffectiveDate
	if effective.IsZero() {
		effective = now
	}
	adj := &Adjustment{
		ID:               uuid.NewString(),
		EmployeeID:       emp.ID,
		Type:             in.Type,
		PreviousSalary:   previous,
		NewSalary:        in.NewSalary,
		ChangeAmount:     change,
		ChangePercent:    payroll.Percent(change, previous),
		PreviousPosition: emp.Position,
		NewPosition:      in.NewPosition,
		Reason:           strings.TrimSpace(in.Reason),
		EffectiveDate:    effective.UTC(),
		Status:           StatusPending,
		RequestedBy:      in.RequestedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreateAdjustment(ctx, adj); err != nil {
		return nil, err
	}
	s.record(ctx, in.RequestedBy, AuditActionRequest, AuditEntity, adj.ID, nil, adj)
	return adj, nil
}

// Approve applies the new salary, and the new position for promotions, to the employee.
// Nothing is written unless both the employee and the adjustment are updated.
func (s *Service) Approve(ctx context.Context, id, approver string) (*Adjustment, error) {
	var result *Adjustment
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		adj, err := s.pending(ctx, id, "approve")
		if err != nil {
			return err
		}
		emp, err := s.employees.GetEmployee(ctx, adj.EmployeeID)
		if err != nil {
			return err
		}
		before := compensationSnapshot{BaseSalary: emp.Compensation.BaseSalary, Position: emp.Position}

		now := s.now().UTC()
		emp.Compensation.BaseSalary = adj.NewSalary
		if adj.Type == TypePromotion && adj.NewPosition != "" {
			emp.Position = adj.NewPosition
		}
		emp.UpdatedAt = now
		if err := s.employees.UpdateEmployee(ctx, emp); err != nil {
			return err
		}

		adj.Status = StatusApproved
		adj.ApprovedBy = approver
		adj.DecidedAt = &now
		adj.UpdatedAt = now
		if err := s.store.UpdateAdjustment(ctx, adj); err != nil {
			return err
		}
		after := compensationSnapshot{BaseSalary: emp.Compensation.BaseSalary, Position: emp.Position}
		s.record(ctx, approver, AuditActionApprove, AuditEntityComp, emp.ID, before, after)
		result = adj
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("salary adjustment approved", "adjustmentId", id, "employeeId", result.EmployeeID)
	return result, nil
}

// Reject closes the adjustment without touching the employee.
func (s *Service) Reject(ctx context.Context, id, approver, reason string) (*Adjustment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectionReasonEmpty
	}
	var result *Adjustment
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		adj, err := s.pending(ctx, id, "reject")
		if err != nil {
			return err
		}
		now := s.now().UTC()
		adj.Status = StatusRejected
		adj.RejectedBy = approver
		adj.RejectionReason = reason
		adj.DecidedAt = &now
		adj.UpdatedAt = now
		if err := s.store.UpdateAdjustment(ctx, adj); err != nil {
			return err
		}
		s.record(ctx, approver, AuditActionReject, AuditEntity, adj.ID,
			map[string]Status{"status": StatusPending}, map[string]any{"status": StatusRejected, "reason": reason})
		result = adj
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Adjustment, error) {
	return s.store.GetAdjustment(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Adjustment, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	return s.store.ListAdjustments(ctx, filter)
}

func (s *Service) pending(ctx context.Context, id, action string) (*Adjustment, error) {
	adj, err := s.store.GetAdjustment(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj.Status != StatusPending {
		return nil, &payroll.StateTransitionError{Entity: "salary adjustment " + adj.ID, From: string(adj.Status), Action: action}
	}
	return adj, nil
}

type compensationSnapshot struct {
	BaseSalary decimal.Decimal `json:"baseSalary"`
	Position   string          `json:"position"`
}

func (s *Service) record(ctx context.Context, actor, action, entityType, entityID string, before, after any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, actor, action, entityType, entityID, before, after); err != nil {
		s.logger.Warn("audit record failed", "action", action, "entityId", entityID, "err", err)
	}
}
