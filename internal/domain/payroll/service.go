package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
)

// Service drives payroll periods through their lifecycle and owns entry generation.
type Service struct {
	store     StoreAPI
	employees EmployeeSource
	vacations VacationSource
	calc      *Calculator
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

func NewService(store StoreAPI, employees EmployeeSource, vacations VacationSource, calc *Calculator, opts ...Option) *Service {
	if calc == nil {
		calc = DefaultCalculator()
	}
	s := &Service{
		store:     store,
		employees: employees,
		vacations: vacations,
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

func (s *Service) Calculator() *Calculator {
	return s.calc
}

type CreatePeriodInput struct {
	Year                   int  `json:"year" yaml:"year"`
	Month                  int  `json:"month" yaml:"month"`
	IncludeThirteenthMonth bool `json:"includeThirteenthMonth" yaml:"includeThirteenthMonth"`
}

func (s *Service) CreatePeriod(ctx context.Context, in CreatePeriodInput) (*Period, error) {
	if in.Month < 1 || in.Month > 12 {
		return nil, fmt.Errorf("month %d: %w", in.Month, ErrInvalidPeriod)
	}
	if in.Year < 2000 || in.Year > 2100 {
		return nil, fmt.Errorf("year %d: %w", in.Year, ErrInvalidPeriod)
	}
	now := s.now().UTC()
	period := &Period{
		ID:                     uuid.NewString(),
		Year:                   in.Year,
		Month:                  time.Month(in.Month),
		Status:                 StatusDraft,
		IncludeThirteenthMonth: in.IncludeThirteenthMonth,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	period.Totals, period.EmployeeCount = Aggregate(nil)
	if err := s.store.CreatePeriod(ctx, period); err != nil {
		return nil, err
	}
	s.record(ctx, AuditActionPeriodCreate, AuditEntityPeriod, period.ID, nil, period)
	return period, nil
}

func (s *Service) GetPeriod(ctx context.Context, periodID string) (*Period, error) {
	return s.store.GetPeriod(ctx, periodID)
}

func (s *Service) ListPeriods(ctx context.Context) ([]Period, error) {
	return s.store.ListPeriods(ctx)
}

func (s *Service) ListEntries(ctx context.Context, periodID string) ([]Entry, error) {
	if _, err := s.store.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	return s.store.ListEntries(ctx, periodID)
}

func (s *Service) GetEntry(ctx context.Context, periodID, employeeID string) (*Entry, error) {
	return s.store.GetEntry(ctx, periodID, employeeID)
}

// RegenerateOptions controls how RegenerateEntries treats inputs of existing entries.
type RegenerateOptions struct {
	// Inputs replaces the variable inputs of the listed employees.
	Inputs map[string]VariableInputs `json:"inputs" yaml:"inputs"`
	// DiscardOverrides drops inputs stored on existing entries instead of carrying them over.
	DiscardOverrides bool `json:"discardOverrides" yaml:"discardOverrides"`
}

// RegenerateEntries rebuilds one entry per employee on payroll in the period month and
// replaces the period's entries with them. Inputs previously entered on an entry are kept
// unless opts supplies new ones or DiscardOverrides is set.
func (s *Service) RegenerateEntries(ctx context.Context, periodID string, opts RegenerateOptions) ([]Entry, error) {
	var entries []Entry
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		period, err := s.store.GetPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if !period.Status.Editable() {
			return &StateTransitionError{Entity: "payroll period " + period.Label(), From: string(period.Status), Action: "regenerate entries"}
		}

		prior, err := s.store.ListEntries(ctx, periodID)
		if err != nil {
			return err
		}
		priorByEmployee := make(map[string]Entry, len(prior))
		for _, e := range prior {
			priorByEmployee[e.EmployeeID] = e
		}

		employees, err := s.payrollEmployees(ctx, period.Year, period.Month)
		if err != nil {
			return err
		}
		due, err := s.subsidiesDue(ctx, period.Year, period.Month)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		entries = make([]Entry, 0, len(employees))
		for _, emp := range employees {
			inputs := VariableInputs{}
			previous, hadPrevious := priorByEmployee[emp.ID]
			if supplied, ok := opts.Inputs[emp.ID]; ok {
				inputs = supplied
			} else if hadPrevious && !opts.DiscardOverrides {
				inputs = previous.Inputs
			}
			entry, err := BuildEntry(s.calc, EntryContext{
				Period:            *period,
				Employee:          emp,
				Inputs:            inputs,
				HolidayScheduleID: due[emp.ID].ID,
			})
			if err != nil {
				return err
			}
			entry.ID = uuid.NewString()
			entry.CreatedAt = now
			if hadPrevious {
				entry.ID = previous.ID
				entry.CreatedAt = previous.CreatedAt
			}
			entry.UpdatedAt = now
			entries = append(entries, entry)
		}

		if err := s.store.ReplaceEntries(ctx, periodID, entries); err != nil {
			return err
		}
		period.GeneratedAt = &now
		period.Totals, period.EmployeeCount = Aggregate(entries)
		period.UpdatedAt = now
		if err := s.store.UpdatePeriod(ctx, period); err != nil {
			return err
		}
		s.record(ctx, AuditActionPeriodRegenerate, AuditEntityPeriod, period.ID, map[string]int{"entries": len(prior)}, period)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payroll entries regenerated", "periodId", periodID, "entries", len(entries))
	return entries, nil
}

// UpdateEntryInputs recomputes a single entry with new variable inputs and re-aggregates
// the period. The previous entry is left untouched when the computation fails.
func (s *Service) UpdateEntryInputs(ctx context.Context, periodID, employeeID string, inputs VariableInputs) (*Entry, error) {
	var updated Entry
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		period, err := s.store.GetPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if !period.Status.Editable() {
			return &StateTransitionError{Entity: "payroll period " + period.Label(), From: string(period.Status), Action: "edit entries"}
		}
		existing, err := s.store.GetEntry(ctx, periodID, employeeID)
		if err != nil {
			return err
		}
		emp, err := s.employees.GetEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		due, err := s.subsidiesDue(ctx, period.Year, period.Month)
		if err != nil {
			return err
		}
		entry, err := BuildEntry(s.calc, EntryContext{
			Period:            *period,
			Employee:          *emp,
			Inputs:            inputs,
			HolidayScheduleID: due[emp.ID].ID,
		})
		if err != nil {
			return err
		}
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		entry.UpdatedAt = s.now().UTC()
		if err := s.store.SaveEntry(ctx, &entry); err != nil {
			return err
		}
		if _, err := s.Recompute(ctx, periodID); err != nil {
			return err
		}
		s.record(ctx, AuditActionEntryUpdate, AuditEntityEntry, entry.ID, existing.Inputs, entry.Inputs)
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Recompute re-derives the period totals from its stored entries.
func (s *Service) Recompute(ctx context.Context, periodID string) (*Period, error) {
	if _, err := s.store.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries(ctx, periodID)
	if err != nil {
		return nil, err
	}
	totals, count := Aggregate(entries)
	if err := s.store.UpdatePeriodTotals(ctx, periodID, totals, count, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.store.GetPeriod(ctx, periodID)
}

// RecomputeAll refreshes every period's totals. It runs after an external sync replaced
// the underlying tables.
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	periods, err := s.store.ListPeriods(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range periods {
		if _, err := s.Recompute(ctx, p.ID); err != nil {
			return 0, fmt.Errorf("recompute %s: %w", p.Label(), err)
		}
	}
	s.logger.Info("payroll aggregates recomputed", "periods", len(periods))
	return len(periods), nil
}

// SetThirteenthMonth toggles the Christmas subsidy and regenerates existing entries so
// they reflect it.
func (s *Service) SetThirteenthMonth(ctx context.Context, periodID string, include bool) (*Period, error) {
	var result *Period
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		period, err := s.store.GetPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if !period.Status.Editable() {
			return &StateTransitionError{Entity: "payroll period " + period.Label(), From: string(period.Status), Action: "toggle thirteenth month"}
		}
		period.IncludeThirteenthMonth = include
		period.UpdatedAt = s.now().UTC()
		if err := s.store.UpdatePeriod(ctx, period); err != nil {
			return err
		}
		if period.GeneratedAt != nil {
			if _, err := s.RegenerateEntries(ctx, periodID, RegenerateOptions{}); err != nil {
				return err
			}
		}
		result, err = s.store.GetPeriod(ctx, periodID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) MarkCalculated(ctx context.Context, periodID string) (*Period, error) {
	return s.transition(ctx, periodID, StatusCalculated, "")
}

func (s *Service) Approve(ctx context.Context, periodID, approver string) (*Period, error) {
	return s.transition(ctx, periodID, StatusApproved, approver)
}

// MarkPaid closes the period, marks its entries paid and settles the holiday subsidies
// the entries carried.
func (s *Service) MarkPaid(ctx context.Context, periodID string) (*Period, error) {
	return s.transition(ctx, periodID, StatusPaid, "")
}

func (s *Service) transition(ctx context.Context, periodID string, to Status, actor string) (*Period, error) {
	var result *Period
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		period, err := s.store.GetPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if !period.Status.CanTransition(to) {
			return &StateTransitionError{Entity: "payroll period " + period.Label(), From: string(period.Status), Action: "move to " + string(to)}
		}
		if period.GeneratedAt == nil {
			return ErrPeriodNotGenerated
		}
		before := *period

		entries, err := s.store.ListEntries(ctx, periodID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		period.Totals, period.EmployeeCount = Aggregate(entries)
		period.Status = to
		period.UpdatedAt = now
		switch to {
		case StatusCalculated:
			period.CalculatedAt = &now
		case StatusApproved:
			period.ApprovedAt = &now
			period.ApprovedBy = actor
		case StatusPaid:
			period.PaidAt = &now
			for _, e := range entries {
				if e.HolidayScheduleID == "" || s.vacations == nil {
					continue
				}
				if err := s.vacations.MarkSubsidyPaid(ctx, e.HolidayScheduleID, periodID); err != nil {
					return fmt.Errorf("settle holiday subsidy for %s: %w", e.EmployeeID, err)
				}
			}
		}
		if err := s.store.SetEntriesStatus(ctx, periodID, to, now); err != nil {
			return err
		}
		if err := s.store.UpdatePeriod(ctx, period); err != nil {
			return err
		}
		s.record(ctx, AuditActionPeriodTransition, AuditEntityPeriod, period.ID,
			map[string]Status{"status": before.Status}, map[string]Status{"status": to})
		result = period
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payroll period transitioned", "periodId", periodID, "status", to)
	return result, nil
}

func (s *Service) payrollEmployees(ctx context.Context, year int, month time.Month) ([]core.Employee, error) {
	all, err := s.employees.ListEmployees(ctx, core.ListFilter{Status: core.StatusActive})
	if err != nil {
		return nil, err
	}
	out := make([]core.Employee, 0, len(all))
	for _, emp := range all {
		if emp.EmployedIn(year, month) {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code == out[j].Code {
			return out[i].ID < out[j].ID
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (s *Service) subsidiesDue(ctx context.Context, year int, month time.Month) (map[string]leave.VacationSchedule, error) {
	if s.vacations == nil {
		return map[string]leave.VacationSchedule{}, nil
	}
	return s.vacations.SubsidiesDue(ctx, year, month)
}

func (s *Service) record(ctx context.Context, action, entityType, entityID string, before, after any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, "", action, entityType, entityID, before, after); err != nil {
		s.logger.Warn("audit record failed", "action", action, "entityId", entityID, "err", err)
	}
}
