package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"angopay/internal/domain/audit"
	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
	"angopay/internal/domain/payroll"
)

func TestWithinReadWriteRestoresOnError(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.CreateEmployee(ctx, &core.Employee{ID: "e1", Code: "A1", Name: "Ana"}))

	boom := errors.New("boom")
	err := store.WithinReadWrite(ctx, func(ctx context.Context) error {
		require.NoError(t, store.CreateEmployee(ctx, &core.Employee{ID: "e2", Code: "A2", Name: "Rui"}))
		emp, err := store.GetEmployee(ctx, "e1")
		require.NoError(t, err)
		emp.Name = "Changed"
		require.NoError(t, store.UpdateEmployee(ctx, emp))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.GetEmployee(ctx, "e2")
	assert.ErrorIs(t, err, core.ErrEmployeeNotFound)
	emp, err := store.GetEmployee(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", emp.Name)
}

func TestRollbackKeepsWritesFromOtherRequests(t *testing.T) {
	store := New()
	ctx := context.Background()
	boom := errors.New("boom")
	done := make(chan error, 1)

	err := store.WithinReadWrite(ctx, func(context.Context) error {
		go func() {
			done <- store.CreateEmployee(ctx, &core.Employee{ID: "e9", Code: "B9", Name: "Other"})
		}()
		select {
		case err := <-done:
			done <- err
		case <-time.After(50 * time.Millisecond):
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("write outside the transaction never completed")
	}
	emp, err := store.GetEmployee(ctx, "e9")
	require.NoError(t, err)
	assert.Equal(t, "Other", emp.Name)
}

func TestWithinReadWriteNested(t *testing.T) {
	store := New()
	ctx := context.Background()
	err := store.WithinReadWrite(ctx, func(ctx context.Context) error {
		return store.WithinReadWrite(ctx, func(ctx context.Context) error {
			return store.CreateEmployee(ctx, &core.Employee{ID: "e1", Code: "A1"})
		})
	})
	require.NoError(t, err)
	_, err = store.GetEmployee(ctx, "e1")
	assert.NoError(t, err)
}

func TestEmployeeCodeUnique(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.CreateEmployee(ctx, &core.Employee{ID: "e1", Code: "A1"}))
	assert.ErrorIs(t, store.CreateEmployee(ctx, &core.Employee{ID: "e2", Code: "A1"}), core.ErrEmployeeCodeExists)
}

func TestPeriodUniquePerMonth(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.CreatePeriod(ctx, &payroll.Period{ID: "p1", Year: 2024, Month: time.May}))
	assert.ErrorIs(t, store.CreatePeriod(ctx, &payroll.Period{ID: "p2", Year: 2024, Month: time.May}), payroll.ErrPeriodExists)
}

func TestReplaceEntriesSwapsWholeSet(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.CreatePeriod(ctx, &payroll.Period{ID: "p1", Year: 2024, Month: time.May}))
	require.NoError(t, store.ReplaceEntries(ctx, "p1", []payroll.Entry{{PeriodID: "p1", EmployeeID: "a"}, {PeriodID: "p1", EmployeeID: "b"}}))
	require.NoError(t, store.ReplaceEntries(ctx, "p1", []payroll.Entry{{PeriodID: "p1", EmployeeID: "c"}}))

	entries, err := store.ListEntries(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "c", entries[0].EmployeeID)

	_, err = store.GetEntry(ctx, "p1", "a")
	assert.ErrorIs(t, err, payroll.ErrEntryNotFound)
}

func TestMarkSubsidyPaidOnce(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.CreateEmployee(ctx, &core.Employee{ID: "e1", Code: "A1"}))
	start := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateSchedule(ctx, &leave.VacationSchedule{ID: "v1", EmployeeID: "e1", StartDate: start}))

	starting, err := store.ListSchedulesStarting(ctx, 2024, time.June)
	require.NoError(t, err)
	require.Len(t, starting, 1)

	require.NoError(t, store.MarkSubsidyPaid(ctx, "v1", "p1", start))
	assert.ErrorIs(t, store.MarkSubsidyPaid(ctx, "v1", "p1", start), leave.ErrSubsidyAlreadyPaid)
}

func TestListEventsNewestFirstWithPaging(t *testing.T) {
	store := New()
	ctx := context.Background()
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, store.InsertEvent(ctx, audit.Event{ID: id, EntityType: "payroll_period"}))
	}
	require.NoError(t, store.InsertEvent(ctx, audit.Event{ID: "4", EntityType: "salary_adjustment"}))

	events, err := store.ListEvents(ctx, audit.Filter{EntityType: "payroll_period"}, 2, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "3", events[0].ID)
	assert.Equal(t, "2", events[1].ID)

	events, err = store.ListEvents(ctx, audit.Filter{EntityType: "payroll_period"}, 2, 5)
	require.NoError(t, err)
	assert.Empty(t, events)
}
