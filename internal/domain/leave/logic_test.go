package leave

import (
	"errors"
	"testing"
	"time"
)

func TestCalculateDays(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	days, err := CalculateDays(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day, got %v", days)
	}

	end = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	days, err = CalculateDays(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 22 {
		t.Fatalf("expected 22 days, got %v", days)
	}
}

func TestCalculateDaysInvalid(t *testing.T) {
	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC)

	if _, err := CalculateDays(start, end); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestNextMonthWrapsYear(t *testing.T) {
	year, month := NextMonth(2024, time.December)
	if year != 2025 || month != time.January {
		t.Fatalf("expected 2025-01, got %d-%s", year, month)
	}
}

func TestSubsidyDue(t *testing.T) {
	schedule := VacationSchedule{StartDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)}

	if !SubsidyDue(schedule, 2024, time.December) {
		t.Fatal("expected subsidy due in December for January vacation")
	}
	if SubsidyDue(schedule, 2025, time.January) {
		t.Fatal("subsidy must not be due in the vacation month itself")
	}

	schedule.SubsidyPaid = true
	if SubsidyDue(schedule, 2024, time.December) {
		t.Fatal("paid subsidy must not be due again")
	}
}
