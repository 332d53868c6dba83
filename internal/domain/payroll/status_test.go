package payroll

import "testing"

func TestStatusTransitions(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusDraft, StatusCalculated}:    true,
		{StatusCalculated, StatusApproved}: true,
		{StatusApproved, StatusPaid}:       true,
	}
	all := []Status{StatusDraft, StatusCalculated, StatusApproved, StatusPaid}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := from.CanTransition(to); got != want {
				t.Fatalf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestStatusEditable(t *testing.T) {
	if !StatusDraft.Editable() || !StatusCalculated.Editable() {
		t.Fatal("draft and calculated must be editable")
	}
	if StatusApproved.Editable() || StatusPaid.Editable() {
		t.Fatal("approved and paid must not be editable")
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("approved"); err != nil || s != StatusApproved {
		t.Fatalf("unexpected parse result %q %v", s, err)
	}
	if _, err := ParseStatus("finalized"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestFilterPeriods(t *testing.T) {
	periods := []Period{
		{ID: "a", Status: StatusDraft},
		{ID: "b", Status: StatusPaid},
		{ID: "c", Status: StatusDraft},
	}
	if got := FilterPeriods(periods, ""); len(got) != 3 {
		t.Fatalf("expected all periods, got %d", len(got))
	}
	got := FilterPeriods(periods, StatusDraft)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected draft periods %+v", got)
	}
	if got := FilterPeriods(periods, StatusApproved); len(got) != 0 {
		t.Fatalf("expected no approved periods, got %+v", got)
	}
}
