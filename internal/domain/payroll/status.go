package payroll

import "fmt"

type Status string

const (
	StatusDraft      Status = "draft"
	StatusCalculated Status = "calculated"
	StatusApproved   Status = "approved"
	StatusPaid       Status = "paid"
)

// transitions is the complete forward-only lifecycle.
var transitions = map[Status]Status{
	StatusDraft:      StatusCalculated,
	StatusCalculated: StatusApproved,
	StatusApproved:   StatusPaid,
}

func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusDraft, StatusCalculated, StatusApproved, StatusPaid:
		return s, nil
	}
	return "", fmt.Errorf("unknown payroll status %q", raw)
}

// CanTransition reports whether to is the single successor of s.
func (s Status) CanTransition(to Status) bool {
	next, ok := transitions[s]
	return ok && next == to
}

// Editable reports whether entries may still be regenerated or edited.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusCalculated
}

// FilterPeriods keeps the periods in status. An empty status keeps all of them.
func FilterPeriods(periods []Period, status Status) []Period {
	if status == "" {
		return periods
	}
	out := make([]Period, 0, len(periods))
	for _, p := range periods {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}
