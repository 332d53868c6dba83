package adjustment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeRaise        Type = "raise"
	TypePromotion    Type = "promotion"
	TypeDemotion     Type = "demotion"
	TypeCorrection   Type = "correction"
	TypeAnnualReview Type = "annual_review"
)

var Types = []Type{TypeRaise, TypePromotion, TypeDemotion, TypeCorrection, TypeAnnualReview}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Adjustment is a requested change to an employee's base salary. It is decided exactly once.
type Adjustment struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employeeId"`
	Type             Type            `json:"type"`
	PreviousSalary   decimal.Decimal `json:"previousSalary"`
	NewSalary        decimal.Decimal `json:"newSalary"`
	ChangeAmount     decimal.Decimal `json:"changeAmount"`
	ChangePercent    decimal.Decimal `json:"changePercent"`
	PreviousPosition string          `json:"previousPosition,omitempty"`
	NewPosition      string          `json:"newPosition,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	EffectiveDate    time.Time       `json:"effectiveDate"`
	Status           Status          `json:"status"`
	RequestedBy      string          `json:"requestedBy,omitempty"`
	ApprovedBy       string          `json:"approvedBy,omitempty"`
	RejectedBy       string          `json:"rejectedBy,omitempty"`
	RejectionReason  string          `json:"rejectionReason,omitempty"`
	DecidedAt        *time.Time      `json:"decidedAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type ListFilter struct {
	EmployeeID string
	Status     Status
}

func validType(t Type) bool {
	for _, candidate := range Types {
		if candidate == t {
			return true
		}
	}
	return false
}

func validStatus(s Status) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}
