package termination

import (
	"time"

	"github.com/shopspring/decimal"
)

type Reason string

const (
	ReasonWithoutJustCause    Reason = "dismissal_without_just_cause"
	ReasonCollectiveDismissal Reason = "collective_dismissal"
	ReasonMutualAgreement     Reason = "mutual_agreement"
	ReasonResignation         Reason = "resignation"
	ReasonJustCause           Reason = "dismissal_with_just_cause"
	ReasonContractExpiry      Reason = "contract_expiry"
	ReasonProbation           Reason = "probation"
	ReasonRetirement          Reason = "retirement"
)

var Reasons = []Reason{
	ReasonWithoutJustCause, ReasonCollectiveDismissal, ReasonMutualAgreement, ReasonResignation,
	ReasonJustCause, ReasonContractExpiry, ReasonProbation, ReasonRetirement,
}

// EmployerInitiated reports whether notice compensation can be owed for the reason.
func (r Reason) EmployerInitiated() bool {
	return r == ReasonWithoutJustCause || r == ReasonCollectiveDismissal
}

func (r Reason) Valid() bool {
	for _, candidate := range Reasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// Input describes one termination event.
type Input struct {
	HireDate        time.Time       `json:"hireDate" yaml:"hireDate"`
	TerminationDate time.Time       `json:"terminationDate" yaml:"terminationDate"`
	Reason          Reason          `json:"reason" yaml:"reason"`
	FinalBaseSalary decimal.Decimal `json:"finalBaseSalary" yaml:"finalBaseSalary"`
	NoticeHonored   bool            `json:"noticeHonored" yaml:"noticeHonored"`
	UnusedLeaveDays decimal.Decimal `json:"unusedLeaveDays" yaml:"unusedLeaveDays"`
}

// Package is the payout owed at termination. TotalPackage is the sum of the six amounts.
type Package struct {
	YearsOfService             decimal.Decimal `json:"yearsOfService"`
	MonthsElapsed              int             `json:"monthsElapsed"`
	SeverancePay               decimal.Decimal `json:"severancePay"`
	ProportionalLeave          decimal.Decimal `json:"proportionalLeave"`
	Proportional13th           decimal.Decimal `json:"proportional13th"`
	ProportionalHolidaySubsidy decimal.Decimal `json:"proportionalHolidaySubsidy"`
	NoticePeriodDays           int             `json:"noticePeriodDays"`
	NoticeCompensation         decimal.Decimal `json:"noticeCompensation"`
	UnusedLeaveCompensation    decimal.Decimal `json:"unusedLeaveCompensation"`
	TotalPackage               decimal.Decimal `json:"totalPackage"`
}

// Record is a finalized termination.
type Record struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employeeId"`
	EmployeeName    string          `json:"employeeName"`
	TerminationDate time.Time       `json:"terminationDate"`
	Reason          Reason          `json:"reason"`
	NoticeHonored   bool            `json:"noticeHonored"`
	UnusedLeaveDays decimal.Decimal `json:"unusedLeaveDays"`
	FinalBaseSalary decimal.Decimal `json:"finalBaseSalary"`
	Package         Package         `json:"package"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}
