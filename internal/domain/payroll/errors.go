package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPeriodNotFound      = errors.New("payroll period not found")
	ErrPeriodExists        = errors.New("payroll period already exists for that month")
	ErrEntryNotFound       = errors.New("payroll entry not found")
	ErrInvalidPeriod       = errors.New("invalid payroll period")
	ErrPeriodNotGenerated  = errors.New("payroll period has no generated entries")
	ErrUnknownOvertimeKind = errors.New("unknown overtime kind")

	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("payroll configuration error")
	// ErrStateTransition is matched by every *StateTransitionError.
	ErrStateTransition = errors.New("invalid state transition")
)

// ConfigurationError is fatal: the computation cannot proceed with the data it was given.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "payroll configuration: " + e.Field + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConfiguration, e.Err}
	}
	return []error{ErrConfiguration}
}

// StateTransitionError reports an operation refused because of the current status.
// No state is changed when it is returned.
type StateTransitionError struct {
	Entity string
	From   string
	Action string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", e.Entity, e.Action, e.From)
}

func (e *StateTransitionError) Unwrap() error {
	return ErrStateTransition
}
