package core

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeCodeExists    = errors.New("employee code already exists")
	ErrInvalidEmployee       = errors.New("invalid employee")
	ErrNegativeCompensation  = errors.New("compensation amounts must not be negative")
	ErrInvalidEmployeeStatus = errors.New("invalid employee status")
)
