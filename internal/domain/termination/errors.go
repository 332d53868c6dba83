package termination

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid termination input")
	ErrInvalidReason  = errors.New("invalid termination reason")
	ErrRecordNotFound = errors.New("termination record not found")
)
