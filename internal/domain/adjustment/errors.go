package adjustment

import "errors"

var (
	ErrAdjustmentNotFound   = errors.New("salary adjustment not found")
	ErrInvalidAdjustment    = errors.New("invalid salary adjustment")
	ErrInvalidType          = errors.New("invalid adjustment type")
	ErrInvalidStatus        = errors.New("invalid adjustment status")
	ErrRejectionReasonEmpty = errors.New("rejection reason required")
)
