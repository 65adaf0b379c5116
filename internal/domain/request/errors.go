package request

import "errors"

var (
	ErrRequestNotFound    = errors.New("request not found")
	ErrAlreadyResolved    = errors.New("request already resolved")
	ErrInvalidKind        = errors.New("invalid request kind")
	ErrInvalidDecision    = errors.New("decision must be approved or rejected")
	ErrPayloadMissing     = errors.New("request payload missing for kind")
	ErrLossOfPayNotLeave  = errors.New("loss of pay can only be attached to leave requests")
	ErrLoanChangeNotLoan  = errors.New("loan change can only be attached to loan requests")
	ErrSelfResponse       = errors.New("cannot respond to your own request")
	ErrPostRequiresTarget = errors.New("employee_id is required")
	ErrInvalidClock       = errors.New("time must be formatted as HH:MM")
)
