package period

import "errors"

var (
	ErrInvalidRange  = errors.New("invalid range: start year after end year")
	ErrRangeTooWide  = errors.New("range spans too many fiscal years")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrInvalidYear   = errors.New("year must be positive")
	ErrInvalidFormat = errors.New("period must be formatted as YYYY-MM")
)
