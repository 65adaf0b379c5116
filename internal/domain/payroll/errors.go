package payroll

import "errors"

var (
	ErrSalaryComponentNotFound = errors.New("salary component not found")
	ErrCompensationNotFound    = errors.New("monthly compensation not found")
	ErrIncentiveNotFound       = errors.New("incentive not found")
	ErrPeriodClosed            = errors.New("payroll period is closed for changes")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
)
