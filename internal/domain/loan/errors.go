package loan

import "errors"

var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrNotApproved       = errors.New("loan is not approved")
	ErrAlreadyBuilt      = errors.New("repayment schedule already built")
	ErrInvalidTerms      = errors.New("loan requires a positive amount and exactly one of emi or tenure")
	ErrConflictingChange = errors.New("amount, tenure and emi cannot all change at once")
	ErrConflictingPair   = errors.New("tenure and emi cannot be changed together")
	ErrImmutableAmount   = errors.New("amount cannot change without a matching tenure or emi change")
)
