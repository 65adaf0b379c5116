package loan

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/shopspring/decimal"
)

// ScheduleRepository persists repayment schedules.
type ScheduleRepository interface {
	// ClaimSchedule atomically marks the loan's schedule as built. It returns
	// ErrAlreadyBuilt when the marker is already set and ErrLoanNotFound when
	// the loan does not exist.
	ClaimSchedule(ctx context.Context, loanID string) error
	CreateEntries(ctx context.Context, entries []ScheduleEntry) error
	ListByLoan(ctx context.Context, loanID string) ([]ScheduleEntry, error)
	// SumDue returns the total installments due for (employee, period).
	SumDue(ctx context.Context, employeeID string, p period.Period) (decimal.Decimal, error)
	// MarkDeductedThrough flags every entry up to and including through as
	// deducted and returns the number of entries changed.
	MarkDeductedThrough(ctx context.Context, through period.Period) (int64, error)
}
