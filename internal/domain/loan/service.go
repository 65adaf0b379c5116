package loan

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type Service interface {
	// BuildSchedule materializes the repayment schedule of an approved loan, at most once.
	BuildSchedule(ctx context.Context, loanID string) ([]ScheduleEntry, error)
	GetSchedule(ctx context.Context, actor user.Actor, loanID string) (Summary, error)
	// AdvanceSchedules marks every installment due up to through as deducted.
	AdvanceSchedules(ctx context.Context, through period.Period) (int64, error)
}
