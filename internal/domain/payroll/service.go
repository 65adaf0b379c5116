package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type PayrollService interface {
	// ComputeNetSalary aggregates the sources of one employee and period. A nil
	// target resolves to the prior period.
	ComputeNetSalary(ctx context.Context, actor user.Actor, employeeID string, target *period.Period) (PayrollBreakdown, error)
	FiscalYearReport(ctx context.Context, actor user.Actor, employeeID string, startYear, endYear int) (FiscalYearReport, error)

	// Component posting, privileged and limited to open periods
	PostSalaryComponent(ctx context.Context, actor user.Actor, req PostSalaryComponentRequest) (SalaryComponent, error)
	PostCompensation(ctx context.Context, actor user.Actor, req PostCompensationRequest) (MonthlyCompensation, error)
	PostIncentive(ctx context.Context, actor user.Actor, req PostIncentiveRequest) (Incentive, error)

	// RollForward materializes from.Next() salary rows for every active employee.
	RollForward(ctx context.Context, from period.Period, opts RollForwardOptions) (RollForwardReport, error)
}
