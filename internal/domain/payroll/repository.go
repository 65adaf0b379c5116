package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
)

// PayrollRepository stores the per-period salary rows keyed by (employee, period).
// Upserts are last-write-wins.
type PayrollRepository interface {
	// Salary components
	GetSalaryComponent(ctx context.Context, employeeID string, p period.Period) (SalaryComponent, error)
	UpsertSalaryComponent(ctx context.Context, sc SalaryComponent) (SalaryComponent, error)
	// InsertSalaryComponentIfAbsent reports false when a row for the same
	// (employee, period) already exists; the existing row is not modified.
	InsertSalaryComponentIfAbsent(ctx context.Context, sc SalaryComponent) (bool, error)

	// Monthly compensation
	GetCompensation(ctx context.Context, employeeID string, p period.Period) (MonthlyCompensation, error)
	UpsertCompensation(ctx context.Context, mc MonthlyCompensation) (MonthlyCompensation, error)

	// Incentives
	GetIncentive(ctx context.Context, employeeID string, p period.Period) (Incentive, error)
	UpsertIncentive(ctx context.Context, in Incentive) (Incentive, error)
}
