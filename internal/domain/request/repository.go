package request

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Create stores a new request as given; id and timestamps are assigned by the caller.
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	// ListByEmployee returns the employee's requests, most recent first.
	ListByEmployee(ctx context.Context, employeeID string, filter ListFilter) ([]Request, error)
	// Resolve performs the single transition out of pending as one conditional
	// write. It returns ErrAlreadyResolved when the stored status is no longer
	// pending and ErrRequestNotFound when the request does not exist.
	Resolve(ctx context.Context, res Resolution) (Request, error)

	// SumApprovedAdvances totals approved salary advances targeted at (employee, period).
	SumApprovedAdvances(ctx context.Context, employeeID string, p period.Period) (decimal.Decimal, error)
	// SumLossOfPay totals the loss of pay recorded on resolved leave requests
	// starting in (employee, period).
	SumLossOfPay(ctx context.Context, employeeID string, p period.Period) (decimal.Decimal, error)
}
