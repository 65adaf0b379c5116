package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type loanServiceImpl struct {
	tx        database.Transactor
	requests  request.Repository
	schedules loan.ScheduleRepository
	periods   *period.Resolver
}

func NewLoanService(tx database.Transactor, requests request.Repository, schedules loan.ScheduleRepository, periods *period.Resolver) loan.Service {
	return &loanServiceImpl{
		tx:        tx,
		requests:  requests,
		schedules: schedules,
		periods:   periods,
	}
}

func (s *loanServiceImpl) getLoan(ctx context.Context, loanID string) (loan.Loan, error) {
	req, err := s.requests.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, request.ErrRequestNotFound) {
			return loan.Loan{}, loan.ErrLoanNotFound
		}
		return loan.Loan{}, fmt.Errorf("failed to get loan request: %w", err)
	}
	l, ok := req.LoanView()
	if !ok {
		return loan.Loan{}, loan.ErrLoanNotFound
	}
	return l, nil
}

// BuildSchedule implements loan.Service.
func (s *loanServiceImpl) BuildSchedule(ctx context.Context, loanID string) ([]loan.ScheduleEntry, error) {
	var entries []loan.ScheduleEntry

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		l, err := s.getLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if !l.Approved || l.ApprovedAt == nil {
			return loan.ErrNotApproved
		}
		if l.ScheduleBuilt {
			return loan.ErrAlreadyBuilt
		}
		if err := l.Terms.Validate(); err != nil {
			return err
		}

		if err := s.schedules.ClaimSchedule(ctx, l.ID); err != nil {
			return err
		}

		start := s.periods.Of(*l.ApprovedAt).Next()
		entries = loan.BuildSchedule(l.ID, l.EmployeeID, l.Terms, start)
		if err := s.schedules.CreateEntries(ctx, entries); err != nil {
			return fmt.Errorf("failed to store repayment schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("loan schedule built",
		"loan_id", loanID,
		"installments", len(entries),
		"first_period", entries[0].Period.String(),
	)
	return entries, nil
}

// GetSchedule implements loan.Service.
func (s *loanServiceImpl) GetSchedule(ctx context.Context, actor user.Actor, loanID string) (loan.Summary, error) {
	l, err := s.getLoan(ctx, loanID)
	if err != nil {
		return loan.Summary{}, err
	}
	if err := actor.RequireAccess(l.EmployeeID); err != nil {
		return loan.Summary{}, err
	}

	entries, err := s.schedules.ListByLoan(ctx, l.ID)
	if err != nil {
		return loan.Summary{}, fmt.Errorf("failed to list repayment schedule: %w", err)
	}
	return loan.Summarize(l, entries), nil
}

// AdvanceSchedules implements loan.Service.
func (s *loanServiceImpl) AdvanceSchedules(ctx context.Context, through period.Period) (int64, error) {
	n, err := s.schedules.MarkDeductedThrough(ctx, through)
	if err != nil {
		return 0, fmt.Errorf("failed to advance loan schedules: %w", err)
	}
	slog.Info("loan schedules advanced", "through", through.String(), "entries", n)
	return n, nil
}
