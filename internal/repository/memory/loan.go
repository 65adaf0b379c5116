package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/shopspring/decimal"
)

type loanScheduleRepository struct {
	store *Store
}

func NewLoanScheduleRepository(s *Store) loan.ScheduleRepository {
	return &loanScheduleRepository{store: s}
}

func (r *loanScheduleRepository) ClaimSchedule(ctx context.Context, loanID string) error {
	defer r.store.lockWrite(ctx)()

	req, ok := r.store.requests[loanID]
	if !ok || req.Kind != request.KindLoan {
		return loan.ErrLoanNotFound
	}
	if req.ScheduleBuiltAt != nil {
		return loan.ErrAlreadyBuilt
	}
	now := time.Now()
	req.ScheduleBuiltAt = &now
	req.UpdatedAt = now
	r.store.requests[loanID] = req
	return nil
}

func (r *loanScheduleRepository) CreateEntries(ctx context.Context, entries []loan.ScheduleEntry) error {
	defer r.store.lockWrite(ctx)()

	now := time.Now()
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		r.store.schedules[e.LoanID] = append(r.store.schedules[e.LoanID], e)
	}
	return nil
}

func (r *loanScheduleRepository) ListByLoan(_ context.Context, loanID string) ([]loan.ScheduleEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := slices.Clone(r.store.schedules[loanID])
	if out == nil {
		out = []loan.ScheduleEntry{}
	}
	slices.SortFunc(out, func(a, b loan.ScheduleEntry) int {
		return a.Installment - b.Installment
	})
	return out, nil
}

func (r *loanScheduleRepository) SumDue(_ context.Context, employeeID string, p period.Period) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sum := decimal.Zero
	for _, entries := range r.store.schedules {
		for _, e := range entries {
			if e.EmployeeID == employeeID && e.Period == p {
				sum = sum.Add(e.Amount)
			}
		}
	}
	return sum, nil
}

func (r *loanScheduleRepository) MarkDeductedThrough(ctx context.Context, through period.Period) (int64, error) {
	defer r.store.lockWrite(ctx)()

	now := time.Now()
	var n int64
	for _, entries := range r.store.schedules {
		for i := range entries {
			if entries[i].Deducted || entries[i].Period.After(through) {
				continue
			}
			entries[i].Deducted = true
			entries[i].DeductedAt = &now
			n++
		}
	}
	return n, nil
}
