package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/shopspring/decimal"
)

type requestRepository struct {
	store *Store
}

func NewRequestRepository(s *Store) request.Repository {
	return &requestRepository{store: s}
}

// cloneRequest copies the payload pointees so callers never alias stored state.
func cloneRequest(r request.Request) request.Request {
	if r.Leave != nil {
		v := *r.Leave
		r.Leave = &v
	}
	if r.Permission != nil {
		v := *r.Permission
		r.Permission = &v
	}
	if r.Loan != nil {
		v := *r.Loan
		r.Loan = &v
	}
	if r.SalaryAdvance != nil {
		v := *r.SalaryAdvance
		r.SalaryAdvance = &v
	}
	return r
}

func (r *requestRepository) Create(ctx context.Context, req request.Request) (request.Request, error) {
	defer r.store.lockWrite(ctx)()

	stored := cloneRequest(req)
	r.store.requests[stored.ID] = stored
	return cloneRequest(stored), nil
}

func (r *requestRepository) GetByID(_ context.Context, id string) (request.Request, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	req, ok := r.store.requests[id]
	if !ok {
		return request.Request{}, request.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

func (r *requestRepository) ListByEmployee(_ context.Context, employeeID string, filter request.ListFilter) ([]request.Request, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []request.Request{}
	for _, req := range r.store.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if filter.Kind != nil && req.Kind != *filter.Kind {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	slices.SortFunc(out, func(a, b request.Request) int {
		if c := b.RequestedAt.Compare(a.RequestedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return out, nil
}

// Resolve checks and writes under one lock, mirroring the conditional update
// of the SQL implementation.
func (r *requestRepository) Resolve(ctx context.Context, res request.Resolution) (request.Request, error) {
	defer r.store.lockWrite(ctx)()

	req, ok := r.store.requests[res.RequestID]
	if !ok {
		return request.Request{}, request.ErrRequestNotFound
	}
	if !req.IsPending() {
		return request.Request{}, request.ErrAlreadyResolved
	}

	req = cloneRequest(req)
	respondedAt := res.RespondedAt
	respondedBy := res.RespondedBy
	req.Status = res.Status
	req.RespondedBy = &respondedBy
	req.RespondedAt = &respondedAt
	req.Remarks = res.Remarks
	if res.Leave != nil && req.Kind == request.KindLeave {
		v := *res.Leave
		req.Leave = &v
	}
	if res.Loan != nil && req.Kind == request.KindLoan {
		v := *res.Loan
		req.Loan = &v
	}
	req.UpdatedAt = time.Now()

	r.store.requests[req.ID] = req
	return cloneRequest(req), nil
}

func (r *requestRepository) SumApprovedAdvances(_ context.Context, employeeID string, p period.Period) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sum := decimal.Zero
	for _, req := range r.store.requests {
		if req.EmployeeID != employeeID || req.Kind != request.KindSalaryAdvance || req.Status != request.StatusApproved {
			continue
		}
		if req.SalaryAdvance != nil && req.SalaryAdvance.Period == p {
			sum = sum.Add(req.SalaryAdvance.Amount)
		}
	}
	return sum, nil
}

func (r *requestRepository) SumLossOfPay(_ context.Context, employeeID string, p period.Period) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sum := decimal.Zero
	for _, req := range r.store.requests {
		if req.EmployeeID != employeeID || req.Kind != request.KindLeave || req.IsPending() {
			continue
		}
		if req.Leave != nil && period.Of(req.Leave.StartDate.UTC()) == p {
			sum = sum.Add(req.Leave.LossOfPay)
		}
	}
	return sum, nil
}
