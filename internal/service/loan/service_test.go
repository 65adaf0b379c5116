package loan

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approvedAt = time.Date(2025, time.January, 20, 14, 0, 0, 0, time.UTC)

func newService(t *testing.T) (loan.Service, request.Repository) {
	t.Helper()
	store := memory.NewStore()
	requests := memory.NewRequestRepository(store)
	periods := period.NewResolver(func() time.Time { return approvedAt }, time.UTC)
	svc := NewLoanService(memory.NewTransactor(store), requests, memory.NewLoanScheduleRepository(store), periods)
	return svc, requests
}

func createLoan(t *testing.T, repo request.Repository, id string, status request.Status, amount string, tenure int) {
	t.Helper()
	terms, err := loan.Derive(decimal.RequireFromString(amount), nil, &tenure)
	require.NoError(t, err)

	req := request.Request{
		ID:          id,
		EmployeeID:  "emp-1",
		RequesterID: "emp-1",
		Kind:        request.KindLoan,
		Status:      status,
		RequestedAt: approvedAt.Add(-time.Hour),
		Loan:        &request.Loan{Amount: terms.Amount, EMI: terms.EMI, Tenure: terms.Tenure},
	}
	if status != request.StatusPending {
		by := "hr-1"
		at := approvedAt
		req.RespondedBy = &by
		req.RespondedAt = &at
	}
	_, err = repo.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestBuildSchedule_Guards(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.BuildSchedule(ctx, "missing")
	assert.ErrorIs(t, err, loan.ErrLoanNotFound)

	createLoan(t, repo, "pending", request.StatusPending, "1200", 4)
	_, err = svc.BuildSchedule(ctx, "pending")
	assert.ErrorIs(t, err, loan.ErrNotApproved)

	createLoan(t, repo, "rejected", request.StatusRejected, "1200", 4)
	_, err = svc.BuildSchedule(ctx, "rejected")
	assert.ErrorIs(t, err, loan.ErrNotApproved)

	_, err = repo.Create(ctx, request.Request{
		ID: "advance", EmployeeID: "emp-1", Kind: request.KindSalaryAdvance, Status: request.StatusApproved,
		SalaryAdvance: &request.SalaryAdvance{Period: period.Period{Year: 2025, Month: time.January}, Amount: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	_, err = svc.BuildSchedule(ctx, "advance")
	assert.ErrorIs(t, err, loan.ErrLoanNotFound)
}

func TestBuildSchedule_RejectsUnboundedTerms(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	by, at := "hr-1", approvedAt
	_, err := repo.Create(ctx, request.Request{
		ID: "legacy", EmployeeID: "emp-1", RequesterID: "emp-1", Kind: request.KindLoan, Status: request.StatusApproved,
		RequestedAt: approvedAt.Add(-time.Hour), RespondedBy: &by, RespondedAt: &at,
		Loan: &request.Loan{Amount: decimal.NewFromInt(1_000_000_000), EMI: decimal.New(1, -7), Tenure: 2_000_000_000},
	})
	require.NoError(t, err)

	_, err = svc.BuildSchedule(ctx, "legacy")
	assert.ErrorIs(t, err, loan.ErrInvalidTerms)

	// nothing was written
	summary, err := svc.GetSchedule(ctx, user.Actor{EmployeeID: "md-1", Roles: []user.Role{user.RoleMD}}, "legacy")
	require.NoError(t, err)
	assert.Empty(t, summary.Entries)
}

func TestBuildSchedule_StartsAfterApproval(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	createLoan(t, repo, "loan-1", request.StatusApproved, "1200", 4)

	entries, err := svc.BuildSchedule(ctx, "loan-1")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, e := range entries {
		assert.Equal(t, period.Period{Year: 2025, Month: time.February}.AddMonths(i), e.Period)
		assert.True(t, decimal.NewFromInt(300).Equal(e.Amount))
	}

	_, err = svc.BuildSchedule(ctx, "loan-1")
	assert.ErrorIs(t, err, loan.ErrAlreadyBuilt)

	summary, err := svc.GetSchedule(ctx, user.Actor{EmployeeID: "emp-1", Roles: []user.Role{user.RoleEmployee}}, "loan-1")
	require.NoError(t, err)
	assert.Len(t, summary.Entries, 4)
}

func TestBuildSchedule_ConcurrentAtMostOnce(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	createLoan(t, repo, "loan-1", request.StatusApproved, "1000", 3)

	errs := make([]error, 8)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.BuildSchedule(ctx, "loan-1")
		}()
	}
	wg.Wait()

	built := 0
	for _, err := range errs {
		if err == nil {
			built++
			continue
		}
		assert.ErrorIs(t, err, loan.ErrAlreadyBuilt)
	}
	assert.Equal(t, 1, built)

	summary, err := svc.GetSchedule(ctx, user.Actor{EmployeeID: "md-1", Roles: []user.Role{user.RoleMD}}, "loan-1")
	require.NoError(t, err)
	require.Len(t, summary.Entries, 3)
	assert.True(t, decimal.NewFromInt(1000).Equal(loan.Total(summary.Entries)))
}

func TestGetSchedule_Forbidden(t *testing.T) {
	svc, repo := newService(t)
	createLoan(t, repo, "loan-1", request.StatusApproved, "1200", 4)

	_, err := svc.GetSchedule(context.Background(), user.Actor{EmployeeID: "emp-2", Roles: []user.Role{user.RoleEmployee}}, "loan-1")
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestAdvanceSchedules(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	createLoan(t, repo, "loan-1", request.StatusApproved, "1200", 4)
	_, err := svc.BuildSchedule(ctx, "loan-1")
	require.NoError(t, err)

	through := period.Period{Year: 2025, Month: time.March}
	n, err := svc.AdvanceSchedules(ctx, through)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = svc.AdvanceSchedules(ctx, through)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	summary, err := svc.GetSchedule(ctx, user.Actor{EmployeeID: "emp-1"}, "loan-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600).Equal(summary.Paid))
	assert.True(t, decimal.NewFromInt(600).Equal(summary.Outstanding))
}
