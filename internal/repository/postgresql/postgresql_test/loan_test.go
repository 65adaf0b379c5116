package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanScheduleRepository_ClaimAndEntries(t *testing.T) {
	setup := NewTestDatabase(t)
	requests := postgresql.NewRequestRepository(setup.DB)
	schedules := postgresql.NewLoanScheduleRepository(setup.DB)
	ctx := context.Background()

	emp := setup.SeedEmployee(t, "JKT")
	now := time.Now().UTC()
	lr, err := requests.Create(ctx, request.Request{
		ID:          uuid.Must(uuid.NewV7()).String(),
		EmployeeID:  emp,
		RequesterID: emp,
		Kind:        request.KindLoan,
		Status:      request.StatusPending,
		RequestedAt: now,
		Loan:        &request.Loan{Amount: decimal.NewFromInt(1000), EMI: decimal.NewFromInt(300), Tenure: 4},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)

	require.NoError(t, schedules.ClaimSchedule(ctx, lr.ID))
	assert.ErrorIs(t, schedules.ClaimSchedule(ctx, lr.ID), loan.ErrAlreadyBuilt)
	assert.ErrorIs(t, schedules.ClaimSchedule(ctx, uuid.Must(uuid.NewV7()).String()), loan.ErrLoanNotFound)

	start := period.Period{Year: 2025, Month: time.March}
	entries := loan.BuildSchedule(lr.ID, emp, lr.Loan.Terms(), start)
	require.NoError(t, schedules.CreateEntries(ctx, entries))

	stored, err := schedules.ListByLoan(ctx, lr.ID)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, start, stored[0].Period)
	assert.True(t, decimal.NewFromInt(1000).Equal(loan.Total(stored)))

	due, err := schedules.SumDue(ctx, emp, start.AddMonths(3))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(due), "got %s", due)

	n, err := schedules.MarkDeductedThrough(ctx, start.Next())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = schedules.MarkDeductedThrough(ctx, start.Next())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
