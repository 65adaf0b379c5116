package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
)

const (
	JobPayrollRollForward  = "payroll_roll_forward"
	JobLoanScheduleAdvance = "loan_schedule_advance"
)

// PayrollJobs holds the month-boundary payroll jobs.
type PayrollJobs struct {
	payrollService payroll.PayrollService
	loanService    loan.Service
	periods        *period.Resolver

	mu         sync.Mutex
	lastRolled period.Period
}

func NewPayrollJobs(payrollService payroll.PayrollService, loanService loan.Service, periods *period.Resolver) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		loanService:    loanService,
		periods:        periods,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(JobPayrollRollForward, interval, j.RollForward)
	scheduler.AddJob(JobLoanScheduleAdvance, interval, j.AdvanceLoanSchedules)
}

// RollForward carries the prior month's salary into the current month. It
// only acts on the first day of a month and once per target month; rows
// already present in the target month are never overwritten.
func (j *PayrollJobs) RollForward(ctx context.Context) error {
	if j.periods.Now().Day() != 1 {
		return nil
	}
	from := j.periods.Prior()

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastRolled == from.Next() {
		return nil
	}
	if _, err := j.payrollService.RollForward(ctx, from, payroll.RollForwardOptions{}); err != nil {
		return err
	}
	j.lastRolled = from.Next()
	return nil
}

// AdvanceLoanSchedules marks installments of closed periods as deducted.
func (j *PayrollJobs) AdvanceLoanSchedules(ctx context.Context) error {
	through := j.periods.Prior().Prev()
	n, err := j.loanService.AdvanceSchedules(ctx, through)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("loan installments marked deducted", "through", through.String(), "count", n)
	}
	return nil
}
