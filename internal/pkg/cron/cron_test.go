package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var a, b atomic.Int32
	s.AddJob("a", time.Hour, func(context.Context) error { a.Add(1); return nil })
	s.AddJob("b", time.Hour, func(context.Context) error { b.Add(1); return errors.New("boom") })

	require.NoError(t, s.RunOnce(context.Background(), "a"))
	assert.EqualValues(t, 1, a.Load())
	assert.Zero(t, b.Load())

	assert.Error(t, s.RunOnce(context.Background(), ""))
	assert.EqualValues(t, 2, a.Load())
	assert.EqualValues(t, 1, b.Load())

	assert.Error(t, s.RunOnce(context.Background(), "missing"))
}

func TestScheduler_RecoversPanics(t *testing.T) {
	s := NewScheduler()
	s.AddJob("panics", time.Hour, func(context.Context) error { panic("bad") })
	assert.Error(t, s.RunOnce(context.Background(), "panics"))
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	var n atomic.Int32
	s.AddJob("tick", 5*time.Millisecond, func(context.Context) error { n.Add(1); return nil })
	s.Start()
	require.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, time.Millisecond)
	s.Stop()
}

type stubPayroll struct {
	payroll.PayrollService
	from []period.Period
	opts []payroll.RollForwardOptions
}

func (s *stubPayroll) RollForward(_ context.Context, from period.Period, opts payroll.RollForwardOptions) (payroll.RollForwardReport, error) {
	s.from = append(s.from, from)
	s.opts = append(s.opts, opts)
	return payroll.RollForwardReport{From: from, To: from.Next()}, nil
}

type stubLoans struct {
	through []period.Period
}

func (s *stubLoans) BuildSchedule(context.Context, string) ([]loan.ScheduleEntry, error) {
	return nil, nil
}

func (s *stubLoans) GetSchedule(context.Context, user.Actor, string) (loan.Summary, error) {
	return loan.Summary{}, nil
}

func (s *stubLoans) AdvanceSchedules(_ context.Context, through period.Period) (int64, error) {
	s.through = append(s.through, through)
	return 3, nil
}

func TestPayrollJobs_RollForwardOnlyOnFirstDay(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 30, 0, 0, time.UTC)
	p := &stubPayroll{}
	jobs := NewPayrollJobs(p, &stubLoans{}, period.NewResolver(func() time.Time { return now }, time.UTC))

	require.NoError(t, jobs.RollForward(context.Background()))
	assert.Equal(t, []period.Period{{Year: 2025, Month: time.February}}, p.from)
	assert.False(t, p.opts[0].Overwrite)

	// later ticks on the same day
	now = now.Add(time.Hour)
	require.NoError(t, jobs.RollForward(context.Background()))
	assert.Len(t, p.from, 1)

	now = now.AddDate(0, 0, 1)
	require.NoError(t, jobs.RollForward(context.Background()))
	assert.Len(t, p.from, 1)
}

func TestPayrollJobs_RollForwardNextMonth(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	p := &stubPayroll{}
	jobs := NewPayrollJobs(p, &stubLoans{}, period.NewResolver(func() time.Time { return now }, time.UTC))

	require.NoError(t, jobs.RollForward(context.Background()))
	now = time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, jobs.RollForward(context.Background()))

	assert.Equal(t, []period.Period{
		{Year: 2025, Month: time.February},
		{Year: 2025, Month: time.March},
	}, p.from)
}

func TestPayrollJobs_AdvanceClosedPeriods(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	l := &stubLoans{}
	jobs := NewPayrollJobs(&stubPayroll{}, l, period.NewResolver(func() time.Time { return now }, time.UTC))

	require.NoError(t, jobs.AdvanceLoanSchedules(context.Background()))
	assert.Equal(t, []period.Period{{Year: 2025, Month: time.January}}, l.through)
}
