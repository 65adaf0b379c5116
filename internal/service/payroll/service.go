package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

// reportConcurrency bounds the per-month fan-out of fiscal reports.
const reportConcurrency = 4

type PayrollServiceImpl struct {
	payrollRepo payroll.PayrollRepository
	requests    request.Repository
	schedules   loan.ScheduleRepository
	directory   employee.Directory
	periods     *period.Resolver
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	requests request.Repository,
	schedules loan.ScheduleRepository,
	directory employee.Directory,
	periods *period.Resolver,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo: payrollRepo,
		requests:    requests,
		schedules:   schedules,
		directory:   directory,
		periods:     periods,
	}
}

// ========== COMPUTATION ==========

func (s *PayrollServiceImpl) ComputeNetSalary(ctx context.Context, actor user.Actor, employeeID string, target *period.Period) (payroll.PayrollBreakdown, error) {
	if err := actor.RequireAccess(employeeID); err != nil {
		return payroll.PayrollBreakdown{}, err
	}
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return payroll.PayrollBreakdown{}, err
	}
	return s.compute(ctx, employeeID, s.periods.Target(target))
}

// compute gathers the five sources concurrently. Missing rows count as zero.
func (s *PayrollServiceImpl) compute(ctx context.Context, employeeID string, p period.Period) (payroll.PayrollBreakdown, error) {
	src := payroll.Sources{EmployeeID: employeeID, Period: p}

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Salary component
	g.Go(func() error {
		sc, err := s.payrollRepo.GetSalaryComponent(gCtx, employeeID, p)
		if errors.Is(err, payroll.ErrSalaryComponentNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get salary component: %w", err)
		}
		src.Salary = &sc
		return nil
	})

	// 2. Monthly compensation
	g.Go(func() error {
		mc, err := s.payrollRepo.GetCompensation(gCtx, employeeID, p)
		if errors.Is(err, payroll.ErrCompensationNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get monthly compensation: %w", err)
		}
		src.Compensation = &mc
		return nil
	})

	// 3. Incentive
	g.Go(func() error {
		in, err := s.payrollRepo.GetIncentive(gCtx, employeeID, p)
		if errors.Is(err, payroll.ErrIncentiveNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get incentive: %w", err)
		}
		src.Incentive = &in
		return nil
	})

	// 4. Loss of pay recorded on resolved leaves
	g.Go(func() error {
		sum, err := s.requests.SumLossOfPay(gCtx, employeeID, p)
		if err != nil {
			return fmt.Errorf("failed to sum loss of pay: %w", err)
		}
		src.LeaveLossOfPay = sum
		return nil
	})

	// 5. Loan installments due
	g.Go(func() error {
		sum, err := s.schedules.SumDue(gCtx, employeeID, p)
		if err != nil {
			return fmt.Errorf("failed to sum loan deductions: %w", err)
		}
		src.LoanDeduction = sum
		return nil
	})

	// 6. Approved salary advances
	g.Go(func() error {
		sum, err := s.requests.SumApprovedAdvances(gCtx, employeeID, p)
		if err != nil {
			return fmt.Errorf("failed to sum salary advances: %w", err)
		}
		src.AdvanceDeduction = sum
		return nil
	})

	if err := g.Wait(); err != nil {
		return payroll.PayrollBreakdown{}, err
	}
	return payroll.Compute(src), nil
}

func (s *PayrollServiceImpl) FiscalYearReport(ctx context.Context, actor user.Actor, employeeID string, startYear, endYear int) (payroll.FiscalYearReport, error) {
	if err := actor.RequireAccess(employeeID); err != nil {
		return payroll.FiscalYearReport{}, err
	}
	rg, err := s.periods.FiscalYearRange(startYear, endYear)
	if err != nil {
		return payroll.FiscalYearReport{}, err
	}
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return payroll.FiscalYearReport{}, err
	}

	periods := rg.Periods()
	months := make([]payroll.PayrollBreakdown, len(periods))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(reportConcurrency)
	for i, p := range periods {
		g.Go(func() error {
			b, err := s.compute(gCtx, employeeID, p)
			if err != nil {
				return err
			}
			months[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.FiscalYearReport{}, err
	}

	totals := payroll.PayrollBreakdown{EmployeeID: employeeID}
	for _, m := range months {
		totals = totals.Add(m)
	}

	return payroll.FiscalYearReport{
		EmployeeID: employeeID,
		StartYear:  startYear,
		EndYear:    endYear,
		Months:     months,
		Totals:     totals,
	}, nil
}

// ========== POSTING ==========

func (s *PayrollServiceImpl) authorizePosting(ctx context.Context, actor user.Actor, employeeID string, p period.Period) error {
	if err := actor.RequirePrivileged(); err != nil {
		return err
	}
	if !s.periods.IsOpen(p) {
		return payroll.ErrPeriodClosed
	}
	branch, err := s.directory.BranchOf(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("failed to get employee branch: %w", err)
	}
	if !actor.CanManageBranch(branch) {
		return user.ErrForbidden
	}
	return nil
}

func (s *PayrollServiceImpl) PostSalaryComponent(ctx context.Context, actor user.Actor, req payroll.PostSalaryComponentRequest) (payroll.SalaryComponent, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryComponent{}, err
	}
	if err := s.authorizePosting(ctx, actor, req.EmployeeID, req.Period); err != nil {
		return payroll.SalaryComponent{}, err
	}

	updatedBy := actor.EmployeeID
	sc, err := s.payrollRepo.UpsertSalaryComponent(ctx, payroll.SalaryComponent{
		EmployeeID: req.EmployeeID,
		Period:     req.Period,
		Gross:      req.Gross,
		PF:         req.PF,
		ESI:        req.ESI,
		UpdatedBy:  &updatedBy,
	})
	if err != nil {
		return payroll.SalaryComponent{}, fmt.Errorf("failed to post salary component: %w", err)
	}
	return sc, nil
}

func (s *PayrollServiceImpl) PostCompensation(ctx context.Context, actor user.Actor, req payroll.PostCompensationRequest) (payroll.MonthlyCompensation, error) {
	if err := req.Validate(); err != nil {
		return payroll.MonthlyCompensation{}, err
	}
	if err := s.authorizePosting(ctx, actor, req.EmployeeID, req.Period); err != nil {
		return payroll.MonthlyCompensation{}, err
	}

	updatedBy := actor.EmployeeID
	mc, err := s.payrollRepo.UpsertCompensation(ctx, payroll.MonthlyCompensation{
		EmployeeID:                 req.EmployeeID,
		Period:                     req.Period,
		LossOfPay:                  req.LossOfPay,
		LeaveCashback:              req.LeaveCashback,
		LastYearLeaveCashback:      req.LastYearLeaveCashback,
		AttendanceSpecialAllowance: req.AttendanceSpecialAllowance,
		OtherSpecialAllowance:      req.OtherSpecialAllowance,
		Overtime:                   req.Overtime,
		UpdatedBy:                  &updatedBy,
	})
	if err != nil {
		return payroll.MonthlyCompensation{}, fmt.Errorf("failed to post monthly compensation: %w", err)
	}
	return mc, nil
}

func (s *PayrollServiceImpl) PostIncentive(ctx context.Context, actor user.Actor, req payroll.PostIncentiveRequest) (payroll.Incentive, error) {
	if err := req.Validate(); err != nil {
		return payroll.Incentive{}, err
	}
	if err := s.authorizePosting(ctx, actor, req.EmployeeID, req.Period); err != nil {
		return payroll.Incentive{}, err
	}

	updatedBy := actor.EmployeeID
	in, err := s.payrollRepo.UpsertIncentive(ctx, payroll.Incentive{
		EmployeeID: req.EmployeeID,
		Period:     req.Period,
		Allowance:  req.Allowance,
		Increment:  req.Increment,
		Bonus:      req.Bonus,
		UpdatedBy:  &updatedBy,
	})
	if err != nil {
		return payroll.Incentive{}, fmt.Errorf("failed to post incentive: %w", err)
	}
	return in, nil
}

// ========== ROLL-FORWARD ==========

// RollForward writes the next period's salary row of every active employee.
// Rows already present in the target period, such as ones HR posted, are
// kept unless opts.Overwrite is set. An employee that fails is logged and
// counted; the run continues.
func (s *PayrollServiceImpl) RollForward(ctx context.Context, from period.Period, opts payroll.RollForwardOptions) (payroll.RollForwardReport, error) {
	report := payroll.RollForwardReport{From: from, To: from.Next()}

	employees, err := s.directory.ListActive(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list active employees: %w", err)
	}

	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		written, err := s.rollOne(ctx, emp.ID, from, opts.Overwrite)
		if err != nil {
			slog.Error("roll-forward failed for employee",
				"employee_id", emp.ID,
				"from", from.String(),
				"error", err,
			)
			report.Failed++
			report.Failures = append(report.Failures, payroll.RollForwardFailure{EmployeeID: emp.ID, Err: err})
			continue
		}
		if !written {
			report.Skipped++
			continue
		}
		report.Processed++
	}

	slog.Info("payroll roll-forward finished",
		"from", report.From.String(),
		"to", report.To.String(),
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

func (s *PayrollServiceImpl) rollOne(ctx context.Context, employeeID string, from period.Period, overwrite bool) (bool, error) {
	var current *payroll.SalaryComponent
	sc, err := s.payrollRepo.GetSalaryComponent(ctx, employeeID, from)
	switch {
	case err == nil:
		current = &sc
	case !errors.Is(err, payroll.ErrSalaryComponentNotFound):
		return false, fmt.Errorf("failed to get salary component: %w", err)
	}

	var incentive *payroll.Incentive
	in, err := s.payrollRepo.GetIncentive(ctx, employeeID, from)
	switch {
	case err == nil:
		incentive = &in
	case !errors.Is(err, payroll.ErrIncentiveNotFound):
		return false, fmt.Errorf("failed to get incentive: %w", err)
	}

	next := payroll.NextSalary(current, incentive, employeeID, from.Next())
	if overwrite {
		if _, err := s.payrollRepo.UpsertSalaryComponent(ctx, next); err != nil {
			return false, fmt.Errorf("failed to upsert salary component: %w", err)
		}
		return true, nil
	}
	inserted, err := s.payrollRepo.InsertSalaryComponentIfAbsent(ctx, next)
	if err != nil {
		return false, fmt.Errorf("failed to insert salary component: %w", err)
	}
	return inserted, nil
}

func (s *PayrollServiceImpl) requireEmployee(ctx context.Context, employeeID string) error {
	exists, err := s.directory.Exists(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to check employee: %w", err)
	}
	if !exists {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
