package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
)

type payrollRepository struct {
	store *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{store: s}
}

func (r *payrollRepository) GetSalaryComponent(_ context.Context, employeeID string, p period.Period) (payroll.SalaryComponent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sc, ok := r.store.salaries[rowKey{employeeID, p}]
	if !ok {
		return payroll.SalaryComponent{}, payroll.ErrSalaryComponentNotFound
	}
	return sc, nil
}

func (r *payrollRepository) UpsertSalaryComponent(ctx context.Context, sc payroll.SalaryComponent) (payroll.SalaryComponent, error) {
	defer r.store.lockWrite(ctx)()

	k := rowKey{sc.EmployeeID, sc.Period}
	now := time.Now()
	sc.CreatedAt = now
	if prev, ok := r.store.salaries[k]; ok {
		sc.CreatedAt = prev.CreatedAt
	}
	sc.UpdatedAt = now
	r.store.salaries[k] = sc
	return sc, nil
}

func (r *payrollRepository) InsertSalaryComponentIfAbsent(ctx context.Context, sc payroll.SalaryComponent) (bool, error) {
	defer r.store.lockWrite(ctx)()

	k := rowKey{sc.EmployeeID, sc.Period}
	if _, ok := r.store.salaries[k]; ok {
		return false, nil
	}
	now := time.Now()
	sc.CreatedAt = now
	sc.UpdatedAt = now
	r.store.salaries[k] = sc
	return true, nil
}

func (r *payrollRepository) GetCompensation(_ context.Context, employeeID string, p period.Period) (payroll.MonthlyCompensation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	mc, ok := r.store.compensations[rowKey{employeeID, p}]
	if !ok {
		return payroll.MonthlyCompensation{}, payroll.ErrCompensationNotFound
	}
	return mc, nil
}

func (r *payrollRepository) UpsertCompensation(ctx context.Context, mc payroll.MonthlyCompensation) (payroll.MonthlyCompensation, error) {
	defer r.store.lockWrite(ctx)()

	k := rowKey{mc.EmployeeID, mc.Period}
	now := time.Now()
	mc.CreatedAt = now
	if prev, ok := r.store.compensations[k]; ok {
		mc.CreatedAt = prev.CreatedAt
	}
	mc.UpdatedAt = now
	r.store.compensations[k] = mc
	return mc, nil
}

func (r *payrollRepository) GetIncentive(_ context.Context, employeeID string, p period.Period) (payroll.Incentive, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	in, ok := r.store.incentives[rowKey{employeeID, p}]
	if !ok {
		return payroll.Incentive{}, payroll.ErrIncentiveNotFound
	}
	return in, nil
}

func (r *payrollRepository) UpsertIncentive(ctx context.Context, in payroll.Incentive) (payroll.Incentive, error) {
	defer r.store.lockWrite(ctx)()

	k := rowKey{in.EmployeeID, in.Period}
	now := time.Now()
	in.CreatedAt = now
	if prev, ok := r.store.incentives[k]; ok {
		in.CreatedAt = prev.CreatedAt
	}
	in.UpdatedAt = now
	r.store.incentives[k] = in
	return in, nil
}
