package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== SALARY COMPONENTS ==========

const salaryComponentColumns = `employee_id, period_year, period_month, gross_salary, pf, esi, updated_by, created_at, updated_at`

func scanSalaryComponent(row pgx.Row) (payroll.SalaryComponent, error) {
	var sc payroll.SalaryComponent
	var month int
	err := row.Scan(
		&sc.EmployeeID, &sc.Period.Year, &month,
		&sc.Gross, &sc.PF, &sc.ESI,
		&sc.UpdatedBy, &sc.CreatedAt, &sc.UpdatedAt,
	)
	sc.Period.Month = time.Month(month)
	return sc, err
}

func (r *payrollRepository) GetSalaryComponent(ctx context.Context, employeeID string, p period.Period) (payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryComponentColumns + `
		FROM salary_components
		WHERE employee_id::text = $1 AND period_year = $2 AND period_month = $3`

	sc, err := scanSalaryComponent(q.QueryRow(ctx, query, employeeID, p.Year, int(p.Month)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryComponent{}, payroll.ErrSalaryComponentNotFound
		}
		return payroll.SalaryComponent{}, fmt.Errorf("failed to get salary component: %w", err)
	}
	return sc, nil
}

func (r *payrollRepository) UpsertSalaryComponent(ctx context.Context, in payroll.SalaryComponent) (payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_components (employee_id, period_year, period_month, gross_salary, pf, esi, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, period_year, period_month) DO UPDATE SET
			gross_salary = EXCLUDED.gross_salary,
			pf = EXCLUDED.pf,
			esi = EXCLUDED.esi,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + salaryComponentColumns

	sc, err := scanSalaryComponent(q.QueryRow(ctx, query,
		in.EmployeeID, in.Period.Year, int(in.Period.Month),
		in.Gross, in.PF, in.ESI, in.UpdatedBy,
	))
	if err != nil {
		return payroll.SalaryComponent{}, fmt.Errorf("failed to upsert salary component: %w", err)
	}
	return sc, nil
}

func (r *payrollRepository) InsertSalaryComponentIfAbsent(ctx context.Context, in payroll.SalaryComponent) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_components (employee_id, period_year, period_month, gross_salary, pf, esi, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, period_year, period_month) DO NOTHING`

	tag, err := q.Exec(ctx, query,
		in.EmployeeID, in.Period.Year, int(in.Period.Month),
		in.Gross, in.PF, in.ESI, in.UpdatedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert salary component: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ========== MONTHLY COMPENSATION ==========

const compensationColumns = `employee_id, period_year, period_month, loss_of_pay, leave_cashback, last_year_leave_cashback,
	attendance_special_allowance, other_special_allowance, overtime, updated_by, created_at, updated_at`

func scanCompensation(row pgx.Row) (payroll.MonthlyCompensation, error) {
	var mc payroll.MonthlyCompensation
	var month int
	err := row.Scan(
		&mc.EmployeeID, &mc.Period.Year, &month,
		&mc.LossOfPay, &mc.LeaveCashback, &mc.LastYearLeaveCashback,
		&mc.AttendanceSpecialAllowance, &mc.OtherSpecialAllowance, &mc.Overtime,
		&mc.UpdatedBy, &mc.CreatedAt, &mc.UpdatedAt,
	)
	mc.Period.Month = time.Month(month)
	return mc, err
}

func (r *payrollRepository) GetCompensation(ctx context.Context, employeeID string, p period.Period) (payroll.MonthlyCompensation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + compensationColumns + `
		FROM monthly_compensations
		WHERE employee_id::text = $1 AND period_year = $2 AND period_month = $3`

	mc, err := scanCompensation(q.QueryRow(ctx, query, employeeID, p.Year, int(p.Month)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.MonthlyCompensation{}, payroll.ErrCompensationNotFound
		}
		return payroll.MonthlyCompensation{}, fmt.Errorf("failed to get monthly compensation: %w", err)
	}
	return mc, nil
}

func (r *payrollRepository) UpsertCompensation(ctx context.Context, in payroll.MonthlyCompensation) (payroll.MonthlyCompensation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO monthly_compensations (
			employee_id, period_year, period_month, loss_of_pay, leave_cashback, last_year_leave_cashback,
			attendance_special_allowance, other_special_allowance, overtime, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (employee_id, period_year, period_month) DO UPDATE SET
			loss_of_pay = EXCLUDED.loss_of_pay,
			leave_cashback = EXCLUDED.leave_cashback,
			last_year_leave_cashback = EXCLUDED.last_year_leave_cashback,
			attendance_special_allowance = EXCLUDED.attendance_special_allowance,
			other_special_allowance = EXCLUDED.other_special_allowance,
			overtime = EXCLUDED.overtime,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + compensationColumns

	mc, err := scanCompensation(q.QueryRow(ctx, query,
		in.EmployeeID, in.Period.Year, int(in.Period.Month),
		in.LossOfPay, in.LeaveCashback, in.LastYearLeaveCashback,
		in.AttendanceSpecialAllowance, in.OtherSpecialAllowance, in.Overtime,
		in.UpdatedBy,
	))
	if err != nil {
		return payroll.MonthlyCompensation{}, fmt.Errorf("failed to upsert monthly compensation: %w", err)
	}
	return mc, nil
}

// ========== INCENTIVES ==========

const incentiveColumns = `employee_id, period_year, period_month, allowance, increment, bonus, updated_by, created_at, updated_at`

func scanIncentive(row pgx.Row) (payroll.Incentive, error) {
	var in payroll.Incentive
	var month int
	err := row.Scan(
		&in.EmployeeID, &in.Period.Year, &month,
		&in.Allowance, &in.Increment, &in.Bonus,
		&in.UpdatedBy, &in.CreatedAt, &in.UpdatedAt,
	)
	in.Period.Month = time.Month(month)
	return in, err
}

func (r *payrollRepository) GetIncentive(ctx context.Context, employeeID string, p period.Period) (payroll.Incentive, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + incentiveColumns + `
		FROM incentives
		WHERE employee_id::text = $1 AND period_year = $2 AND period_month = $3`

	in, err := scanIncentive(q.QueryRow(ctx, query, employeeID, p.Year, int(p.Month)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Incentive{}, payroll.ErrIncentiveNotFound
		}
		return payroll.Incentive{}, fmt.Errorf("failed to get incentive: %w", err)
	}
	return in, nil
}

func (r *payrollRepository) UpsertIncentive(ctx context.Context, in payroll.Incentive) (payroll.Incentive, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO incentives (employee_id, period_year, period_month, allowance, increment, bonus, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, period_year, period_month) DO UPDATE SET
			allowance = EXCLUDED.allowance,
			increment = EXCLUDED.increment,
			bonus = EXCLUDED.bonus,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + incentiveColumns

	out, err := scanIncentive(q.QueryRow(ctx, query,
		in.EmployeeID, in.Period.Year, int(in.Period.Month),
		in.Allowance, in.Increment, in.Bonus, in.UpdatedBy,
	))
	if err != nil {
		return payroll.Incentive{}, fmt.Errorf("failed to upsert incentive: %w", err)
	}
	return out, nil
}
