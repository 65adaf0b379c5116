package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type loanScheduleRepositoryImpl struct {
	db *database.DB
}

func NewLoanScheduleRepository(db *database.DB) loan.ScheduleRepository {
	return &loanScheduleRepositoryImpl{db: db}
}

// ClaimSchedule implements loan.ScheduleRepository.
func (r *loanScheduleRepositoryImpl) ClaimSchedule(ctx context.Context, loanID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE requests
		SET schedule_built_at = NOW(), updated_at = NOW()
		WHERE id::text = $1 AND kind = 'loan' AND schedule_built_at IS NULL
	`, loanID)
	if err != nil {
		return fmt.Errorf("failed to claim loan schedule: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM requests WHERE id::text = $1 AND kind = 'loan')`, loanID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check loan: %w", err)
	}
	if !exists {
		return loan.ErrLoanNotFound
	}
	return loan.ErrAlreadyBuilt
}

// CreateEntries implements loan.ScheduleRepository.
func (r *loanScheduleRepositoryImpl) CreateEntries(ctx context.Context, entries []loan.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	const cols = 7
	valueStrings := make([]string, 0, len(entries))
	valueArgs := make([]interface{}, 0, len(entries)*cols)
	for i, e := range entries {
		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		valueArgs = append(valueArgs,
			e.ID,
			e.LoanID,
			e.EmployeeID,
			e.Period.Year,
			int(e.Period.Month),
			e.Installment,
			e.Amount,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO loan_repayments (id, loan_id, employee_id, period_year, period_month, installment, amount)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to create repayment entries: %w", err)
	}
	return nil
}

// ListByLoan implements loan.ScheduleRepository.
func (r *loanScheduleRepositoryImpl) ListByLoan(ctx context.Context, loanID string) ([]loan.ScheduleEntry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, loan_id, employee_id, period_year, period_month, installment, amount, deducted, deducted_at, created_at
		FROM loan_repayments
		WHERE loan_id::text = $1
		ORDER BY installment
	`, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list repayment entries: %w", err)
	}
	defer rows.Close()

	entries := []loan.ScheduleEntry{}
	for rows.Next() {
		var e loan.ScheduleEntry
		var month int
		if err := rows.Scan(
			&e.ID,
			&e.LoanID,
			&e.EmployeeID,
			&e.Period.Year,
			&month,
			&e.Installment,
			&e.Amount,
			&e.Deducted,
			&e.DeductedAt,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan repayment entry: %w", err)
		}
		e.Period.Month = time.Month(month)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SumDue implements loan.ScheduleRepository.
func (r *loanScheduleRepositoryImpl) SumDue(ctx context.Context, employeeID string, p period.Period) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var sum decimal.Decimal
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM loan_repayments
		WHERE employee_id::text = $1 AND period_year = $2 AND period_month = $3
	`, employeeID, p.Year, int(p.Month)).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum loan deductions: %w", err)
	}
	return sum, nil
}

// MarkDeductedThrough implements loan.ScheduleRepository.
func (r *loanScheduleRepositoryImpl) MarkDeductedThrough(ctx context.Context, through period.Period) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE loan_repayments
		SET deducted = TRUE, deducted_at = NOW()
		WHERE deducted = FALSE
			AND (period_year * 12 + period_month) <= ($1 * 12 + $2)
	`, through.Year, int(through.Month))
	if err != nil {
		return 0, fmt.Errorf("failed to mark repayments deducted: %w", err)
	}
	return tag.RowsAffected(), nil
}
