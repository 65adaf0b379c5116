package loan

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildSchedule emits terms.Tenure consecutive monthly entries starting at
// start. Each entry is min(remaining, emi); the final entry takes whatever is
// left so the entries always sum to terms.Amount.
func BuildSchedule(loanID, employeeID string, terms Terms, start period.Period) []ScheduleEntry {
	entries := make([]ScheduleEntry, 0, terms.Tenure)
	remaining := terms.Amount
	p := start
	for i := 1; i <= terms.Tenure; i++ {
		amount := decimal.Min(remaining, terms.EMI)
		if i == terms.Tenure {
			amount = remaining
		}
		entries = append(entries, ScheduleEntry{
			ID:          uuid.Must(uuid.NewV7()).String(),
			LoanID:      loanID,
			EmployeeID:  employeeID,
			Period:      p,
			Installment: i,
			Amount:      amount,
		})
		remaining = remaining.Sub(amount)
		p = p.Next()
	}
	return entries
}

// Total sums entry amounts.
func Total(entries []ScheduleEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}
