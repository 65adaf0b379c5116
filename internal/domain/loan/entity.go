package loan

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/shopspring/decimal"
)

// ScheduleEntry is one monthly installment of an approved loan.
type ScheduleEntry struct {
	ID          string
	LoanID      string
	EmployeeID  string
	Period      period.Period
	Installment int
	Amount      decimal.Decimal
	Deducted    bool
	DeductedAt  *time.Time
	CreatedAt   time.Time
}

// Loan is the approval-side view of a loan request the engine works from.
type Loan struct {
	ID            string
	EmployeeID    string
	Terms         Terms
	Approved      bool
	ApprovedAt    *time.Time
	ScheduleBuilt bool
}

// Summary aggregates a loan schedule into paid and outstanding totals.
type Summary struct {
	LoanID      string
	Amount      decimal.Decimal
	EMI         decimal.Decimal
	Tenure      int
	Paid        decimal.Decimal
	Outstanding decimal.Decimal
	Entries     []ScheduleEntry
}

// Summarize totals the deducted and outstanding installments.
func Summarize(l Loan, entries []ScheduleEntry) Summary {
	s := Summary{
		LoanID:      l.ID,
		Amount:      l.Terms.Amount,
		EMI:         l.Terms.EMI,
		Tenure:      l.Terms.Tenure,
		Paid:        decimal.Zero,
		Outstanding: decimal.Zero,
		Entries:     entries,
	}
	for _, e := range entries {
		if e.Deducted {
			s.Paid = s.Paid.Add(e.Amount)
		} else {
			s.Outstanding = s.Outstanding.Add(e.Amount)
		}
	}
	return s
}
