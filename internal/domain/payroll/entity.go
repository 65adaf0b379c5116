package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/shopspring/decimal"
)

// SalaryComponent - base salary row, one per employee per period
type SalaryComponent struct {
	EmployeeID string
	Period     period.Period
	Gross      decimal.Decimal
	PF         decimal.Decimal // provident fund deduction
	ESI        decimal.Decimal // employee insurance deduction
	UpdatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MonthlyCompensation - per-period adjustments, one per employee per period
type MonthlyCompensation struct {
	EmployeeID                 string
	Period                     period.Period
	LossOfPay                  decimal.Decimal
	LeaveCashback              decimal.Decimal
	LastYearLeaveCashback      decimal.Decimal
	AttendanceSpecialAllowance decimal.Decimal
	OtherSpecialAllowance      decimal.Decimal
	Overtime                   decimal.Decimal
	UpdatedBy                  *string
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// Incentive - one per employee per period. Increment feeds the next period's gross.
type Incentive struct {
	EmployeeID string
	Period     period.Period
	Allowance  decimal.Decimal
	Increment  decimal.Decimal
	Bonus      decimal.Decimal
	UpdatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Sources are the five inputs of one net salary computation. Nil rows mean
// nothing was posted for the period and count as zero.
type Sources struct {
	EmployeeID       string
	Period           period.Period
	Salary           *SalaryComponent
	Compensation     *MonthlyCompensation
	Incentive        *Incentive
	LeaveLossOfPay   decimal.Decimal // loss of pay recorded on resolved leave requests
	LoanDeduction    decimal.Decimal
	AdvanceDeduction decimal.Decimal
}

// PayrollBreakdown exposes every addend and subtrahend of the net salary.
type PayrollBreakdown struct {
	EmployeeID string
	Period     period.Period

	// Earnings
	Gross                      decimal.Decimal
	AttendanceSpecialAllowance decimal.Decimal
	LeaveCashback              decimal.Decimal
	LastYearLeaveCashback      decimal.Decimal
	OtherSpecialAllowance      decimal.Decimal
	Overtime                   decimal.Decimal
	Allowance                  decimal.Decimal
	Increment                  decimal.Decimal
	Bonus                      decimal.Decimal

	// Deductions
	PF               decimal.Decimal
	ESI              decimal.Decimal
	LossOfPay        decimal.Decimal
	LoanDeduction    decimal.Decimal
	AdvanceDeduction decimal.Decimal

	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

// Compute joins the sources into a breakdown.
//
//	net = (gross + attendance_special_allowance + leave_cashback + last_year_leave_cashback
//	       + other_special_allowance + overtime + allowance + increment + bonus)
//	      - (pf + esi + loss_of_pay + loan_deduction + advance_deduction)
func Compute(s Sources) PayrollBreakdown {
	b := PayrollBreakdown{
		EmployeeID:       s.EmployeeID,
		Period:           s.Period,
		LossOfPay:        s.LeaveLossOfPay,
		LoanDeduction:    s.LoanDeduction,
		AdvanceDeduction: s.AdvanceDeduction,
	}
	if sc := s.Salary; sc != nil {
		b.Gross = sc.Gross
		b.PF = sc.PF
		b.ESI = sc.ESI
	}
	if mc := s.Compensation; mc != nil {
		b.LossOfPay = b.LossOfPay.Add(mc.LossOfPay)
		b.LeaveCashback = mc.LeaveCashback
		b.LastYearLeaveCashback = mc.LastYearLeaveCashback
		b.AttendanceSpecialAllowance = mc.AttendanceSpecialAllowance
		b.OtherSpecialAllowance = mc.OtherSpecialAllowance
		b.Overtime = mc.Overtime
	}
	if in := s.Incentive; in != nil {
		b.Allowance = in.Allowance
		b.Increment = in.Increment
		b.Bonus = in.Bonus
	}

	b.TotalEarnings = decimal.Sum(b.Gross,
		b.AttendanceSpecialAllowance,
		b.LeaveCashback,
		b.LastYearLeaveCashback,
		b.OtherSpecialAllowance,
		b.Overtime,
		b.Allowance,
		b.Increment,
		b.Bonus,
	)
	b.TotalDeductions = decimal.Sum(b.PF,
		b.ESI,
		b.LossOfPay,
		b.LoanDeduction,
		b.AdvanceDeduction,
	)
	b.NetSalary = b.TotalEarnings.Sub(b.TotalDeductions)
	return b
}

// Add sums two breakdowns field by field. Used for report totals.
func (b PayrollBreakdown) Add(o PayrollBreakdown) PayrollBreakdown {
	return PayrollBreakdown{
		EmployeeID:                 b.EmployeeID,
		Gross:                      b.Gross.Add(o.Gross),
		AttendanceSpecialAllowance: b.AttendanceSpecialAllowance.Add(o.AttendanceSpecialAllowance),
		LeaveCashback:              b.LeaveCashback.Add(o.LeaveCashback),
		LastYearLeaveCashback:      b.LastYearLeaveCashback.Add(o.LastYearLeaveCashback),
		OtherSpecialAllowance:      b.OtherSpecialAllowance.Add(o.OtherSpecialAllowance),
		Overtime:                   b.Overtime.Add(o.Overtime),
		Allowance:                  b.Allowance.Add(o.Allowance),
		Increment:                  b.Increment.Add(o.Increment),
		Bonus:                      b.Bonus.Add(o.Bonus),
		PF:                         b.PF.Add(o.PF),
		ESI:                        b.ESI.Add(o.ESI),
		LossOfPay:                  b.LossOfPay.Add(o.LossOfPay),
		LoanDeduction:              b.LoanDeduction.Add(o.LoanDeduction),
		AdvanceDeduction:           b.AdvanceDeduction.Add(o.AdvanceDeduction),
		TotalEarnings:              b.TotalEarnings.Add(o.TotalEarnings),
		TotalDeductions:            b.TotalDeductions.Add(o.TotalDeductions),
		NetSalary:                  b.NetSalary.Add(o.NetSalary),
	}
}

// FiscalYearReport is the per-month payroll of one employee across fiscal years.
type FiscalYearReport struct {
	EmployeeID string
	StartYear  int
	EndYear    int
	Months     []PayrollBreakdown
	Totals     PayrollBreakdown
}

// NextSalary is the roll-forward rule: next gross = gross + increment, PF/ESI carried.
func NextSalary(current *SalaryComponent, incentive *Incentive, employeeID string, next period.Period) SalaryComponent {
	out := SalaryComponent{
		EmployeeID: employeeID,
		Period:     next,
		Gross:      decimal.Zero,
		PF:         decimal.Zero,
		ESI:        decimal.Zero,
	}
	if current != nil {
		out.Gross = current.Gross
		out.PF = current.PF
		out.ESI = current.ESI
	}
	if incentive != nil {
		out.Gross = out.Gross.Add(incentive.Increment)
	}
	return out
}

// RollForwardReport summarizes one roll-forward run.
type RollForwardReport struct {
	From      period.Period
	To        period.Period
	Processed int
	Skipped   int // target row already present and left untouched
	Failed    int
	Failures  []RollForwardFailure
}

// RollForwardOptions tunes a roll-forward run. Without Overwrite, rows already
// present in the target period are kept.
type RollForwardOptions struct {
	Overwrite bool
}

type RollForwardFailure struct {
	EmployeeID string
	Err        error
}
