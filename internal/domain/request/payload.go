package request

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Payload is the capability set every request variant implements.
type Payload interface {
	Kind() Kind
	// Validate checks the payload as submitted.
	Validate() error
	// Derive fills computed fields. It runs after Validate.
	Derive() error
}

type LeaveCategory string

const (
	LeaveCategoryCasual LeaveCategory = "casual"
	LeaveCategorySick   LeaveCategory = "sick"
	LeaveCategoryEarned LeaveCategory = "earned"
	LeaveCategoryUnpaid LeaveCategory = "unpaid"
	LeaveCategoryOther  LeaveCategory = "other"
)

func (c LeaveCategory) IsValid() bool {
	switch c {
	case LeaveCategoryCasual, LeaveCategorySick, LeaveCategoryEarned, LeaveCategoryUnpaid, LeaveCategoryOther:
		return true
	}
	return false
}

type Leave struct {
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Days      int             `json:"days"`
	Category  LeaveCategory   `json:"category"`
	LossOfPay decimal.Decimal `json:"loss_of_pay"`
}

func (l *Leave) Kind() Kind { return KindLeave }

func (l *Leave) Validate() error {
	var errs validator.ValidationErrors

	if l.StartDate.IsZero() {
		errs.Add("start_date", "start_date is required")
	}
	if l.EndDate.IsZero() {
		errs.Add("end_date", "end_date is required")
	}
	if !l.StartDate.IsZero() && !l.EndDate.IsZero() && l.EndDate.Before(l.StartDate) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	if !l.Category.IsValid() {
		errs.Add("category", "category must be one of casual, sick, earned, unpaid, other")
	}
	if l.LossOfPay.IsNegative() {
		errs.Add("loss_of_pay", "loss_of_pay must be non-negative")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Derive counts inclusive calendar days.
func (l *Leave) Derive() error {
	start := dateOnly(l.StartDate)
	end := dateOnly(l.EndDate)
	l.Days = int(end.Sub(start).Hours()/24) + 1
	return nil
}

type Permission struct {
	Date      time.Time       `json:"date"`
	StartTime string          `json:"start_time"`
	EndTime   string          `json:"end_time"`
	Hours     decimal.Decimal `json:"hours"`
}

func (p *Permission) Kind() Kind { return KindPermission }

func (p *Permission) Validate() error {
	var errs validator.ValidationErrors

	if p.Date.IsZero() {
		errs.Add("date", "date is required")
	}
	start, startOK := validator.IsValidClock(p.StartTime)
	if !startOK {
		errs.Add("start_time", "start_time must be HH:MM")
	}
	end, endOK := validator.IsValidClock(p.EndTime)
	if !endOK {
		errs.Add("end_time", "end_time must be HH:MM")
	}
	if startOK && endOK && !end.After(start) {
		errs.Add("end_time", "end_time must be after start_time")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Derive computes the hour count to two decimals.
func (p *Permission) Derive() error {
	start, ok := validator.IsValidClock(p.StartTime)
	if !ok {
		return ErrInvalidClock
	}
	end, ok := validator.IsValidClock(p.EndTime)
	if !ok {
		return ErrInvalidClock
	}
	minutes := decimal.NewFromFloat(end.Sub(start).Minutes())
	p.Hours = minutes.Div(decimal.NewFromInt(60)).Round(2)
	return nil
}

// Loan holds the requested principal and the reconciled EMI and tenure.
// On submission exactly one of EMI or Tenure is supplied; Derive fills the other.
type Loan struct {
	Amount decimal.Decimal `json:"amount"`
	EMI    decimal.Decimal `json:"emi"`
	Tenure int             `json:"tenure"`
}

func (l *Loan) Kind() Kind { return KindLoan }

func (l *Loan) Validate() error {
	var errs validator.ValidationErrors

	if !l.Amount.IsPositive() {
		errs.Add("amount", "amount must be greater than 0")
	}
	if l.EMI.IsNegative() {
		errs.Add("emi", "emi must be greater than 0")
	}
	if l.Tenure < 0 {
		errs.Add("tenure", "tenure must be greater than 0")
	}
	errs.Check(l.Tenure <= loan.MaxTenure, "tenure", fmt.Sprintf("tenure must be at most %d months", loan.MaxTenure))
	hasEMI := l.EMI.IsPositive()
	hasTenure := l.Tenure > 0
	if hasEMI == hasTenure {
		errs.Add("emi", "exactly one of emi or tenure is required")
	}
	if hasEMI {
		switch {
		case l.EMI.LessThan(loan.MinEMI):
			errs.Add("emi", "emi must be at least 0.01")
		case l.Amount.IsPositive() && l.Amount.Div(l.EMI).Ceil().GreaterThan(decimal.NewFromInt(loan.MaxTenure)):
			errs.Add("emi", fmt.Sprintf("emi is too small to repay the amount within %d months", loan.MaxTenure))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (l *Loan) Derive() error {
	var emi *decimal.Decimal
	var tenure *int
	if l.EMI.IsPositive() {
		e := l.EMI
		emi = &e
	}
	if l.Tenure > 0 {
		t := l.Tenure
		tenure = &t
	}
	terms, err := loan.Derive(l.Amount, emi, tenure)
	if err != nil {
		return err
	}
	l.SetTerms(terms)
	return nil
}

func (l *Loan) Terms() loan.Terms {
	return loan.Terms{Amount: l.Amount, EMI: l.EMI, Tenure: l.Tenure}
}

func (l *Loan) SetTerms(t loan.Terms) {
	l.Amount = t.Amount
	l.EMI = t.EMI
	l.Tenure = t.Tenure
}

type SalaryAdvance struct {
	Period period.Period   `json:"period"`
	Amount decimal.Decimal `json:"amount"`
}

func (a *SalaryAdvance) Kind() Kind { return KindSalaryAdvance }

func (a *SalaryAdvance) Validate() error {
	var errs validator.ValidationErrors

	if a.Period.IsZero() {
		errs.Add("period", "period is required")
	}
	if !a.Amount.IsPositive() {
		errs.Add("amount", "amount must be greater than 0")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (a *SalaryAdvance) Derive() error { return nil }

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
