package payroll

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== POSTING DTOs ==========

type PostSalaryComponentRequest struct {
	EmployeeID string          `json:"-"`
	Period     period.Period   `json:"-"`
	Gross      decimal.Decimal `json:"gross_salary"`
	PF         decimal.Decimal `json:"pf"`
	ESI        decimal.Decimal `json:"esi"`
}

func (r *PostSalaryComponentRequest) Validate() error {
	errs := requireEmployeePeriod(r.EmployeeID, r.Period)
	nonNegative(&errs, "gross_salary", r.Gross)
	nonNegative(&errs, "pf", r.PF)
	nonNegative(&errs, "esi", r.ESI)
	return errs.Err()
}

type PostCompensationRequest struct {
	EmployeeID                 string          `json:"-"`
	Period                     period.Period   `json:"-"`
	LossOfPay                  decimal.Decimal `json:"loss_of_pay"`
	LeaveCashback              decimal.Decimal `json:"leave_cashback"`
	LastYearLeaveCashback      decimal.Decimal `json:"last_year_leave_cashback"`
	AttendanceSpecialAllowance decimal.Decimal `json:"attendance_special_allowance"`
	OtherSpecialAllowance      decimal.Decimal `json:"other_special_allowance"`
	Overtime                   decimal.Decimal `json:"overtime"`
}

func (r *PostCompensationRequest) Validate() error {
	errs := requireEmployeePeriod(r.EmployeeID, r.Period)
	nonNegative(&errs, "loss_of_pay", r.LossOfPay)
	nonNegative(&errs, "leave_cashback", r.LeaveCashback)
	nonNegative(&errs, "last_year_leave_cashback", r.LastYearLeaveCashback)
	nonNegative(&errs, "attendance_special_allowance", r.AttendanceSpecialAllowance)
	nonNegative(&errs, "other_special_allowance", r.OtherSpecialAllowance)
	nonNegative(&errs, "overtime", r.Overtime)
	return errs.Err()
}

type PostIncentiveRequest struct {
	EmployeeID string          `json:"-"`
	Period     period.Period   `json:"-"`
	Allowance  decimal.Decimal `json:"allowance"`
	Increment  decimal.Decimal `json:"increment"`
	Bonus      decimal.Decimal `json:"bonus"`
}

func (r *PostIncentiveRequest) Validate() error {
	errs := requireEmployeePeriod(r.EmployeeID, r.Period)
	nonNegative(&errs, "allowance", r.Allowance)
	nonNegative(&errs, "increment", r.Increment)
	nonNegative(&errs, "bonus", r.Bonus)
	return errs.Err()
}

func requireEmployeePeriod(employeeID string, p period.Period) validator.ValidationErrors {
	var errs validator.ValidationErrors
	errs.Check(!validator.IsEmpty(employeeID), "employee_id", "employee_id is required")
	errs.Check(!p.IsZero(), "period", "period is required")
	return errs
}

func nonNegative(errs *validator.ValidationErrors, field string, v decimal.Decimal) {
	errs.Check(validator.NonNegative(v), field, field+" must be non-negative")
}

// ========== BREAKDOWN DTOs ==========

// BreakdownResponse is the presentation of a PayrollBreakdown. Pointer fields
// are omitted when redacted for the viewer.
type BreakdownResponse struct {
	EmployeeID string        `json:"employee_id,omitempty"`
	Period     period.Period `json:"period"`

	GrossSalary                *decimal.Decimal `json:"gross_salary,omitempty"`
	AttendanceSpecialAllowance decimal.Decimal  `json:"attendance_special_allowance"`
	LeaveCashback              decimal.Decimal  `json:"leave_cashback"`
	LastYearLeaveCashback      decimal.Decimal  `json:"last_year_leave_cashback"`
	OtherSpecialAllowance      *decimal.Decimal `json:"other_special_allowance,omitempty"`
	Overtime                   decimal.Decimal  `json:"overtime"`
	Allowance                  decimal.Decimal  `json:"allowance"`
	Increment                  decimal.Decimal  `json:"increment"`
	Bonus                      decimal.Decimal  `json:"bonus"`

	PF               decimal.Decimal `json:"pf"`
	ESI              decimal.Decimal `json:"esi"`
	LossOfPay        decimal.Decimal `json:"loss_of_pay"`
	LoanDeduction    decimal.Decimal `json:"loan_deduction"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`

	TotalEarnings   *decimal.Decimal `json:"total_earnings,omitempty"`
	TotalDeductions decimal.Decimal  `json:"total_deductions"`
	NetSalary       *decimal.Decimal `json:"net_salary,omitempty"`

	Redacted bool `json:"redacted,omitempty"`
}

// ShouldRedact reports whether viewer must not see net salary, gross salary and
// other special allowance of employeeID: HR viewers who are neither MD nor the subject.
func ShouldRedact(viewer user.Actor, employeeID string) bool {
	return viewer.HasRole(user.RoleHR) && !viewer.IsMD() && !viewer.IsSelf(employeeID)
}

func NewBreakdownResponse(b PayrollBreakdown, viewer user.Actor) BreakdownResponse {
	resp := BreakdownResponse{
		EmployeeID:                 b.EmployeeID,
		Period:                     b.Period,
		AttendanceSpecialAllowance: b.AttendanceSpecialAllowance,
		LeaveCashback:              b.LeaveCashback,
		LastYearLeaveCashback:      b.LastYearLeaveCashback,
		Overtime:                   b.Overtime,
		Allowance:                  b.Allowance,
		Increment:                  b.Increment,
		Bonus:                      b.Bonus,
		PF:                         b.PF,
		ESI:                        b.ESI,
		LossOfPay:                  b.LossOfPay,
		LoanDeduction:              b.LoanDeduction,
		AdvanceDeduction:           b.AdvanceDeduction,
		TotalDeductions:            b.TotalDeductions,
	}

	if ShouldRedact(viewer, b.EmployeeID) {
		resp.Redacted = true
		return resp
	}

	resp.GrossSalary = &b.Gross
	resp.OtherSpecialAllowance = &b.OtherSpecialAllowance
	resp.TotalEarnings = &b.TotalEarnings
	resp.NetSalary = &b.NetSalary
	return resp
}

type FiscalYearReportResponse struct {
	EmployeeID string              `json:"employee_id"`
	StartYear  int                 `json:"start_year"`
	EndYear    int                 `json:"end_year"`
	Months     []BreakdownResponse `json:"months"`
	Totals     BreakdownResponse   `json:"totals"`
}

func NewFiscalYearReportResponse(r FiscalYearReport, viewer user.Actor) FiscalYearReportResponse {
	months := make([]BreakdownResponse, 0, len(r.Months))
	for _, m := range r.Months {
		months = append(months, NewBreakdownResponse(m, viewer))
	}
	return FiscalYearReportResponse{
		EmployeeID: r.EmployeeID,
		StartYear:  r.StartYear,
		EndYear:    r.EndYear,
		Months:     months,
		Totals:     NewBreakdownResponse(r.Totals, viewer),
	}
}

type SalaryComponentResponse struct {
	EmployeeID string          `json:"employee_id"`
	Period     period.Period   `json:"period"`
	Gross      decimal.Decimal `json:"gross_salary"`
	PF         decimal.Decimal `json:"pf"`
	ESI        decimal.Decimal `json:"esi"`
}

type CompensationResponse struct {
	EmployeeID                 string          `json:"employee_id"`
	Period                     period.Period   `json:"period"`
	LossOfPay                  decimal.Decimal `json:"loss_of_pay"`
	LeaveCashback              decimal.Decimal `json:"leave_cashback"`
	LastYearLeaveCashback      decimal.Decimal `json:"last_year_leave_cashback"`
	AttendanceSpecialAllowance decimal.Decimal `json:"attendance_special_allowance"`
	OtherSpecialAllowance      decimal.Decimal `json:"other_special_allowance"`
	Overtime                   decimal.Decimal `json:"overtime"`
}

type IncentiveResponse struct {
	EmployeeID string          `json:"employee_id"`
	Period     period.Period   `json:"period"`
	Allowance  decimal.Decimal `json:"allowance"`
	Increment  decimal.Decimal `json:"increment"`
	Bonus      decimal.Decimal `json:"bonus"`
}

func NewSalaryComponentResponse(sc SalaryComponent) SalaryComponentResponse {
	return SalaryComponentResponse{
		EmployeeID: sc.EmployeeID,
		Period:     sc.Period,
		Gross:      sc.Gross,
		PF:         sc.PF,
		ESI:        sc.ESI,
	}
}

func NewCompensationResponse(mc MonthlyCompensation) CompensationResponse {
	return CompensationResponse{
		EmployeeID:                 mc.EmployeeID,
		Period:                     mc.Period,
		LossOfPay:                  mc.LossOfPay,
		LeaveCashback:              mc.LeaveCashback,
		LastYearLeaveCashback:      mc.LastYearLeaveCashback,
		AttendanceSpecialAllowance: mc.AttendanceSpecialAllowance,
		OtherSpecialAllowance:      mc.OtherSpecialAllowance,
		Overtime:                   mc.Overtime,
	}
}

func NewIncentiveResponse(in Incentive) IncentiveResponse {
	return IncentiveResponse{
		EmployeeID: in.EmployeeID,
		Period:     in.Period,
		Allowance:  in.Allowance,
		Increment:  in.Increment,
		Bonus:      in.Bonus,
	}
}
