package request

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// SubmitRequest is the flat input for every kind; only the fields of Kind are read.
type SubmitRequest struct {
	Kind       Kind    `json:"-"`
	EmployeeID string  `json:"employee_id,omitempty"`
	Reason     *string `json:"reason,omitempty"`

	// leave
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Category  string `json:"category,omitempty"`

	// permission
	Date      string `json:"date,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	// loan and salary advance
	Amount *decimal.Decimal `json:"amount,omitempty"`
	EMI    *decimal.Decimal `json:"emi,omitempty"`
	Tenure *int             `json:"tenure,omitempty"`
	Period string           `json:"period,omitempty"`

	// leave posted with a decision already taken
	LossOfPay *decimal.Decimal `json:"loss_of_pay,omitempty"`
}

// Build parses the input into a validated, derived Request skeleton. The
// caller assigns identity, status and timestamps.
func (r *SubmitRequest) Build() (Request, error) {
	if !r.Kind.IsValid() {
		return Request{}, ErrInvalidKind
	}

	var errs validator.ValidationErrors
	req := Request{Kind: r.Kind, EmployeeID: r.EmployeeID, Reason: r.Reason}

	switch r.Kind {
	case KindLeave:
		l := &Leave{Category: LeaveCategory(r.Category), LossOfPay: decimal.Zero}
		if r.StartDate != "" {
			if d, ok := validator.IsValidDate(r.StartDate); ok {
				l.StartDate = d
			} else {
				errs.Add("start_date", "start_date must be YYYY-MM-DD")
			}
		}
		if r.EndDate != "" {
			if d, ok := validator.IsValidDate(r.EndDate); ok {
				l.EndDate = d
			} else {
				errs.Add("end_date", "end_date must be YYYY-MM-DD")
			}
		}
		if r.LossOfPay != nil {
			l.LossOfPay = *r.LossOfPay
		}
		req.Leave = l
	case KindPermission:
		p := &Permission{StartTime: r.StartTime, EndTime: r.EndTime}
		if r.Date != "" {
			if d, ok := validator.IsValidDate(r.Date); ok {
				p.Date = d
			} else {
				errs.Add("date", "date must be YYYY-MM-DD")
			}
		}
		req.Permission = p
	case KindLoan:
		l := &Loan{}
		if r.Amount != nil {
			l.Amount = *r.Amount
		}
		if r.EMI != nil {
			l.EMI = *r.EMI
		}
		if r.Tenure != nil {
			l.Tenure = *r.Tenure
		}
		req.Loan = l
	case KindSalaryAdvance:
		a := &SalaryAdvance{}
		if r.Amount != nil {
			a.Amount = *r.Amount
		}
		if r.Period != "" {
			if p, err := period.Parse(r.Period); err == nil {
				a.Period = p
			} else {
				errs.Add("period", "period must be YYYY-MM")
			}
		}
		req.SalaryAdvance = a
	}

	payload, err := req.Payload()
	if err != nil {
		return Request{}, err
	}
	if err := payload.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		} else {
			return Request{}, err
		}
	}
	if len(errs) > 0 {
		return Request{}, errs
	}
	if err := payload.Derive(); err != nil {
		return Request{}, err
	}
	return req, nil
}

type RespondRequest struct {
	RequestID  string           `json:"-"`
	Decision   Status           `json:"decision"`
	Remarks    *string          `json:"remarks,omitempty"`
	LoanChange *loan.Change     `json:"loan_change,omitempty"`
	LossOfPay  *decimal.Decimal `json:"loss_of_pay,omitempty"`
}

func (r *RespondRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs.Add("request_id", "request_id is required")
	}
	if !r.Decision.IsDecision() {
		errs.Add("decision", "decision must be approved or rejected")
	}
	if r.LossOfPay != nil && r.LossOfPay.IsNegative() {
		errs.Add("loss_of_pay", "loss_of_pay must be non-negative")
	}
	if r.Remarks != nil && len(*r.Remarks) > 1000 {
		errs.Add("remarks", "remarks must not exceed 1000 characters")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Response struct {
	ID            string         `json:"id"`
	EmployeeID    string         `json:"employee_id"`
	RequesterID   string         `json:"requester_id"`
	Kind          Kind           `json:"kind"`
	Status        Status         `json:"status"`
	Reason        *string        `json:"reason,omitempty"`
	RequestedAt   time.Time      `json:"requested_at"`
	RespondedBy   *string        `json:"responded_by,omitempty"`
	RespondedAt   *time.Time     `json:"responded_at,omitempty"`
	Remarks       *string        `json:"remarks,omitempty"`
	Leave         *Leave         `json:"leave,omitempty"`
	Permission    *Permission    `json:"permission,omitempty"`
	Loan          *Loan          `json:"loan,omitempty"`
	SalaryAdvance *SalaryAdvance `json:"salary_advance,omitempty"`
	ScheduleBuilt bool           `json:"schedule_built,omitempty"`
}

func NewResponse(r Request) Response {
	return Response{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		RequesterID:   r.RequesterID,
		Kind:          r.Kind,
		Status:        r.Status,
		Reason:        r.Reason,
		RequestedAt:   r.RequestedAt,
		RespondedBy:   r.RespondedBy,
		RespondedAt:   r.RespondedAt,
		Remarks:       r.Remarks,
		Leave:         r.Leave,
		Permission:    r.Permission,
		Loan:          r.Loan,
		SalaryAdvance: r.SalaryAdvance,
		ScheduleBuilt: r.ScheduleBuiltAt != nil,
	}
}

func NewResponses(rs []Request) []Response {
	out := make([]Response, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewResponse(r))
	}
	return out
}
