package request

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
)

type Kind string

const (
	KindLeave         Kind = "leave"
	KindPermission    Kind = "permission"
	KindLoan          Kind = "loan"
	KindSalaryAdvance Kind = "salary_advance"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindLeave, KindPermission, KindLoan, KindSalaryAdvance:
		return true
	}
	return false
}

// Label is the human readable kind used in notification text.
func (k Kind) Label() string {
	switch k {
	case KindLeave:
		return "Leave"
	case KindPermission:
		return "Permission"
	case KindLoan:
		return "Loan"
	case KindSalaryAdvance:
		return "Salary advance"
	}
	return string(k)
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsDecision reports whether s is a terminal status a responder may choose.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request is the single tagged-variant record behind all four request kinds.
// Exactly one payload pointer is set, matching Kind.
type Request struct {
	ID          string
	EmployeeID  string
	RequesterID string
	Kind        Kind
	Status      Status
	Reason      *string
	RequestedAt time.Time

	// Set only on the transition out of pending.
	RespondedBy *string
	RespondedAt *time.Time
	Remarks     *string

	Leave         *Leave
	Permission    *Permission
	Loan          *Loan
	SalaryAdvance *SalaryAdvance

	ScheduleBuiltAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Request) IsPending() bool {
	return r.Status == StatusPending
}

// Payload returns the variant matching Kind.
func (r *Request) Payload() (Payload, error) {
	var p Payload
	switch r.Kind {
	case KindLeave:
		if r.Leave != nil {
			p = r.Leave
		}
	case KindPermission:
		if r.Permission != nil {
			p = r.Permission
		}
	case KindLoan:
		if r.Loan != nil {
			p = r.Loan
		}
	case KindSalaryAdvance:
		if r.SalaryAdvance != nil {
			p = r.SalaryAdvance
		}
	default:
		return nil, ErrInvalidKind
	}
	if p == nil {
		return nil, ErrPayloadMissing
	}
	return p, nil
}

// LoanView projects an approved-or-pending loan request for the amortization engine.
func (r Request) LoanView() (loan.Loan, bool) {
	if r.Kind != KindLoan || r.Loan == nil {
		return loan.Loan{}, false
	}
	return loan.Loan{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Terms:         r.Loan.Terms(),
		Approved:      r.Status == StatusApproved,
		ApprovedAt:    r.RespondedAt,
		ScheduleBuilt: r.ScheduleBuiltAt != nil,
	}, true
}

// ListFilter narrows ListByEmployee. Nil fields match everything.
type ListFilter struct {
	Kind   *Kind
	Status *Status
}

// Resolution is the single transition out of pending.
type Resolution struct {
	RequestID   string
	Status      Status
	RespondedBy string
	RespondedAt time.Time
	Remarks     *string

	// Optional payload rewrites recorded with the decision.
	Leave *Leave
	Loan  *Loan
}
