package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// ApproveHook runs inside the approving transaction. A failing hook rolls
// the approval back.
type ApproveHook func(ctx context.Context, req request.Request) error

type requestServiceImpl struct {
	tx         database.Transactor
	repo       request.Repository
	directory  employee.Directory
	dispatcher notification.Dispatcher
	periods    *period.Resolver
	onApprove  map[request.Kind]ApproveHook
}

func NewRequestService(
	tx database.Transactor,
	repo request.Repository,
	directory employee.Directory,
	loans loan.Service,
	dispatcher notification.Dispatcher,
	periods *period.Resolver,
) request.Service {
	s := &requestServiceImpl{
		tx:         tx,
		repo:       repo,
		directory:  directory,
		dispatcher: dispatcher,
		periods:    periods,
		onApprove:  make(map[request.Kind]ApproveHook),
	}
	if loans != nil {
		s.onApprove[request.KindLoan] = func(ctx context.Context, req request.Request) error {
			_, err := loans.BuildSchedule(ctx, req.ID)
			return err
		}
	}
	return s
}

// Submit implements request.Service.
func (s *requestServiceImpl) Submit(ctx context.Context, actor user.Actor, in request.SubmitRequest) (request.Request, error) {
	if actor.EmployeeID == "" {
		return request.Request{}, user.ErrMissingIdentity
	}
	if in.EmployeeID == "" {
		in.EmployeeID = actor.EmployeeID
	}
	if in.Kind == request.KindLeave && in.LossOfPay != nil {
		return request.Request{}, validator.ValidationErrors{
			{Field: "loss_of_pay", Message: "loss_of_pay can only be recorded with a decision"},
		}
	}

	emp, err := s.subject(ctx, in.EmployeeID)
	if err != nil {
		return request.Request{}, err
	}
	self := actor.IsSelf(emp.ID)
	if !self && !actor.CanManageBranch(emp.Branch) {
		return request.Request{}, user.ErrForbidden
	}

	req, err := in.Build()
	if err != nil {
		return request.Request{}, err
	}

	now := s.periods.Now()
	req.ID = uuid.Must(uuid.NewV7()).String()
	req.EmployeeID = emp.ID
	req.RequesterID = actor.EmployeeID
	req.Status = request.StatusPending
	req.RequestedAt = now
	req.CreatedAt = now
	req.UpdatedAt = now

	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to create request: %w", err)
	}

	actingRole := actor.HighestRole()
	if self {
		actingRole = user.RoleEmployee
	}
	s.notify(ctx, notification.TypeRequestSubmitted, created, actingRole, actor, emp)

	return created, nil
}

// Post implements request.Service.
func (s *requestServiceImpl) Post(ctx context.Context, actor user.Actor, in request.SubmitRequest) (request.Request, error) {
	if actor.EmployeeID == "" {
		return request.Request{}, user.ErrMissingIdentity
	}
	if err := actor.RequirePrivileged(); err != nil {
		return request.Request{}, err
	}
	if in.EmployeeID == "" {
		return request.Request{}, request.ErrPostRequiresTarget
	}
	if actor.IsSelf(in.EmployeeID) {
		return request.Request{}, user.ErrForbidden
	}

	emp, err := s.subject(ctx, in.EmployeeID)
	if err != nil {
		return request.Request{}, err
	}
	if !actor.CanManageBranch(emp.Branch) {
		return request.Request{}, user.ErrForbidden
	}

	req, err := in.Build()
	if err != nil {
		return request.Request{}, err
	}

	now := s.periods.Now()
	responder := actor.EmployeeID
	req.ID = uuid.Must(uuid.NewV7()).String()
	req.EmployeeID = emp.ID
	req.RequesterID = actor.EmployeeID
	req.Status = request.StatusApproved
	req.RequestedAt = now
	req.RespondedBy = &responder
	req.RespondedAt = &now
	req.CreatedAt = now
	req.UpdatedAt = now

	var created request.Request
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		return s.runApproveHook(ctx, created)
	})
	if err != nil {
		return request.Request{}, err
	}

	// Re-read so hook side effects such as the schedule marker are visible.
	if reloaded, err := s.repo.GetByID(ctx, created.ID); err == nil {
		created = reloaded
	}

	s.notify(ctx, notification.TypeRequestPosted, created, actor.HighestRole(), actor, emp)
	return created, nil
}

// Respond implements request.Service.
func (s *requestServiceImpl) Respond(ctx context.Context, actor user.Actor, in request.RespondRequest) (request.Request, error) {
	if actor.EmployeeID == "" {
		return request.Request{}, user.ErrMissingIdentity
	}
	if err := in.Validate(); err != nil {
		return request.Request{}, err
	}

	stored, err := s.repo.GetByID(ctx, in.RequestID)
	if err != nil {
		return request.Request{}, err
	}
	if err := actor.RequirePrivileged(); err != nil {
		return request.Request{}, err
	}
	if actor.IsSelf(stored.EmployeeID) {
		return request.Request{}, user.ErrForbidden
	}
	if !stored.IsPending() {
		return request.Request{}, request.ErrAlreadyResolved
	}

	emp, err := s.subject(ctx, stored.EmployeeID)
	if err != nil {
		return request.Request{}, err
	}
	if !actor.CanManageBranch(emp.Branch) {
		return request.Request{}, user.ErrForbidden
	}

	res := request.Resolution{
		RequestID:   stored.ID,
		Status:      in.Decision,
		RespondedBy: actor.EmployeeID,
		RespondedAt: s.periods.Now(),
		Remarks:     in.Remarks,
	}

	if in.LoanChange != nil && !in.LoanChange.IsEmpty() {
		if stored.Kind != request.KindLoan || stored.Loan == nil {
			return request.Request{}, request.ErrLoanChangeNotLoan
		}
		terms, err := loan.ApplyChange(stored.Loan.Terms(), in.LoanChange)
		if err != nil {
			return request.Request{}, err
		}
		changed := *stored.Loan
		changed.SetTerms(terms)
		res.Loan = &changed
	}

	if in.LossOfPay != nil {
		if stored.Kind != request.KindLeave || stored.Leave == nil {
			return request.Request{}, request.ErrLossOfPayNotLeave
		}
		changed := *stored.Leave
		changed.LossOfPay = *in.LossOfPay
		res.Leave = &changed
	}

	var resolved request.Request
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		resolved, err = s.repo.Resolve(ctx, res)
		if err != nil {
			return err
		}
		if resolved.Status == request.StatusApproved {
			return s.runApproveHook(ctx, resolved)
		}
		return nil
	})
	if err != nil {
		return request.Request{}, err
	}

	if resolved.Status == request.StatusApproved {
		if reloaded, err := s.repo.GetByID(ctx, resolved.ID); err == nil {
			resolved = reloaded
		}
	}

	eventType := notification.TypeRequestRejected
	if resolved.Status == request.StatusApproved {
		eventType = notification.TypeRequestApproved
	}
	s.notify(ctx, eventType, resolved, actor.HighestRole(), actor, emp)

	slog.Info("request resolved",
		"request_id", resolved.ID,
		"kind", string(resolved.Kind),
		"status", string(resolved.Status),
		"responder", actor.EmployeeID,
	)
	return resolved, nil
}

// Get implements request.Service.
func (s *requestServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (request.Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return request.Request{}, err
	}
	if err := actor.RequireAccess(req.EmployeeID); err != nil {
		return request.Request{}, err
	}
	return req, nil
}

// ListByEmployee implements request.Service.
func (s *requestServiceImpl) ListByEmployee(ctx context.Context, actor user.Actor, employeeID string, filter request.ListFilter) ([]request.Request, error) {
	if err := actor.RequireAccess(employeeID); err != nil {
		return nil, err
	}
	exists, err := s.directory.Exists(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee: %w", err)
	}
	if !exists {
		return nil, employee.ErrEmployeeNotFound
	}
	return s.repo.ListByEmployee(ctx, employeeID, filter)
}

func (s *requestServiceImpl) subject(ctx context.Context, employeeID string) (employee.Employee, error) {
	if employeeID == "" {
		return employee.Employee{}, employee.ErrEmployeeIDEmpty
	}
	emp, err := s.directory.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (s *requestServiceImpl) runApproveHook(ctx context.Context, req request.Request) error {
	hook, ok := s.onApprove[req.Kind]
	if !ok {
		return nil
	}
	if err := hook(ctx, req); err != nil {
		return fmt.Errorf("approve hook for %s: %w", req.Kind, err)
	}
	return nil
}

// notify hands the intents to the dispatcher. Failures are logged only.
func (s *requestServiceImpl) notify(ctx context.Context, eventType notification.EventType, req request.Request, actingRole user.Role, actor user.Actor, emp employee.Employee) {
	if s.dispatcher == nil {
		return
	}

	intents := notification.BuildIntents(
		notification.Event{
			Type:      eventType,
			Kind:      string(req.Kind),
			KindLabel: req.Kind.Label(),
			RequestID: req.ID,
			ActorID:   actor.EmployeeID,
		},
		actingRole,
		actor,
		notification.Subject{
			EmployeeID: emp.ID,
			Name:       emp.FullName,
			Branch:     emp.Branch,
			Roles:      emp.Roles,
		},
	)

	if err := s.dispatcher.Dispatch(ctx, intents); err != nil {
		slog.Warn("failed to dispatch notifications",
			"request_id", req.ID,
			"event", string(eventType),
			"error", err,
		)
	}
}
