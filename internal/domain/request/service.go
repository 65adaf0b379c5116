package request

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type Service interface {
	// Submit creates a pending request. Employees submit for themselves;
	// privileged actors may submit on behalf of others.
	Submit(ctx context.Context, actor user.Actor, req SubmitRequest) (Request, error)
	// Post records an already approved request. Privileged only.
	Post(ctx context.Context, actor user.Actor, req SubmitRequest) (Request, error)
	// Respond performs the single transition out of pending.
	Respond(ctx context.Context, actor user.Actor, req RespondRequest) (Request, error)
	Get(ctx context.Context, actor user.Actor, id string) (Request, error)
	ListByEmployee(ctx context.Context, actor user.Actor, employeeID string, filter ListFilter) ([]Request, error)
}
