package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity
	case errors.Is(err, user.ErrMissingIdentity),
		errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrForbidden),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, request.ErrSelfResponse):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, request.ErrRequestNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, loan.ErrLoanNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, err.Error())

	// State conflicts
	case errors.Is(err, request.ErrAlreadyResolved),
		errors.Is(err, loan.ErrAlreadyBuilt),
		errors.Is(err, loan.ErrNotApproved),
		errors.Is(err, payroll.ErrPeriodClosed):
		Conflict(w, err.Error())

	// Business rule violations
	case errors.Is(err, loan.ErrConflictingChange),
		errors.Is(err, loan.ErrConflictingPair),
		errors.Is(err, loan.ErrImmutableAmount),
		errors.Is(err, loan.ErrInvalidTerms),
		errors.Is(err, request.ErrLossOfPayNotLeave),
		errors.Is(err, request.ErrLoanChangeNotLoan),
		errors.Is(err, request.ErrInvalidDecision),
		errors.Is(err, request.ErrPayloadMissing),
		errors.Is(err, request.ErrInvalidClock):
		UnprocessableEntity(w, err.Error())

	// Malformed input
	case errors.Is(err, period.ErrInvalidRange),
		errors.Is(err, period.ErrRangeTooWide),
		errors.Is(err, period.ErrInvalidMonth),
		errors.Is(err, period.ErrInvalidYear),
		errors.Is(err, period.ErrInvalidFormat),
		errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, request.ErrInvalidKind),
		errors.Is(err, request.ErrPostRequiresTarget):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, notification.ErrDispatcherStopped):
		ServiceUnavailable(w, "Service is shutting down")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
