package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LoanHandler interface {
	GetSchedule(w http.ResponseWriter, r *http.Request)
	BuildSchedule(w http.ResponseWriter, r *http.Request)
}

type loanHandlerImpl struct {
	loanService loan.Service
}

func NewLoanHandler(loanService loan.Service) LoanHandler {
	return &loanHandlerImpl{loanService: loanService}
}

func (h *loanHandlerImpl) GetSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	summary, err := h.loanService.GetSchedule(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loan.NewSummaryResponse(summary))
}

// BuildSchedule materializes the schedule of an approved loan whose build
// did not run at approval time. Gated by loan.schedule_build.
func (h *loanHandlerImpl) BuildSchedule(w http.ResponseWriter, r *http.Request) {
	entries, err := h.loanService.BuildSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Repayment schedule built", loan.NewScheduleEntryResponses(entries))
}
