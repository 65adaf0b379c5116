package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Aggregation
	GetBreakdown(w http.ResponseWriter, r *http.Request)
	GetFiscalYearReport(w http.ResponseWriter, r *http.Request)

	// Component posting
	PutSalaryComponent(w http.ResponseWriter, r *http.Request)
	PutCompensation(w http.ResponseWriter, r *http.Request)
	PutIncentive(w http.ResponseWriter, r *http.Request)

	// Batch
	RollForward(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== AGGREGATION ==========

func (h *payrollHandlerImpl) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var target *period.Period
	if raw := r.URL.Query().Get("period"); raw != "" {
		p, err := parsePeriod(raw)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		target = &p
	}

	breakdown, err := h.payrollService.ComputeNetSalary(r.Context(), actor, chi.URLParam(r, "employeeId"), target)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewBreakdownResponse(breakdown, actor))
}

func (h *payrollHandlerImpl) GetFiscalYearReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	startYear, err := strconv.Atoi(r.URL.Query().Get("start_year"))
	if err != nil {
		errs.Add("start_year", "start_year must be a year")
	}
	endYear, err := strconv.Atoi(r.URL.Query().Get("end_year"))
	if err != nil {
		errs.Add("end_year", "end_year must be a year")
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	report, err := h.payrollService.FiscalYearReport(r.Context(), actor, chi.URLParam(r, "employeeId"), startYear, endYear)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewFiscalYearReportResponse(report, actor))
}

// ========== COMPONENT POSTING ==========

func (h *payrollHandlerImpl) PutSalaryComponent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	p, err := parsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.PostSalaryComponentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeId")
	req.Period = p

	sc, err := h.payrollService.PostSalaryComponent(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary component saved", payroll.NewSalaryComponentResponse(sc))
}

func (h *payrollHandlerImpl) PutCompensation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	p, err := parsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.PostCompensationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeId")
	req.Period = p

	mc, err := h.payrollService.PostCompensation(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly compensation saved", payroll.NewCompensationResponse(mc))
}

func (h *payrollHandlerImpl) PutIncentive(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	p, err := parsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.PostIncentiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeId")
	req.Period = p

	in, err := h.payrollService.PostIncentive(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Incentive saved", payroll.NewIncentiveResponse(in))
}

// ========== BATCH ==========

type rollForwardResponse struct {
	From      period.Period       `json:"from"`
	To        period.Period       `json:"to"`
	Processed int                 `json:"processed"`
	Skipped   int                 `json:"skipped"`
	Failed    int                 `json:"failed"`
	Failures  []rollForwardFailed `json:"failures,omitempty"`
}

type rollForwardFailed struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// RollForward triggers the monthly roll-forward by hand, from the given
// period into the next. Rows already in the target period are kept unless
// overwrite=true.
func (h *payrollHandlerImpl) RollForward(w http.ResponseWriter, r *http.Request) {
	from, err := parsePeriod(r.URL.Query().Get("from"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	var opts payroll.RollForwardOptions
	if raw := r.URL.Query().Get("overwrite"); raw != "" {
		opts.Overwrite, err = strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "overwrite must be a boolean", nil)
			return
		}
	}

	report, err := h.payrollService.RollForward(r.Context(), from, opts)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := rollForwardResponse{
		From:      report.From,
		To:        report.To,
		Processed: report.Processed,
		Skipped:   report.Skipped,
		Failed:    report.Failed,
	}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, rollForwardFailed{EmployeeID: f.EmployeeID, Error: f.Err.Error()})
	}
	response.Success(w, resp)
}

func parsePeriod(raw string) (period.Period, error) {
	p, err := period.Parse(raw)
	if err != nil {
		return period.Period{}, fmt.Errorf("%w: %w", payroll.ErrInvalidPeriod, err)
	}
	return p, nil
}
