package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type RequestHandler interface {
	Submit(kind request.Kind) http.HandlerFunc
	Post(kind request.Kind) http.HandlerFunc
	Respond(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
}

type requestHandlerImpl struct {
	requestService request.Service
}

func NewRequestHandler(requestService request.Service) RequestHandler {
	return &requestHandlerImpl{requestService: requestService}
}

func (h *requestHandlerImpl) Submit(kind request.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(w, r)
		if !ok {
			return
		}

		var req request.SubmitRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Kind = kind

		created, err := h.requestService.Submit(r.Context(), actor, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		response.Created(w, kind.Label()+" request submitted", request.NewResponse(created))
	}
}

func (h *requestHandlerImpl) Post(kind request.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(w, r)
		if !ok {
			return
		}

		var req request.SubmitRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Kind = kind

		posted, err := h.requestService.Post(r.Context(), actor, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		response.Created(w, kind.Label()+" request posted", request.NewResponse(posted))
	}
}

func (h *requestHandlerImpl) Respond(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.RespondRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	resolved, err := h.requestService.Respond(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request "+string(resolved.Status), request.NewResponse(resolved))
}

func (h *requestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req, err := h.requestService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request.NewResponse(req))
}

func (h *requestHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := h.requestService.ListByEmployee(r.Context(), actor, chi.URLParam(r, "employeeId"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request.NewResponses(requests))
}

func parseListFilter(r *http.Request) (request.ListFilter, error) {
	var (
		filter request.ListFilter
		errs   validator.ValidationErrors
	)

	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind := request.Kind(raw)
		if !kind.IsValid() {
			errs.Add("kind", "kind must be one of leave, permission, loan, salary_advance")
		}
		filter.Kind = &kind
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := request.Status(raw)
		if !status.IsValid() {
			errs.Add("status", "status must be one of pending, approved, rejected")
		}
		filter.Status = &status
	}

	if len(errs) > 0 {
		return request.ListFilter{}, errs
	}
	return filter, nil
}
