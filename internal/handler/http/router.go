package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the deployment settings the router needs.
type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

// Handlers groups the API handlers mounted by NewRouter.
type Handlers struct {
	Request      RequestHandler
	Loan         LoanHandler
	Payroll      PayrollHandler
	Notification NotificationHandler
}

func NewRouter(JWTService jwt.Service, opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		authenticated := chi.Chain(
			jwtauth.Verifier(JWTService.JWTAuth()),
			middleware.AuthRequired,
			chiMiddleware.AllowContentType("application/json"),
		)

		r.Route("/notifications", func(r chi.Router) {
			// EventSource clients authenticate with a stream token in the query
			r.Get("/stream", h.Notification.Stream)

			r.Group(func(r chi.Router) {
				r.Use(authenticated...)
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/stream/token", h.Notification.GetSSEToken)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticated...)

			r.Route("/requests", func(r chi.Router) {
				for _, kind := range []request.Kind{request.KindLeave, request.KindPermission, request.KindLoan, request.KindSalaryAdvance} {
					r.With(middleware.RequirePermission(user.PermissionRequestCreate)).
						Post("/"+string(kind), h.Request.Submit(kind))
					r.With(middleware.RequirePermission(user.PermissionRequestPost)).
						Post("/"+string(kind)+"/post", h.Request.Post(kind))
				}

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Request.Get)
					r.With(middleware.RequirePermission(user.PermissionRequestRespond)).
						Post("/respond", h.Request.Respond)
				})
			})

			r.Route("/loans/{id}/schedule", func(r chi.Router) {
				r.Get("/", h.Loan.GetSchedule)
				r.With(middleware.RequirePermission(user.PermissionLoanScheduleBuild)).
					Post("/", h.Loan.BuildSchedule)
			})

			r.Route("/employees/{employeeId}", func(r chi.Router) {
				r.Get("/requests", h.Request.ListByEmployee)

				r.Route("/payroll", func(r chi.Router) {
					r.Get("/", h.Payroll.GetBreakdown)
					r.Get("/fiscal", h.Payroll.GetFiscalYearReport)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionPayrollPost))
						r.Put("/{period}/salary", h.Payroll.PutSalaryComponent)
						r.Put("/{period}/compensation", h.Payroll.PutCompensation)
						r.Put("/{period}/incentive", h.Payroll.PutIncentive)
					})
				})
			})

			r.With(middleware.RequirePermission(user.PermissionPayrollRoll)).
				Post("/payroll/roll-forward", h.Payroll.RollForward)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
