package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	appHTTP "github.com/cmlabs-hris/hris-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	loanService "github.com/cmlabs-hris/hris-payroll-go/internal/service/loan"
	notificationService "github.com/cmlabs-hris/hris-payroll-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	requestService "github.com/cmlabs-hris/hris-payroll-go/internal/service/request"
)

var version = "dev"

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	tx            database.Transactor
	directory     employee.Directory
	requests      request.Repository
	schedules     loan.ScheduleRepository
	payroll       payroll.PayrollRepository
	notifications notification.Repository
	close         func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := parseLogLevel(cfg.App.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	periods := period.NewResolver(time.Now, cfg.Location())
	hub := sse.NewHub()

	notifier := notificationService.NewNotificationService(repos.notifications, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.Workers,
		QueueSize:     cfg.Notification.QueueSize,
	})
	loanSvc := loanService.NewLoanService(repos.tx, repos.requests, repos.schedules, periods)
	requestSvc := requestService.NewRequestService(repos.tx, repos.requests, repos.directory, loanSvc, notifier, periods)
	payrollSvc := payrollService.NewPayrollService(repos.payroll, repos.requests, repos.schedules, repos.directory, periods)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(JWTService, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       level,
	}, appHTTP.Handlers{
		Request:      appHTTP.NewRequestHandler(requestSvc),
		Loan:         appHTTP.NewLoanHandler(loanSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Notification: appHTTP.NewNotificationHandler(notifier, JWTService),
	})

	scheduler := cron.NewScheduler()
	cron.NewPayrollJobs(payrollSvc, loanSvc, periods).RegisterJobs(scheduler, cfg.Payroll.RollForwardInterval)
	scheduler.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "storage", cfg.Storage.Driver, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	// SSE streams never finish on their own, close them before draining requests.
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}

	scheduler.Stop()
	notifier.Stop()
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		if cfg.Storage.SeedFile != "" {
			f, err := os.Open(cfg.Storage.SeedFile)
			if err != nil {
				return nil, fmt.Errorf("open seed file: %w", err)
			}
			n, err := store.LoadEmployees(f)
			f.Close()
			if err != nil {
				return nil, err
			}
			slog.Info("employee directory seeded", "count", n)
		}
		return &repositories{
			tx:            memory.NewTransactor(store),
			directory:     memory.NewEmployeeDirectory(store),
			requests:      memory.NewRequestRepository(store),
			schedules:     memory.NewLoanScheduleRepository(store),
			payroll:       memory.NewPayrollRepository(store),
			notifications: memory.NewNotificationRepository(store),
			close:         func() {},
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		return &repositories{
			tx:            postgresql.NewTransactor(db),
			directory:     postgresql.NewEmployeeDirectory(db),
			requests:      postgresql.NewRequestRepository(db),
			schedules:     postgresql.NewLoanScheduleRepository(db),
			payroll:       postgresql.NewPayrollRepository(db),
			notifications: postgresql.NewNotificationRepository(db),
			close:         db.Close,
		}, nil
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
