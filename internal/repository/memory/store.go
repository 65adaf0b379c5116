// Package memory provides in-process implementations of the repositories,
// used by tests and by the "memory" storage driver for local development.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type rowKey struct {
	EmployeeID string
	Period     period.Period
}

// Store is the shared state behind every memory repository.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	employees     map[string]employee.Employee
	requests      map[string]request.Request
	schedules     map[string][]loan.ScheduleEntry
	salaries      map[rowKey]payroll.SalaryComponent
	compensations map[rowKey]payroll.MonthlyCompensation
	incentives    map[rowKey]payroll.Incentive
	notifications []notification.Notification
}

func NewStore() *Store {
	return &Store{
		employees:     make(map[string]employee.Employee),
		requests:      make(map[string]request.Request),
		schedules:     make(map[string][]loan.ScheduleEntry),
		salaries:      make(map[rowKey]payroll.SalaryComponent),
		compensations: make(map[rowKey]payroll.MonthlyCompensation),
		incentives:    make(map[rowKey]payroll.Incentive),
	}
}

type snapshot struct {
	employees     map[string]employee.Employee
	requests      map[string]request.Request
	schedules     map[string][]loan.ScheduleEntry
	salaries      map[rowKey]payroll.SalaryComponent
	compensations map[rowKey]payroll.MonthlyCompensation
	incentives    map[rowKey]payroll.Incentive
	notifications []notification.Notification
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedules := make(map[string][]loan.ScheduleEntry, len(s.schedules))
	for k, v := range s.schedules {
		schedules[k] = slices.Clone(v)
	}
	return snapshot{
		employees:     maps.Clone(s.employees),
		requests:      maps.Clone(s.requests),
		schedules:     schedules,
		salaries:      maps.Clone(s.salaries),
		compensations: maps.Clone(s.compensations),
		incentives:    maps.Clone(s.incentives),
		notifications: slices.Clone(s.notifications),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.employees = snap.employees
	s.requests = snap.requests
	s.schedules = snap.schedules
	s.salaries = snap.salaries
	s.compensations = snap.compensations
	s.incentives = snap.incentives
	s.notifications = snap.notifications
}

type txKey struct{}

func (s *Store) inTransaction(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lockWrite takes the write lock and returns its release. Writes outside a
// transaction first wait for the running transaction to finish, so a
// rollback only ever discards the transaction's own writes.
func (s *Store) lockWrite(ctx context.Context) func() {
	if s.inTransaction(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

type transactor struct {
	store *Store
}

// NewTransactor returns a Transactor that runs one transaction at a time and
// rolls the store back to its snapshot when fn fails or panics.
func NewTransactor(s *Store) database.Transactor {
	return &transactor{store: s}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if t.store.inTransaction(ctx) {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	defer func() {
		if p := recover(); p != nil {
			t.store.restore(snap)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, t.store)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
