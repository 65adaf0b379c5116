package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
)

type employeeDirectory struct {
	store *Store
}

func NewEmployeeDirectory(s *Store) employee.Directory {
	return &employeeDirectory{store: s}
}

// PutEmployee inserts or replaces a directory entry. The directory is owned
// by another system; this exists for seeding tests and local runs.
func (s *Store) PutEmployee(e employee.Employee) {
	defer s.lockWrite(context.Background())()
	e.Roles = slices.Clone(e.Roles)
	if e.EmploymentStatus == "" {
		e.EmploymentStatus = employee.EmploymentStatusActive
	}
	s.employees[e.ID] = e
}

func (d *employeeDirectory) Exists(_ context.Context, id string) (bool, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	_, ok := d.store.employees[id]
	return ok, nil
}

func (d *employeeDirectory) BranchOf(_ context.Context, id string) (string, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	e, ok := d.store.employees[id]
	if !ok {
		return "", employee.ErrEmployeeNotFound
	}
	return e.Branch, nil
}

func (d *employeeDirectory) GetByID(_ context.Context, id string) (employee.Employee, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	e, ok := d.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.Roles = slices.Clone(e.Roles)
	return e, nil
}

func (d *employeeDirectory) ListActive(_ context.Context) ([]employee.Employee, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	out := make([]employee.Employee, 0, len(d.store.employees))
	for _, e := range d.store.employees {
		if e.IsActive() {
			e.Roles = slices.Clone(e.Roles)
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b employee.Employee) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}
