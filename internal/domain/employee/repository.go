package employee

import "context"

// Directory is the read-only employee lookup the core consumes. Employee CRUD
// lives elsewhere.
type Directory interface {
	// Exists reports whether the employee id resolves.
	Exists(ctx context.Context, id string) (bool, error)
	// BranchOf returns the employee's home branch or ErrEmployeeNotFound.
	BranchOf(ctx context.Context, id string) (string, error)
	// GetByID returns the full directory entry or ErrEmployeeNotFound.
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListActive returns every active employee, ordered by id.
	ListActive(ctx context.Context) ([]Employee, error)
}
