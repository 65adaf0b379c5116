package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

// Employee is the read-only directory view of a person on payroll.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	Branch           string
	Roles            []user.Role
	EmploymentStatus EmploymentStatus
	HireDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

// HighestRole returns the employee's most senior role.
func (e Employee) HighestRole() user.Role {
	return user.Highest(e.Roles)
}
