package memory

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type seedEmployee struct {
	ID               string   `json:"id"`
	EmployeeCode     string   `json:"employee_code"`
	FullName         string   `json:"full_name"`
	Branch           string   `json:"branch"`
	Roles            []string `json:"roles"`
	EmploymentStatus string   `json:"employment_status"`
}

// LoadEmployees seeds the directory from a JSON array of employees and
// returns how many were loaded.
func (s *Store) LoadEmployees(r io.Reader) (int, error) {
	var seed []seedEmployee
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return 0, fmt.Errorf("failed to decode employee seed: %w", err)
	}

	for i, e := range seed {
		if e.ID == "" {
			return i, fmt.Errorf("employee seed %d: %w", i, employee.ErrEmployeeIDEmpty)
		}
		s.PutEmployee(employee.Employee{
			ID:               e.ID,
			EmployeeCode:     e.EmployeeCode,
			FullName:         e.FullName,
			Branch:           e.Branch,
			Roles:            user.ParseRoles(e.Roles),
			EmploymentStatus: employee.EmploymentStatus(e.EmploymentStatus),
		})
	}
	return len(seed), nil
}
