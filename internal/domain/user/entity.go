package user

import "slices"

type Role string

const (
	RoleEmployee Role = "employee" // Regular employee
	RoleHR       Role = "hr"       // Branch-scoped HR
	RoleMD       Role = "md"       // Managing director - global authority
)

// rank orders roles along the escalation chain employee -> hr -> md.
var rank = map[Role]int{
	RoleEmployee: 0,
	RoleHR:       1,
	RoleMD:       2,
}

func (r Role) IsValid() bool {
	_, ok := rank[r]
	return ok
}

// Above returns the next role up the chain, or false at the top.
func (r Role) Above() (Role, bool) {
	switch r {
	case RoleEmployee:
		return RoleHR, true
	case RoleHR:
		return RoleMD, true
	}
	return "", false
}

// Highest returns the most senior role in roles, defaulting to employee.
func Highest(roles []Role) Role {
	best := RoleEmployee
	for _, r := range roles {
		if rr, ok := rank[r]; ok && rr > rank[best] {
			best = r
		}
	}
	return best
}

// Actor is the caller identity every operation receives. It is produced by the
// identity context (bearer token claims) and never authenticated here.
type Actor struct {
	EmployeeID string
	Roles      []Role
	Branch     string
}

func (a Actor) HasRole(role Role) bool {
	return slices.Contains(a.Roles, role)
}

// IsPrivileged checks if actor is HR or MD
func (a Actor) IsPrivileged() bool {
	return a.HasRole(RoleHR) || a.HasRole(RoleMD)
}

// IsMD checks if actor is a managing director
func (a Actor) IsMD() bool {
	return a.HasRole(RoleMD)
}

// IsSelf reports whether the actor is the given employee.
func (a Actor) IsSelf(employeeID string) bool {
	return a.EmployeeID != "" && a.EmployeeID == employeeID
}

// HighestRole returns the actor's most senior role.
func (a Actor) HighestRole() Role {
	return Highest(a.Roles)
}

// CanAccess implements the self-or-privileged read rule.
func (a Actor) CanAccess(employeeID string) bool {
	return a.IsSelf(employeeID) || a.IsPrivileged()
}

// CanManageBranch reports whether the actor has authority over employees of branch.
// MD is global; HR only within its own branch.
func (a Actor) CanManageBranch(branch string) bool {
	if a.IsMD() {
		return true
	}
	return a.HasRole(RoleHR) && a.Branch != "" && a.Branch == branch
}

// RequirePrivileged returns ErrForbidden unless the actor is HR or MD.
func (a Actor) RequirePrivileged() error {
	if !a.IsPrivileged() {
		return ErrForbidden
	}
	return nil
}

// RequireAccess returns ErrForbidden unless the actor is the employee or privileged.
func (a Actor) RequireAccess(employeeID string) error {
	if !a.CanAccess(employeeID) {
		return ErrForbidden
	}
	return nil
}

// ParseRoles converts raw role strings, dropping unknown values.
func ParseRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, s := range raw {
		r := Role(s)
		if r.IsValid() && !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	return roles
}
