package notification

import (
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipients(intents []Intent) []string {
	out := make([]string, len(intents))
	for i, in := range intents {
		out[i] = in.Recipient
	}
	return out
}

func TestBuildIntents(t *testing.T) {
	employee := user.Actor{EmployeeID: "emp-1", Roles: []user.Role{user.RoleEmployee}, Branch: "JKT"}
	hr := user.Actor{EmployeeID: "hr-1", Roles: []user.Role{user.RoleEmployee, user.RoleHR}, Branch: "JKT"}
	md := user.Actor{EmployeeID: "md-1", Roles: []user.Role{user.RoleMD}}

	empSubject := Subject{EmployeeID: "emp-1", Branch: "JKT", Roles: []user.Role{user.RoleEmployee}}
	hrSubject := Subject{EmployeeID: "hr-2", Branch: "BDG", Roles: []user.Role{user.RoleEmployee, user.RoleHR}}
	mdSubject := Subject{EmployeeID: "md-2", Roles: []user.Role{user.RoleEmployee, user.RoleMD}}

	cases := []struct {
		name    string
		ev      EventType
		acting  user.Role
		actor   user.Actor
		subject Subject
		want    []string
	}{
		{"employee submits own", TypeRequestSubmitted, user.RoleEmployee, employee, empSubject, []string{"emp-1", "HR_JKT"}},
		{"hr approves employee", TypeRequestApproved, user.RoleHR, hr, empSubject, []string{"emp-1", "MD"}},
		{"md approves employee", TypeRequestApproved, user.RoleMD, md, empSubject, []string{"emp-1"}},
		{"hr submits as employee", TypeRequestSubmitted, user.RoleEmployee, hr, Subject{EmployeeID: "hr-1", Branch: "JKT", Roles: hr.Roles}, []string{"hr-1"}},
		{"hr subject of employee action", TypeRequestSubmitted, user.RoleEmployee, user.Actor{EmployeeID: "hr-2", Roles: []user.Role{user.RoleEmployee}}, hrSubject, []string{"hr-2"}},
		{"md subject of hr action", TypeRequestRejected, user.RoleHR, hr, mdSubject, []string{"md-2"}},
		{"hr posts for employee of other branch", TypeRequestPosted, user.RoleHR, hr, Subject{EmployeeID: "emp-9", Branch: "BDG"}, []string{"emp-9", "MD"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			intents := BuildIntents(Event{Type: c.ev, Kind: "leave", RequestID: "req-1", ActorID: c.actor.EmployeeID}, c.acting, c.actor, c.subject)
			assert.Equal(t, c.want, recipients(intents))
		})
	}
}

func TestBuildIntents_BranchScopedHR(t *testing.T) {
	actor := user.Actor{EmployeeID: "emp-5", Roles: []user.Role{user.RoleEmployee}}
	intents := BuildIntents(Event{Type: TypeRequestSubmitted, Kind: "loan", RequestID: "r"}, user.RoleEmployee, actor, Subject{EmployeeID: "emp-5", Branch: "SBY"})
	require.Len(t, intents, 2)
	assert.Equal(t, "HR_SBY", intents[1].Recipient)

	intents = BuildIntents(Event{Type: TypeRequestSubmitted, Kind: "loan", RequestID: "r"}, user.RoleEmployee, actor, Subject{EmployeeID: "emp-5"})
	assert.Equal(t, []string{"emp-5"}, recipients(intents))
}

func TestBuildIntents_PriorityAndContent(t *testing.T) {
	actor := user.Actor{EmployeeID: "emp-1", Roles: []user.Role{user.RoleEmployee}}
	subject := Subject{EmployeeID: "emp-1", Name: "Budi", Branch: "JKT"}

	submitted := BuildIntents(Event{Type: TypeRequestSubmitted, Kind: "salary_advance", KindLabel: "Salary advance", RequestID: "req-7"}, user.RoleEmployee, actor, subject)
	for _, in := range submitted {
		assert.Equal(t, PriorityNormal, in.Priority)
		assert.Equal(t, "/requests/req-7", in.Link)
	}
	assert.Equal(t, "Salary advance request submitted", submitted[0].Title)
	assert.Contains(t, submitted[1].Description, "Budi")

	hr := user.Actor{EmployeeID: "hr-1", Roles: []user.Role{user.RoleHR}}
	approved := BuildIntents(Event{Type: TypeRequestApproved, Kind: "leave", RequestID: "req-7"}, user.RoleHR, hr, subject)
	for _, in := range approved {
		assert.Equal(t, PriorityHigh, in.Priority)
	}
}

func TestRecipientsFor(t *testing.T) {
	assert.Equal(t, []string{"e1"}, RecipientsFor(user.Actor{EmployeeID: "e1", Roles: []user.Role{user.RoleEmployee}}))
	assert.Equal(t, []string{"h1", "HR_JKT"}, RecipientsFor(user.Actor{EmployeeID: "h1", Roles: []user.Role{user.RoleHR}, Branch: "JKT"}))
	assert.Equal(t, []string{"m1", "MD"}, RecipientsFor(user.Actor{EmployeeID: "m1", Roles: []user.Role{user.RoleMD}}))
}
