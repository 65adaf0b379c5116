package notification

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

const (
	hrGroupPrefix = "HR_"
	mdGroupKey    = "MD"
)

// HRGroup is the recipient key of the HR team of a branch.
func HRGroup(branch string) string {
	return hrGroupPrefix + branch
}

// MDGroup is the recipient key of the managing directors.
func MDGroup() string {
	return mdGroupKey
}

// GroupFor returns the recipient key that represents role for a branch.
func GroupFor(role user.Role, branch string) (string, bool) {
	switch role {
	case user.RoleHR:
		if branch == "" {
			return "", false
		}
		return HRGroup(branch), true
	case user.RoleMD:
		return MDGroup(), true
	}
	return "", false
}

// RecipientsFor lists every key whose notifications the actor may read.
func RecipientsFor(a user.Actor) []string {
	keys := []string{a.EmployeeID}
	if a.HasRole(user.RoleHR) && a.Branch != "" {
		keys = append(keys, HRGroup(a.Branch))
	}
	if a.IsMD() {
		keys = append(keys, MDGroup())
	}
	return keys
}

// Event describes a request mutation.
type Event struct {
	Type      EventType
	Kind      string
	KindLabel string
	RequestID string
	ActorID   string
}

// Subject is the employee the request is about.
type Subject struct {
	EmployeeID string
	Name       string
	Branch     string
	Roles      []user.Role
}

// Intent is an abstract "who should be told what". Delivery is the dispatcher's job.
type Intent struct {
	Recipient   string
	ActorID     string
	Type        EventType
	Kind        string
	RequestID   string
	Title       string
	Description string
	Link        string
	Priority    Priority
}

// BuildIntents computes the audience of an event.
//
// The subject is always told. The role one step above actingRole in the chain
// employee -> hr -> md is told as well, unless the actor already holds that
// role or the subject does. HR is addressed per subject branch.
func BuildIntents(ev Event, actingRole user.Role, actor user.Actor, subject Subject) []Intent {
	priority := PriorityNormal
	if ev.Type.IsDecision() {
		priority = PriorityHigh
	}
	link := "/requests/" + ev.RequestID

	intents := []Intent{{
		Recipient:   subject.EmployeeID,
		ActorID:     ev.ActorID,
		Type:        ev.Type,
		Kind:        ev.Kind,
		RequestID:   ev.RequestID,
		Title:       subjectTitle(ev),
		Description: subjectDescription(ev),
		Link:        link,
		Priority:    priority,
	}}

	up, ok := actingRole.Above()
	if !ok || actor.HasRole(up) || hasRole(subject.Roles, up) {
		return intents
	}
	group, ok := GroupFor(up, subject.Branch)
	if !ok {
		return intents
	}

	return append(intents, Intent{
		Recipient:   group,
		ActorID:     ev.ActorID,
		Type:        ev.Type,
		Kind:        ev.Kind,
		RequestID:   ev.RequestID,
		Title:       escalationTitle(ev),
		Description: escalationDescription(ev, subject),
		Link:        link,
		Priority:    priority,
	})
}

func hasRole(roles []user.Role, r user.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

func label(ev Event) string {
	if ev.KindLabel != "" {
		return ev.KindLabel
	}
	return strings.ReplaceAll(ev.Kind, "_", " ")
}

func subjectTitle(ev Event) string {
	switch ev.Type {
	case TypeRequestSubmitted:
		return fmt.Sprintf("%s request submitted", label(ev))
	case TypeRequestPosted:
		return fmt.Sprintf("%s recorded", label(ev))
	case TypeRequestApproved:
		return fmt.Sprintf("%s request approved", label(ev))
	case TypeRequestRejected:
		return fmt.Sprintf("%s request rejected", label(ev))
	}
	return label(ev)
}

func subjectDescription(ev Event) string {
	l := strings.ToLower(label(ev))
	switch ev.Type {
	case TypeRequestSubmitted:
		return fmt.Sprintf("Your %s request has been submitted and is awaiting approval.", l)
	case TypeRequestPosted:
		return fmt.Sprintf("A %s has been recorded on your behalf and approved.", l)
	case TypeRequestApproved:
		return fmt.Sprintf("Your %s request has been approved.", l)
	case TypeRequestRejected:
		return fmt.Sprintf("Your %s request has been rejected.", l)
	}
	return ""
}

func escalationTitle(ev Event) string {
	switch ev.Type {
	case TypeRequestSubmitted:
		return fmt.Sprintf("New %s request", strings.ToLower(label(ev)))
	case TypeRequestPosted:
		return fmt.Sprintf("%s posted", label(ev))
	case TypeRequestApproved:
		return fmt.Sprintf("%s request approved", label(ev))
	case TypeRequestRejected:
		return fmt.Sprintf("%s request rejected", label(ev))
	}
	return label(ev)
}

func escalationDescription(ev Event, s Subject) string {
	who := s.Name
	if who == "" {
		who = "Employee " + s.EmployeeID
	}
	l := strings.ToLower(label(ev))
	switch ev.Type {
	case TypeRequestSubmitted:
		return fmt.Sprintf("%s submitted a %s request.", who, l)
	case TypeRequestPosted:
		return fmt.Sprintf("A %s was posted for %s.", l, who)
	case TypeRequestApproved:
		return fmt.Sprintf("The %s request of %s was approved.", l, who)
	case TypeRequestRejected:
		return fmt.Sprintf("The %s request of %s was rejected.", l, who)
	}
	return ""
}
