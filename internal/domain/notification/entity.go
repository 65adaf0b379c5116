package notification

import (
	"time"
)

// EventType is the request lifecycle mutation that triggers notifications.
type EventType string

const (
	TypeRequestSubmitted EventType = "request_submitted"
	TypeRequestPosted    EventType = "request_posted"
	TypeRequestApproved  EventType = "request_approved"
	TypeRequestRejected  EventType = "request_rejected"
)

func (t EventType) IsDecision() bool {
	return t == TypeRequestApproved || t == TypeRequestRejected || t == TypeRequestPosted
}

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification is a persisted, delivered intent.
type Notification struct {
	ID        string
	Recipient string
	ActorID   *string
	Type      EventType
	Kind      string
	RequestID string
	Title     string
	Message   string
	Link      string
	Priority  Priority
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
