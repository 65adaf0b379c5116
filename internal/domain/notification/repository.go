package notification

import (
	"context"
)

// Repository stores delivered notifications keyed by recipient.
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	ListByRecipients(ctx context.Context, recipients []string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	CountUnread(ctx context.Context, recipients []string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, recipients []string) error
}

// Dispatcher accepts intents for delivery. Delivery and retry are its concern.
type Dispatcher interface {
	Dispatch(ctx context.Context, intents []Intent) error
}
