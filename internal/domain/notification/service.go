package notification

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

// Service defines the notification service interface
type Service interface {
	Dispatcher

	// Read side, scoped to every inbox the actor can read
	List(ctx context.Context, actor user.Actor, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	UnreadCount(ctx context.Context, actor user.Actor) (int, error)
	MarkAsRead(ctx context.Context, actor user.Actor, req MarkAsReadRequest) error

	// SSE subscription
	Subscribe(ctx context.Context, actor user.Actor) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
