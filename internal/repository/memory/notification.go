package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/google/uuid"
)

type notificationRepository struct {
	store *Store
}

func NewNotificationRepository(s *Store) notification.Repository {
	return &notificationRepository{store: s}
}

func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.CreateBatch(ctx, []*notification.Notification{n})
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	defer r.store.lockWrite(ctx)()

	for _, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.Must(uuid.NewV7()).String()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		if n.Priority == "" {
			n.Priority = notification.PriorityNormal
		}
		r.store.notifications = append(r.store.notifications, *n)
	}
	return nil
}

func (r *notificationRepository) ListByRecipients(_ context.Context, recipients []string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	r.store.mu.RLock()
	matched := []notification.Notification{}
	for _, n := range r.store.notifications {
		if !slices.Contains(recipients, n.Recipient) || (unreadOnly && n.IsRead) {
			continue
		}
		matched = append(matched, n)
	}
	r.store.mu.RUnlock()

	slices.SortFunc(matched, func(a, b notification.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	total := len(matched)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := min(start+pageSize, total)

	out := make([]*notification.Notification, 0, end-start)
	for i := start; i < end; i++ {
		n := matched[i]
		out = append(out, &n)
	}
	return out, total, nil
}

func (r *notificationRepository) CountUnread(_ context.Context, recipients []string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, n := range r.store.notifications {
		if !n.IsRead && slices.Contains(recipients, n.Recipient) {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, recipients []string) error {
	defer r.store.lockWrite(ctx)()

	now := time.Now()
	for i := range r.store.notifications {
		n := &r.store.notifications[i]
		if n.IsRead || !slices.Contains(ids, n.ID) || !slices.Contains(recipients, n.Recipient) {
			continue
		}
		n.IsRead = true
		n.ReadAt = &now
	}
	return nil
}
