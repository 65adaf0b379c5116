package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config

	queue   chan *notification.Notification
	wg      sync.WaitGroup
	stopCh  chan struct{}
	mu      sync.RWMutex
	stopped bool
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		queue:  make(chan *notification.Notification, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// worker persists queued notifications in batches and pushes them to live subscribers
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]*notification.Notification, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			slog.Error("notification batch insert failed", "worker", id, "count", len(batch), "error", err)
		} else {
			slog.Debug("notifications inserted", "worker", id, "count", len(batch))
			for _, n := range batch {
				s.publish(n)
			}
		}

		batch = make([]*notification.Notification, 0, s.config.BatchSize)
	}

	for {
		select {
		case n := <-s.queue:
			batch = append(batch, n)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			for {
				select {
				case n := <-s.queue:
					batch = append(batch, n)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) publish(n *notification.Notification) {
	s.hub.Publish(n.Recipient, sse.Event{
		Event: "notification",
		Data:  notification.NewResponse(n),
	})
}

func fromIntent(in notification.Intent) *notification.Notification {
	n := &notification.Notification{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Recipient: in.Recipient,
		Type:      in.Type,
		Kind:      in.Kind,
		RequestID: in.RequestID,
		Title:     in.Title,
		Message:   in.Description,
		Link:      in.Link,
		Priority:  in.Priority,
		CreatedAt: time.Now(),
	}
	if in.ActorID != "" {
		actorID := in.ActorID
		n.ActorID = &actorID
	}
	return n
}

// Dispatch queues intents for asynchronous delivery. When the queue is full
// the notification is written synchronously instead.
func (s *service) Dispatch(ctx context.Context, intents []notification.Intent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return notification.ErrDispatcherStopped
	}

	for _, in := range intents {
		n := fromIntent(in)
		select {
		case s.queue <- n:
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := s.directInsert(ctx, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// directInsert inserts a notification directly when queue is full
func (s *service) directInsert(ctx context.Context, n *notification.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.publish(n)
	return nil
}

// List retrieves the paginated merged inbox of the actor
func (s *service) List(ctx context.Context, actor user.Actor, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if actor.EmployeeID == "" {
		return nil, user.ErrMissingIdentity
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	recipients := notification.RecipientsFor(actor)

	notifications, total, err := s.repo.ListByRecipients(ctx, recipients, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.CountUnread(ctx, recipients)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.NewResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// UnreadCount returns the count of unread notifications across the actor's inboxes
func (s *service) UnreadCount(ctx context.Context, actor user.Actor) (int, error) {
	if actor.EmployeeID == "" {
		return 0, user.ErrMissingIdentity
	}
	return s.repo.CountUnread(ctx, notification.RecipientsFor(actor))
}

// MarkAsRead marks specified notifications as read
func (s *service) MarkAsRead(ctx context.Context, actor user.Actor, req notification.MarkAsReadRequest) error {
	if actor.EmployeeID == "" {
		return user.ErrMissingIdentity
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, notification.RecipientsFor(actor))
}

// Subscribe merges the live events of every inbox the actor can read
func (s *service) Subscribe(ctx context.Context, actor user.Actor) (<-chan notification.SSEEvent, func()) {
	out := make(chan notification.SSEEvent, 10)
	done := make(chan struct{})

	var (
		fwd      sync.WaitGroup
		cleanups []func()
	)
	for _, key := range notification.RecipientsFor(actor) {
		ch, cleanup := s.hub.Subscribe(key)
		cleanups = append(cleanups, cleanup)

		fwd.Add(1)
		go func() {
			defer fwd.Done()
			for {
				select {
				case event, ok := <-ch:
					if !ok {
						return
					}
					resp, ok := event.Data.(notification.NotificationResponse)
					if !ok {
						continue
					}
					select {
					case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
					case <-done:
						return
					case <-ctx.Done():
						return
					}
				case <-done:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		fwd.Wait()
		close(out)
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			for _, cleanup := range cleanups {
				cleanup()
			}
		})
	}
}

// Stop flushes queued notifications and stops the workers
func (s *service) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	slog.Info("notification service stopped")
}
