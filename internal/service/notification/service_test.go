package notification

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (notification.Service, *sse.Hub) {
	t.Helper()
	hub := sse.NewHub()
	svc := NewNotificationService(memory.NewNotificationRepository(memory.NewStore()), hub, Config{
		BatchSize:     10,
		FlushInterval: 10 * time.Millisecond,
		WorkerCount:   1,
		QueueSize:     10,
	})
	t.Cleanup(svc.Stop)
	return svc, hub
}

func intentsFor(employeeID, branch string) []notification.Intent {
	return notification.BuildIntents(
		notification.Event{Type: notification.TypeRequestSubmitted, Kind: "leave", RequestID: "req-1", ActorID: employeeID},
		user.RoleEmployee,
		user.Actor{EmployeeID: employeeID, Roles: []user.Role{user.RoleEmployee}, Branch: branch},
		notification.Subject{EmployeeID: employeeID, Branch: branch, Roles: []user.Role{user.RoleEmployee}},
	)
}

func TestService_DispatchPersistsOnStop(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Dispatch(ctx, intentsFor("emp-1", "JKT")))
	svc.Stop()

	employee := user.Actor{EmployeeID: "emp-1", Roles: []user.Role{user.RoleEmployee}, Branch: "JKT"}
	list, err := svc.List(ctx, employee, 1, 20, false)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "emp-1", list.Notifications[0].Recipient)

	hr := user.Actor{EmployeeID: "hr-1", Roles: []user.Role{user.RoleEmployee, user.RoleHR}, Branch: "JKT"}
	list, err = svc.List(ctx, hr, 1, 20, true)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "HR_JKT", list.Notifications[0].Recipient)
	assert.Equal(t, 1, list.UnreadCount)

	require.NoError(t, svc.MarkAsRead(ctx, hr, notification.MarkAsReadRequest{
		NotificationIDs: []string{list.Notifications[0].ID},
	}))
	count, err := svc.UnreadCount(ctx, hr)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestService_DispatchAfterStop(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Stop()
	err := svc.Dispatch(context.Background(), intentsFor("emp-1", "JKT"))
	assert.ErrorIs(t, err, notification.ErrDispatcherStopped)
}

func TestService_SubscribeReceivesGroupEvents(t *testing.T) {
	svc, hub := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hr := user.Actor{EmployeeID: "hr-1", Roles: []user.Role{user.RoleHR}, Branch: "JKT"}
	events, cleanup := svc.Subscribe(ctx, hr)
	defer cleanup()

	require.Eventually(t, func() bool { return hub.SubscriberCount("HR_JKT") == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, svc.Dispatch(ctx, intentsFor("emp-1", "JKT")))

	select {
	case ev := <-events:
		assert.Equal(t, "notification", ev.Event)
		assert.Equal(t, "HR_JKT", ev.Data.Recipient)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestService_ListRequiresIdentity(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.List(context.Background(), user.Actor{}, 1, 20, false)
	assert.ErrorIs(t, err, user.ErrMissingIdentity)
}
