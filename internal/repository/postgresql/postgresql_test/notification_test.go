package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_GroupInbox(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewNotificationRepository(setup.DB)
	ctx := context.Background()

	emp := setup.SeedEmployee(t, "JKT")
	reqID := uuid.Must(uuid.NewV7()).String()
	batch := []*notification.Notification{
		{Recipient: emp, Type: notification.TypeRequestSubmitted, Kind: "leave", RequestID: reqID, Title: "a", Message: "a"},
		{Recipient: notification.HRGroup("JKT"), Type: notification.TypeRequestSubmitted, Kind: "leave", RequestID: reqID, Title: "b", Message: "b"},
		{Recipient: notification.MDGroup(), Type: notification.TypeRequestSubmitted, Kind: "leave", RequestID: reqID, Title: "c", Message: "c"},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	inbox := []string{emp, notification.HRGroup("JKT")}
	list, total, err := repo.ListByRecipients(ctx, inbox, 1, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	unread, err := repo.CountUnread(ctx, inbox)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	// marking the MD row from an inbox that does not hold it is a no-op
	require.NoError(t, repo.MarkAsRead(ctx, []string{batch[1].ID, batch[2].ID}, inbox))
	unread, err = repo.CountUnread(ctx, inbox)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	unread, err = repo.CountUnread(ctx, []string{notification.MDGroup()})
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}
