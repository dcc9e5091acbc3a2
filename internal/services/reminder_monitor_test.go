package services

import (
	"context"
	"testing"
	"time"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/whatsapp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reminderFixture(t *testing.T, unread []models.Notification) (*fakeJobRepo, *fakeDeliveryAttemptRepo, *stubAdapter, ReminderMonitor) {
	t.Helper()

	configRepo := &fakeProviderConfigRepo{active: activeZAPIConfig()}
	templateRepo := newFakeTemplateRepo(paymentTemplate())
	attemptRepo := &fakeDeliveryAttemptRepo{}
	adapter := &stubAdapter{
		provider: models.ProviderZAPI,
		result:   whatsapp.SendResult{Success: true, MessageID: "remind-1"},
	}
	dispatcher := newTestDispatcher(configRepo, templateRepo, attemptRepo, adapter)

	notificationRepo := newFakeNotificationRepo()
	notificationRepo.unread = unread

	jobRepo := newFakeJobRepo()
	monitor := NewReminderMonitor(notificationRepo, dispatcher, NewJobRunner(jobRepo), testBaseURL, time.Hour)
	return jobRepo, attemptRepo, adapter, monitor
}

func unreadNotification() models.Notification {
	return models.Notification{
		ID:              uuid.New(),
		ResidentID:      uuid.New(),
		Resident:        &models.Resident{FullName: "Ana Souza"},
		Phone:           "5511999887766",
		TemplateSlug:    "payment_confirmed",
		SecureLinkToken: uuid.NewString(),
		SentAt:          time.Now().Add(-48 * time.Hour),
	}
}

func TestReminderPassRedispatchesUnread(t *testing.T) {
	notification := unreadNotification()
	jobRepo, attemptRepo, adapter, monitor := reminderFixture(t, []models.Notification{notification})

	require.NoError(t, monitor.RunOnce(context.Background()))

	require.Len(t, jobRepo.executions, 1)
	assert.Equal(t, models.JobStatusSuccess, jobRepo.executions[0].Status)
	assert.Equal(t, JobUnreadReminders, jobRepo.executions[0].JobName)

	require.Len(t, attemptRepo.attempts, 1)
	assert.Equal(t, JobUnreadReminders, attemptRepo.attempts[0].FunctionName)

	// The reminder carries the resident name and the secure link.
	require.Len(t, adapter.sent, 1)
	assert.Contains(t, adapter.sent[0], "Ana")
}

func TestReminderPassSkippedWhenPaused(t *testing.T) {
	notification := unreadNotification()
	jobRepo, attemptRepo, _, monitor := reminderFixture(t, []models.Notification{notification})

	_, err := jobRepo.SetPaused(context.Background(), JobUnreadReminders, true)
	require.NoError(t, err)

	require.NoError(t, monitor.RunOnce(context.Background()))

	require.Len(t, jobRepo.executions, 1)
	assert.Equal(t, models.JobStatusSkipped, jobRepo.executions[0].Status)
	assert.Empty(t, attemptRepo.attempts)
}

func TestReminderPassNoUnreadStillLogsExecution(t *testing.T) {
	jobRepo, attemptRepo, _, monitor := reminderFixture(t, nil)

	require.NoError(t, monitor.RunOnce(context.Background()))

	require.Len(t, jobRepo.executions, 1)
	assert.Equal(t, models.JobStatusSuccess, jobRepo.executions[0].Status)
	assert.Empty(t, attemptRepo.attempts)
}

func TestReminderFailedDispatchCountsAsItemError(t *testing.T) {
	notification := unreadNotification()
	jobRepo, _, adapter, monitor := reminderFixture(t, []models.Notification{notification})
	adapter.result = whatsapp.SendResult{Success: false, Error: "number not on whatsapp"}

	require.NoError(t, monitor.RunOnce(context.Background()))

	require.Len(t, jobRepo.executions, 1)
	assert.Equal(t, models.JobStatusError, jobRepo.executions[0].Status)
}
