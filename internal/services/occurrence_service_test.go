package services

import (
	"context"
	"testing"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/whatsapp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func occurrenceFixture(resident *models.Resident) (*fakeOccurrenceRepo, *fakeNotificationRepo, *fakeDeliveryAttemptRepo, *stubAdapter, OccurrenceService) {
	occurrenceRepo := newFakeOccurrenceRepo()
	residentRepo := newFakeResidentRepo(resident)
	notificationRepo := newFakeNotificationRepo()

	configRepo := &fakeProviderConfigRepo{active: activeZAPIConfig()}
	templateRepo := newFakeTemplateRepo(&models.MessageTemplate{
		ID:       uuid.New(),
		Slug:     "occurrence_created",
		Name:     "Nova ocorrência",
		Content:  "Olá {nome}, nova ocorrência: {titulo}. Acesse: {link}",
		IsActive: true,
	})
	attemptRepo := &fakeDeliveryAttemptRepo{}
	adapter := &stubAdapter{
		provider: models.ProviderZAPI,
		result:   whatsapp.SendResult{Success: true, MessageID: "occ-1"},
	}
	dispatcher := newTestDispatcher(configRepo, templateRepo, attemptRepo, adapter)

	svc := NewOccurrenceService(occurrenceRepo, residentRepo, notificationRepo, dispatcher, testBaseURL)
	return occurrenceRepo, notificationRepo, attemptRepo, adapter, svc
}

func TestCreateOccurrenceNotifiesResident(t *testing.T) {
	resident := newTestResident()
	occurrenceRepo, notificationRepo, attemptRepo, adapter, svc := occurrenceFixture(resident)

	occurrence, err := svc.Create(context.Background(), &models.OccurrenceCreateRequest{
		Title:      "Vazamento na garagem",
		ResidentID: resident.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.OccurrenceStatusOpen, occurrence.Status)
	assert.Equal(t, resident.CondominiumID, occurrence.CondominiumID)
	assert.Len(t, occurrenceRepo.occurrences, 1)

	// A notification with a secure token points back at the occurrence.
	require.Len(t, notificationRepo.notifications, 1)
	for _, n := range notificationRepo.notifications {
		assert.NotEmpty(t, n.SecureLinkToken)
		require.NotNil(t, n.OccurrenceID)
		assert.Equal(t, occurrence.ID, *n.OccurrenceID)
	}

	require.Len(t, attemptRepo.attempts, 1)
	assert.True(t, attemptRepo.attempts[0].Success)

	require.Len(t, adapter.sent, 1)
	assert.Contains(t, adapter.sent[0], "Vazamento na garagem")
	assert.Contains(t, adapter.sent[0], testBaseURL+"/acesso/")
}

func TestCreateOccurrenceUnknownResident(t *testing.T) {
	resident := newTestResident()
	_, _, _, _, svc := occurrenceFixture(resident)

	_, err := svc.Create(context.Background(), &models.OccurrenceCreateRequest{
		Title:      "Vazamento",
		ResidentID: uuid.New(),
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateOccurrenceSucceedsWhenDispatchFails(t *testing.T) {
	resident := newTestResident()
	occurrenceRepo, _, attemptRepo, adapter, svc := occurrenceFixture(resident)
	adapter.result = whatsapp.SendResult{Success: false, Error: "gateway offline"}

	occurrence, err := svc.Create(context.Background(), &models.OccurrenceCreateRequest{
		Title:      "Portão quebrado",
		ResidentID: resident.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, occurrence.ID)
	assert.Len(t, occurrenceRepo.occurrences, 1)

	// The failure lives in the delivery audit, not in the response.
	require.Len(t, attemptRepo.attempts, 1)
	assert.False(t, attemptRepo.attempts[0].Success)
}

func TestCreateOccurrenceSkipsNotificationWithoutPhone(t *testing.T) {
	resident := newTestResident()
	resident.Phone = ""
	_, notificationRepo, attemptRepo, _, svc := occurrenceFixture(resident)

	_, err := svc.Create(context.Background(), &models.OccurrenceCreateRequest{
		Title:      "Sem telefone",
		ResidentID: resident.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, notificationRepo.notifications)
	assert.Empty(t, attemptRepo.attempts)
}
