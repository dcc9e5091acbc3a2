package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/condoflow/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://app.condoflow.com.br"

func newTestResident() *models.Resident {
	return &models.Resident{
		ID:              uuid.New(),
		FullName:        "Ana Souza",
		Email:           "ana@example.com",
		Phone:           "5511999887766",
		ApartmentNumber: "72",
		BlockName:       "B",
		CondominiumID:   uuid.New(),
		Condominium:     &models.Condominium{Name: "Residencial Aurora"},
		IsActive:        true,
	}
}

func newTestNotification(resident *models.Resident) *models.Notification {
	return &models.Notification{
		ID:              uuid.New(),
		ResidentID:      resident.ID,
		Resident:        resident,
		Phone:           resident.Phone,
		TemplateSlug:    "payment_overdue",
		SecureLinkToken: uuid.NewString(),
		SentAt:          time.Now().Add(-time.Hour),
	}
}

type accessFixture struct {
	notificationRepo *fakeNotificationRepo
	residentRepo     *fakeResidentRepo
	attemptRepo      *fakeAccessAttemptRepo
	roleRepo         *fakeAccountRoleRepo
	identity         *stubIdentity
	svc              AccessService
}

func newAccessFixture(resident *models.Resident, notification *models.Notification) *accessFixture {
	f := &accessFixture{
		notificationRepo: newFakeNotificationRepo(notification),
		residentRepo:     newFakeResidentRepo(resident),
		attemptRepo:      &fakeAccessAttemptRepo{},
		roleRepo:         newFakeAccountRoleRepo(),
		identity:         newStubIdentity(),
	}
	f.svc = NewAccessService(f.notificationRepo, f.residentRepo, f.attemptRepo, f.roleRepo, f.identity, testBaseURL)
	return f
}

func TestVerifyTokenFirstOpenCreatesAccount(t *testing.T) {
	resident := newTestResident()
	notification := newTestNotification(resident)
	f := newAccessFixture(resident, notification)

	result, err := f.svc.VerifyToken(context.Background(), &VerifyInput{
		Token:     notification.SecureLinkToken,
		IPAddress: "203.0.113.9",
		UserAgent: "test-agent",
	})

	require.NoError(t, err)
	assert.True(t, result.IsNewUser)
	assert.Contains(t, result.MagicLink, "auth.example.com")
	assert.Equal(t, "Ana Souza", result.Resident.FullName)
	assert.Equal(t, "Residencial Aurora", result.Resident.CondominiumName)

	// Account linked and role forced to resident.
	require.NotNil(t, resident.SupabaseUserID)
	assert.Equal(t, []string{models.RoleResident}, f.roleRepo.roles[*resident.SupabaseUserID])

	// Audited as success, read marked.
	require.Len(t, f.attemptRepo.attempts, 1)
	assert.True(t, f.attemptRepo.attempts[0].Success)
	assert.True(t, f.attemptRepo.attempts[0].IsNewUser)
	assert.Equal(t, []uuid.UUID{notification.ID}, f.notificationRepo.marked)
}

func TestVerifyTokenSecondOpenReusesAccount(t *testing.T) {
	resident := newTestResident()
	notification := newTestNotification(resident)
	f := newAccessFixture(resident, notification)

	first, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
	require.NoError(t, err)
	require.True(t, first.IsNewUser)

	second, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
	require.NoError(t, err)
	assert.False(t, second.IsNewUser)
	assert.Equal(t, 1, f.identity.createCalls)
}

func TestVerifyTokenUnknownToken(t *testing.T) {
	resident := newTestResident()
	f := newAccessFixture(resident, newTestNotification(resident))

	_, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: uuid.NewString()})
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.Len(t, f.attemptRepo.attempts, 1)
	assert.False(t, f.attemptRepo.attempts[0].Success)
	assert.Equal(t, "token not found", f.attemptRepo.attempts[0].ErrorMessage)
}

func TestVerifyTokenMalformedToken(t *testing.T) {
	resident := newTestResident()
	f := newAccessFixture(resident, newTestNotification(resident))

	_, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: "not-a-uuid"})
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.Equal(t, 0, f.identity.createCalls)
}

func TestVerifyTokenExpiry(t *testing.T) {
	resident := newTestResident()
	notification := newTestNotification(resident)
	notification.SentAt = time.Now().Add(-models.SecureLinkValidity - time.Second)
	f := newAccessFixture(resident, notification)

	_, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
	assert.ErrorIs(t, err, ErrTokenExpired)

	// Expiry never reaches the identity provider or the role table.
	assert.Equal(t, 0, f.identity.createCalls)
	assert.Empty(t, f.roleRepo.roles)
	assert.Nil(t, resident.SupabaseUserID)

	require.Len(t, f.attemptRepo.attempts, 1)
	assert.Equal(t, "expired", f.attemptRepo.attempts[0].ErrorMessage)
}

func TestVerifyTokenJustInsideValidity(t *testing.T) {
	resident := newTestResident()
	notification := newTestNotification(resident)
	notification.SentAt = time.Now().Add(-models.SecureLinkValidity + time.Minute)
	f := newAccessFixture(resident, notification)

	_, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
	assert.NoError(t, err)
}

func TestVerifyTokenExistingEmailFallsBackToLookup(t *testing.T) {
	resident := newTestResident()
	notification := newTestNotification(resident)
	f := newAccessFixture(resident, notification)

	// The account already exists at the provider (e.g. created by a
	// concurrent open that won the race).
	f.identity.accounts[resident.Email] = "existing-account-id"

	result, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
	require.NoError(t, err)
	assert.False(t, result.IsNewUser)
	require.NotNil(t, resident.SupabaseUserID)
	assert.Equal(t, "existing-account-id", *resident.SupabaseUserID)
	assert.Equal(t, 1, f.identity.lookupCalls)
}

func TestVerifyTokenConcurrentOpensConverge(t *testing.T) {
	resident := newTestResident()
	notification := newTestNotification(resident)
	f := newAccessFixture(resident, notification)

	var wg sync.WaitGroup
	results := make([]*VerifyResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// Both calls resolve to the same provider account.
	require.NotNil(t, resident.SupabaseUserID)
	assert.Len(t, f.identity.accounts, 1)
}

func TestVerifyTokenRoleOverride(t *testing.T) {
	resident := newTestResident()
	notification := newTestNotification(resident)
	f := newAccessFixture(resident, notification)

	accountID := "acc-99"
	resident.SupabaseUserID = &accountID
	f.identity.accounts[resident.Email] = accountID
	f.roleRepo.roles[accountID] = []string{"manager", "doorkeeper"}

	_, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
	require.NoError(t, err)

	assert.Equal(t, []string{models.RoleResident}, f.roleRepo.roles[accountID])
}

func TestVerifyTokenOccurrenceRedirect(t *testing.T) {
	resident := newTestResident()
	notification := newTestNotification(resident)
	occurrenceID := uuid.New()
	notification.OccurrenceID = &occurrenceID
	f := newAccessFixture(resident, notification)

	result, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
	require.NoError(t, err)

	require.NotNil(t, result.OccurrenceID)
	assert.Equal(t, occurrenceID, *result.OccurrenceID)
	assert.Contains(t, result.MagicLink, testBaseURL+"/occurrences/"+occurrenceID.String())
}

func TestVerifyTokenPlaceholderEmailForEmaillessResident(t *testing.T) {
	resident := newTestResident()
	resident.Email = ""
	notification := newTestNotification(resident)
	f := newAccessFixture(resident, notification)

	_, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
	require.NoError(t, err)

	expected := "resident-" + resident.ID.String() + "@residents.condoflow.local"
	_, ok := f.identity.accounts[expected]
	assert.True(t, ok, "expected placeholder address %s to be provisioned", expected)
}

func TestVerifyTokenAuditFailureDoesNotBlock(t *testing.T) {
	resident := newTestResident()
	notification := newTestNotification(resident)
	f := newAccessFixture(resident, notification)
	f.attemptRepo.createErr = assert.AnError

	result, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
	require.NoError(t, err)
	assert.NotEmpty(t, result.MagicLink)
}

func TestVerifyTokenMarkReadFailureIsBestEffort(t *testing.T) {
	resident := newTestResident()
	notification := newTestNotification(resident)
	f := newAccessFixture(resident, notification)
	f.notificationRepo.markErr = assert.AnError

	result, err := f.svc.VerifyToken(context.Background(), &VerifyInput{Token: notification.SecureLinkToken})
	require.NoError(t, err)
	assert.NotEmpty(t, result.MagicLink)
}
