package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/condoflow/backend/internal/auth"
	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
)

// placeholderEmailDomain synthesizes a deterministic address for residents
// registered without an email.
const placeholderEmailDomain = "residents.condoflow.local"

// VerifyInput is one secure link opening.
type VerifyInput struct {
	Token     string
	IPAddress string
	UserAgent string
}

// VerifyResult is the successful outcome of a verification.
type VerifyResult struct {
	MagicLink    string                 `json:"magic_link"`
	Resident     models.ResidentSummary `json:"resident"`
	OccurrenceID *uuid.UUID             `json:"occurrence_id,omitempty"`
	IsNewUser    bool                   `json:"is_new_user"`
}

// AccessService validates secure link tokens and exchanges them for
// passwordless sign-in links. Every call is audited, whatever the outcome.
type AccessService interface {
	VerifyToken(ctx context.Context, input *VerifyInput) (*VerifyResult, error)
}

type accessService struct {
	notificationRepo repository.NotificationRepository
	residentRepo     repository.ResidentRepository
	attemptRepo      repository.AccessAttemptRepository
	roleRepo         repository.AccountRoleRepository
	identity         auth.Provider
	appBaseURL       string
}

func NewAccessService(
	notificationRepo repository.NotificationRepository,
	residentRepo repository.ResidentRepository,
	attemptRepo repository.AccessAttemptRepository,
	roleRepo repository.AccountRoleRepository,
	identity auth.Provider,
	appBaseURL string,
) AccessService {
	return &accessService{
		notificationRepo: notificationRepo,
		residentRepo:     residentRepo,
		attemptRepo:      attemptRepo,
		roleRepo:         roleRepo,
		identity:         identity,
		appBaseURL:       appBaseURL,
	}
}

func (s *accessService) VerifyToken(ctx context.Context, input *VerifyInput) (*VerifyResult, error) {
	attempt := &models.AccessAttempt{
		TokenID:   input.Token,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
	}

	if _, err := uuid.Parse(input.Token); err != nil {
		attempt.ErrorMessage = "malformed token"
		s.audit(ctx, attempt)
		return nil, ErrTokenNotFound
	}

	notification, err := s.notificationRepo.FindByToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			attempt.ErrorMessage = "token not found"
			s.audit(ctx, attempt)
			return nil, ErrTokenNotFound
		}
		attempt.ErrorMessage = err.Error()
		s.audit(ctx, attempt)
		return nil, err
	}

	attempt.ResidentID = &notification.ResidentID
	attempt.OccurrenceID = notification.OccurrenceID

	// Expiry short-circuits before any identity mutation.
	if time.Now().After(notification.ExpiresAt()) {
		attempt.ErrorMessage = "expired"
		s.audit(ctx, attempt)
		return nil, ErrTokenExpired
	}

	resident := notification.Resident
	if resident == nil {
		attempt.ErrorMessage = "notification has no resident"
		s.audit(ctx, attempt)
		return nil, errors.New("notification has no resident")
	}

	userID, email, isNewUser, err := s.resolveIdentity(ctx, resident)
	if err != nil {
		attempt.ErrorMessage = err.Error()
		s.audit(ctx, attempt)
		return nil, err
	}
	attempt.UserID = userID
	attempt.IsNewUser = isNewUser

	// An account answering a resident link always ends up with the
	// resident role, replacing whatever it carried before.
	if err := s.roleRepo.ReplaceRole(ctx, userID, models.RoleResident); err != nil {
		attempt.ErrorMessage = "role assignment failed: " + err.Error()
		s.audit(ctx, attempt)
		return nil, err
	}

	redirectTo := s.appBaseURL + "/"
	if notification.OccurrenceID != nil {
		redirectTo = fmt.Sprintf("%s/occurrences/%s", s.appBaseURL, notification.OccurrenceID)
	}

	magicLink, err := s.identity.GenerateSignInLink(ctx, email, redirectTo)
	if err != nil {
		attempt.ErrorMessage = "link generation failed: " + err.Error()
		s.audit(ctx, attempt)
		return nil, err
	}

	attempt.Success = true
	attempt.RedirectURL = redirectTo
	s.audit(ctx, attempt)

	// First-open metadata is best-effort and must never fail the flow.
	if err := s.notificationRepo.MarkRead(ctx, notification.ID, input.IPAddress, input.UserAgent); err != nil {
		log.Printf("failed to mark notification %s as read: %v", notification.ID, err)
	}

	return &VerifyResult{
		MagicLink:    magicLink,
		Resident:     models.ToResidentSummary(resident),
		OccurrenceID: notification.OccurrenceID,
		IsNewUser:    isNewUser,
	}, nil
}

// resolveIdentity returns the identity-provider account for a resident,
// provisioning and linking one if needed. A creation race is resolved by
// falling back to lookup, so concurrent first opens converge on the same
// account.
func (s *accessService) resolveIdentity(ctx context.Context, resident *models.Resident) (userID, email string, isNewUser bool, err error) {
	email = resident.Email
	if email == "" {
		email = fmt.Sprintf("resident-%s@%s", resident.ID, placeholderEmailDomain)
	}

	if resident.SupabaseUserID != nil && *resident.SupabaseUserID != "" {
		return *resident.SupabaseUserID, email, false, nil
	}

	account, err := s.identity.CreateAccount(ctx, email, map[string]interface{}{
		"resident_id": resident.ID.String(),
		"full_name":   resident.FullName,
	})
	switch {
	case err == nil:
		isNewUser = true
	case errors.Is(err, auth.ErrEmailExists):
		account, err = s.identity.FindAccountByEmail(ctx, email)
		if err != nil {
			return "", "", false, fmt.Errorf("account exists but lookup failed: %w", err)
		}
	default:
		return "", "", false, fmt.Errorf("account provisioning failed: %w", err)
	}

	if err := s.residentRepo.LinkSupabaseUser(ctx, resident.ID, account.ID); err != nil {
		return "", "", false, fmt.Errorf("failed to link resident: %w", err)
	}
	resident.SupabaseUserID = &account.ID

	return account.ID, email, isNewUser, nil
}

// audit writes the attempt row; a failure here only reaches the
// operational log.
func (s *accessService) audit(ctx context.Context, attempt *models.AccessAttempt) {
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		log.Printf("failed to write access attempt for token %s: %v", attempt.TokenID, err)
	}
}
