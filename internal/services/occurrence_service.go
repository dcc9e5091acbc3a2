package services

import (
	"context"
	"fmt"
	"log"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/repository"
	"github.com/google/uuid"
)

// OccurrenceService registers occurrences and notifies the resident over
// WhatsApp with a secure access link. Notification failures are recorded in
// the delivery audit, never surfaced to the action that created the
// occurrence.
type OccurrenceService interface {
	Create(ctx context.Context, req *models.OccurrenceCreateRequest) (*models.Occurrence, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Occurrence, error)
	List(ctx context.Context, condominiumID *uuid.UUID, page, limit int) ([]models.Occurrence, int64, error)
}

type occurrenceService struct {
	occurrenceRepo   repository.OccurrenceRepository
	residentRepo     repository.ResidentRepository
	notificationRepo repository.NotificationRepository
	dispatcher       DispatcherService
	appBaseURL       string
}

func NewOccurrenceService(
	occurrenceRepo repository.OccurrenceRepository,
	residentRepo repository.ResidentRepository,
	notificationRepo repository.NotificationRepository,
	dispatcher DispatcherService,
	appBaseURL string,
) OccurrenceService {
	return &occurrenceService{
		occurrenceRepo:   occurrenceRepo,
		residentRepo:     residentRepo,
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
		appBaseURL:       appBaseURL,
	}
}

func (s *occurrenceService) Create(ctx context.Context, req *models.OccurrenceCreateRequest) (*models.Occurrence, error) {
	resident, err := s.residentRepo.FindByID(ctx, req.ResidentID)
	if err != nil {
		return nil, err
	}

	occurrence := &models.Occurrence{
		Title:         req.Title,
		Description:   req.Description,
		Status:        models.OccurrenceStatusOpen,
		ResidentID:    resident.ID,
		CondominiumID: resident.CondominiumID,
	}
	if err := s.occurrenceRepo.Create(ctx, occurrence); err != nil {
		return nil, err
	}

	s.notifyResident(ctx, occurrence, resident)
	return occurrence, nil
}

// notifyResident issues the secure link notification for a new occurrence.
// Any failure here is logged and audited only; the occurrence is already
// committed.
func (s *occurrenceService) notifyResident(ctx context.Context, occurrence *models.Occurrence, resident *models.Resident) {
	if resident.Phone == "" {
		return
	}

	notification := &models.Notification{
		ResidentID:   resident.ID,
		OccurrenceID: &occurrence.ID,
		Phone:        resident.Phone,
		TemplateSlug: "occurrence_created",
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("failed to create notification for occurrence %s: %v", occurrence.ID, err)
		return
	}

	if _, err := s.dispatcher.Dispatch(ctx, &DispatchInput{
		FunctionName: "occurrence_created",
		TemplateSlug: notification.TemplateSlug,
		Phone:        resident.Phone,
		Variables: map[string]string{
			"nome":   resident.FullName,
			"titulo": occurrence.Title,
			"link":   fmt.Sprintf("%s/acesso/%s", s.appBaseURL, notification.SecureLinkToken),
		},
	}); err != nil {
		log.Printf("failed to dispatch occurrence notification %s: %v", notification.ID, err)
	}
}

func (s *occurrenceService) GetByID(ctx context.Context, id uuid.UUID) (*models.Occurrence, error) {
	return s.occurrenceRepo.FindByID(ctx, id)
}

func (s *occurrenceService) List(ctx context.Context, condominiumID *uuid.UUID, page, limit int) ([]models.Occurrence, int64, error) {
	return s.occurrenceRepo.List(ctx, condominiumID, page, limit)
}
