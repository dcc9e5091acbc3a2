package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/repository"
	"github.com/condoflow/backend/internal/whatsapp"
	"gorm.io/gorm"
)

// maxResponseBody bounds the raw response text stored on audit rows.
const maxResponseBody = 2000

// AdapterResolver maps a provider name to its adapter. Injected so tests
// can substitute a stub gateway.
type AdapterResolver func(provider models.Provider) (whatsapp.Adapter, error)

// MediaStore hands out download links for stored attachment objects.
type MediaStore interface {
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// DispatchInput describes one outbound notification request.
type DispatchInput struct {
	FunctionName string
	TemplateSlug string
	Phone        string
	Variables    map[string]string
	Language     string
}

// MediaDispatchInput sends a stored media object as an image message.
type MediaDispatchInput struct {
	DispatchInput
	ObjectName string
	Caption    string
}

// DispatcherService renders a template and pushes it through the active
// provider, writing exactly one DeliveryAttempt row per call. Failures are
// recorded on the attempt, never raised back into the business action that
// triggered the send.
type DispatcherService interface {
	Dispatch(ctx context.Context, input *DispatchInput) (*models.DeliveryAttempt, error)
	DispatchMedia(ctx context.Context, input *MediaDispatchInput) (*models.DeliveryAttempt, error)
}

type dispatcherService struct {
	configRepo   repository.ProviderConfigRepository
	templateRepo repository.MessageTemplateRepository
	attemptRepo  repository.DeliveryAttemptRepository
	media        MediaStore
	resolve      AdapterResolver
}

func NewDispatcherService(
	configRepo repository.ProviderConfigRepository,
	templateRepo repository.MessageTemplateRepository,
	attemptRepo repository.DeliveryAttemptRepository,
	media MediaStore,
	resolve AdapterResolver,
) DispatcherService {
	if resolve == nil {
		resolve = whatsapp.ForProvider
	}
	return &dispatcherService{
		configRepo:   configRepo,
		templateRepo: templateRepo,
		attemptRepo:  attemptRepo,
		media:        media,
		resolve:      resolve,
	}
}

func (s *dispatcherService) Dispatch(ctx context.Context, input *DispatchInput) (*models.DeliveryAttempt, error) {
	return s.dispatch(ctx, input, func(ctx context.Context, adapter whatsapp.Adapter, message string, settings whatsapp.Settings) whatsapp.SendResult {
		return adapter.SendText(ctx, input.Phone, message, settings)
	})
}

func (s *dispatcherService) DispatchMedia(ctx context.Context, input *MediaDispatchInput) (*models.DeliveryAttempt, error) {
	mediaURL, err := s.media.PresignedURL(ctx, input.ObjectName, 24*time.Hour)
	if err != nil {
		attempt := s.newAttempt(&input.DispatchInput)
		attempt.ErrorMessage = "media unavailable: " + err.Error()
		s.persist(ctx, attempt)
		return attempt, nil
	}

	return s.dispatch(ctx, &input.DispatchInput, func(ctx context.Context, adapter whatsapp.Adapter, message string, settings whatsapp.Settings) whatsapp.SendResult {
		caption := input.Caption
		if caption == "" {
			caption = message
		}
		return adapter.SendImage(ctx, input.Phone, mediaURL, caption, settings)
	})
}

type sendFunc func(ctx context.Context, adapter whatsapp.Adapter, message string, settings whatsapp.Settings) whatsapp.SendResult

func (s *dispatcherService) dispatch(ctx context.Context, input *DispatchInput, send sendFunc) (*models.DeliveryAttempt, error) {
	attempt := s.newAttempt(input)

	cfg, err := s.configRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			attempt.ErrorMessage = "not configured"
		} else {
			attempt.ErrorMessage = "failed to load provider config: " + err.Error()
		}
		s.persist(ctx, attempt)
		return attempt, nil
	}

	tpl, err := s.templateRepo.FindBySlug(ctx, input.TemplateSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			attempt.ErrorMessage = "template not found: " + input.TemplateSlug
		} else {
			attempt.ErrorMessage = "failed to load template: " + err.Error()
		}
		s.persist(ctx, attempt)
		return attempt, nil
	}

	message := RenderTemplate(tpl.Content, input.Variables)

	payload, _ := json.Marshal(map[string]interface{}{
		"provider":    cfg.Provider,
		"instance_id": cfg.InstanceID,
		"phone":       whatsapp.NormalizePhone(input.Phone),
		"message":     message,
	})
	attempt.RequestPayload = string(payload)

	adapter, err := s.resolve(cfg.Provider)
	if err != nil {
		attempt.ErrorMessage = err.Error()
		s.persist(ctx, attempt)
		return attempt, nil
	}

	result := send(ctx, adapter, message, whatsapp.Settings{
		APIURL:     cfg.APIURL,
		APIKey:     cfg.APIKey,
		InstanceID: cfg.InstanceID,
	})

	attempt.Success = result.Success
	attempt.MessageID = result.MessageID
	attempt.ErrorMessage = result.Error
	attempt.ResponseBody = truncate(result.ResponseBody, maxResponseBody)
	if result.Debug != nil {
		attempt.ResponseStatus = result.Debug.Status
		debug, _ := json.Marshal(result.Debug)
		attempt.DebugInfo = string(debug)
	}

	s.persist(ctx, attempt)
	return attempt, nil
}

func (s *dispatcherService) newAttempt(input *DispatchInput) *models.DeliveryAttempt {
	language := input.Language
	if language == "" {
		language = "pt_BR"
	}
	return &models.DeliveryAttempt{
		FunctionName:     input.FunctionName,
		TargetPhone:      whatsapp.NormalizePhone(input.Phone),
		TemplateName:     input.TemplateSlug,
		TemplateLanguage: language,
	}
}

// persist writes the audit row. A failed audit write must not fail the
// dispatch, so it only reaches the operational log.
func (s *dispatcherService) persist(ctx context.Context, attempt *models.DeliveryAttempt) {
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		log.Printf("failed to write delivery attempt for %s: %v", attempt.TemplateName, err)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
