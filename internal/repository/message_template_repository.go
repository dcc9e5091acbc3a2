package repository

import (
	"context"

	"github.com/condoflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageTemplateRepository interface {
	Create(ctx context.Context, tpl *models.MessageTemplate) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MessageTemplate, error)
	FindBySlug(ctx context.Context, slug string) (*models.MessageTemplate, error)
	Update(ctx context.Context, tpl *models.MessageTemplate) error
	List(ctx context.Context) ([]models.MessageTemplate, error)
}

type messageTemplateRepository struct {
	db *gorm.DB
}

func NewMessageTemplateRepository(db *gorm.DB) MessageTemplateRepository {
	return &messageTemplateRepository{db: db}
}

func (r *messageTemplateRepository) Create(ctx context.Context, tpl *models.MessageTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *messageTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.MessageTemplate, error) {
	var tpl models.MessageTemplate
	if err := r.db.WithContext(ctx).First(&tpl, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *messageTemplateRepository) FindBySlug(ctx context.Context, slug string) (*models.MessageTemplate, error) {
	var tpl models.MessageTemplate
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = true", slug).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *messageTemplateRepository) Update(ctx context.Context, tpl *models.MessageTemplate) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *messageTemplateRepository) List(ctx context.Context) ([]models.MessageTemplate, error) {
	var list []models.MessageTemplate
	err := r.db.WithContext(ctx).
		Order("slug ASC").
		Find(&list).Error
	return list, err
}
