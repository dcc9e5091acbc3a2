package repository

import (
	"context"
	"time"

	"github.com/condoflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	FindByToken(ctx context.Context, token string) (*models.Notification, error)
	// MarkRead stamps first-open metadata. ReadAt is only written once;
	// ip/user agent are refreshed on every open.
	MarkRead(ctx context.Context, id uuid.UUID, ip, userAgent string) error
	FindUnreadOlderThan(ctx context.Context, cutoff time.Time) ([]models.Notification, error)
	ListByResident(ctx context.Context, residentID uuid.UUID, page, limit int) ([]models.Notification, int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) FindByToken(ctx context.Context, token string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).
		Preload("Resident").
		Preload("Resident.Condominium").
		Where("secure_link_token = ?", token).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, ip, userAgent string) error {
	updates := map[string]interface{}{
		"ip_address": ip,
		"user_agent": userAgent,
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", time.Now()).Error
}

func (r *notificationRepository) FindUnreadOlderThan(ctx context.Context, cutoff time.Time) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).
		Preload("Resident").
		Where("read_at IS NULL AND sent_at < ?", cutoff).
		Order("sent_at ASC").
		Find(&list).Error
	return list, err
}

func (r *notificationRepository) ListByResident(ctx context.Context, residentID uuid.UUID, page, limit int) ([]models.Notification, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("resident_id = ?", residentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Notification
	err := query.
		Order("sent_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}
