package repository

import (
	"context"
	"errors"
	"time"

	"github.com/condoflow/backend/internal/models"
	"gorm.io/gorm"
)

type JobRepository interface {
	// GetControl returns the pause switch for a job, creating a default
	// unpaused row the first time the job is seen.
	GetControl(ctx context.Context, jobName string) (*models.JobControl, error)
	SetPaused(ctx context.Context, jobName string, paused bool) (*models.JobControl, error)
	ListControls(ctx context.Context) ([]models.JobControl, error)
	CreateExecution(ctx context.Context, execution *models.JobExecution) error
	ListExecutions(ctx context.Context, jobName string, page, limit int) ([]models.JobExecution, int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) GetControl(ctx context.Context, jobName string) (*models.JobControl, error) {
	var control models.JobControl
	err := r.db.WithContext(ctx).
		Where("job_name = ?", jobName).
		First(&control).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		control = models.JobControl{JobName: jobName}
		if err := r.db.WithContext(ctx).Create(&control).Error; err != nil {
			return nil, err
		}
		return &control, nil
	}
	if err != nil {
		return nil, err
	}
	return &control, nil
}

func (r *jobRepository) SetPaused(ctx context.Context, jobName string, paused bool) (*models.JobControl, error) {
	control, err := r.GetControl(ctx, jobName)
	if err != nil {
		return nil, err
	}

	control.Paused = paused
	if paused {
		now := time.Now()
		control.PausedAt = &now
	} else {
		control.PausedAt = nil
	}

	if err := r.db.WithContext(ctx).Save(control).Error; err != nil {
		return nil, err
	}
	return control, nil
}

func (r *jobRepository) ListControls(ctx context.Context) ([]models.JobControl, error) {
	var list []models.JobControl
	err := r.db.WithContext(ctx).
		Order("job_name ASC").
		Find(&list).Error
	return list, err
}

func (r *jobRepository) CreateExecution(ctx context.Context, execution *models.JobExecution) error {
	return r.db.WithContext(ctx).Create(execution).Error
}

func (r *jobRepository) ListExecutions(ctx context.Context, jobName string, page, limit int) ([]models.JobExecution, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.JobExecution{})
	if jobName != "" {
		query = query.Where("job_name = ?", jobName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.JobExecution
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}
