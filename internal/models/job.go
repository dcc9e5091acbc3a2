package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusSuccess JobStatus = "success"
	JobStatusPartial JobStatus = "partial"
	JobStatusError   JobStatus = "error"
	JobStatusSkipped JobStatus = "skipped"
)

// JobControl is the pause switch for one scheduled job. A paused job must
// skip its work and log a skipped execution instead of running.
type JobControl struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	JobName   string     `gorm:"size:100;not null;uniqueIndex" json:"job_name"`
	Paused    bool       `gorm:"default:false" json:"paused"`
	PausedAt  *time.Time `json:"paused_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (j *JobControl) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// JobExecution logs one run (or skip) of a scheduled job.
type JobExecution struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	JobName    string    `gorm:"size:100;index;not null" json:"job_name"`
	Status     JobStatus `gorm:"size:20;not null" json:"status"` // success | partial | error | skipped
	DurationMs int64     `json:"duration_ms"`
	Result     string    `gorm:"type:jsonb" json:"result,omitempty"` // structured result payload
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (j *JobExecution) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// JobBatchResult is the structured payload stored on batch executions
type JobBatchResult struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors,omitempty"`
}
