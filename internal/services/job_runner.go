package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/repository"
)

// BatchItem is one unit of work inside a scheduled job run.
type BatchItem struct {
	Name string
	Fn   func(ctx context.Context) error
}

// JobRunner gates scheduled work behind the per-job pause switch and logs
// every run. Items fail soft: one failing unit never aborts the batch.
type JobRunner interface {
	RunBatch(ctx context.Context, jobName string, items []BatchItem) (*models.JobExecution, error)
}

type jobRunner struct {
	jobRepo repository.JobRepository
}

func NewJobRunner(jobRepo repository.JobRepository) JobRunner {
	return &jobRunner{jobRepo: jobRepo}
}

func (r *jobRunner) RunBatch(ctx context.Context, jobName string, items []BatchItem) (*models.JobExecution, error) {
	control, err := r.jobRepo.GetControl(ctx, jobName)
	if err != nil {
		return nil, fmt.Errorf("failed to read job control for %s: %w", jobName, err)
	}

	if control.Paused {
		execution := &models.JobExecution{
			JobName: jobName,
			Status:  models.JobStatusSkipped,
		}
		if err := r.jobRepo.CreateExecution(ctx, execution); err != nil {
			return nil, err
		}
		return execution, nil
	}

	start := time.Now()
	result := models.JobBatchResult{}
	for _, item := range items {
		if err := r.runItem(ctx, item); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", item.Name, err))
			log.Printf("job %s: item %s failed: %v", jobName, item.Name, err)
			continue
		}
		result.SuccessCount++
	}

	status := models.JobStatusSuccess
	if result.ErrorCount > 0 {
		status = models.JobStatusPartial
		if result.SuccessCount == 0 {
			status = models.JobStatusError
		}
	}

	payload, _ := json.Marshal(result)
	execution := &models.JobExecution{
		JobName:    jobName,
		Status:     status,
		DurationMs: time.Since(start).Milliseconds(),
		Result:     string(payload),
	}
	if err := r.jobRepo.CreateExecution(ctx, execution); err != nil {
		return nil, err
	}
	return execution, nil
}

// runItem isolates one unit of work, turning a panic into an item error so
// the rest of the batch still runs.
func (r *jobRunner) runItem(ctx context.Context, item BatchItem) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return item.Fn(ctx)
}
