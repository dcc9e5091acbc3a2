package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/repository"
)

const (
	JobUnreadReminders = "unread_notification_reminders"

	// Notifications unread for this long get one reminder per monitor pass.
	unreadReminderAge = 24 * time.Hour
)

// ReminderMonitor periodically re-dispatches notifications whose secure
// link was never opened. Each pass goes through the JobRunner, so the job
// can be paused and every pass is logged.
type ReminderMonitor interface {
	Start(ctx context.Context)
	Stop()
	RunOnce(ctx context.Context) error
}

type reminderMonitor struct {
	notificationRepo repository.NotificationRepository
	dispatcher       DispatcherService
	runner           JobRunner
	appBaseURL       string
	interval         time.Duration
	stopChan         chan struct{}
	running          bool
}

func NewReminderMonitor(
	notificationRepo repository.NotificationRepository,
	dispatcher DispatcherService,
	runner JobRunner,
	appBaseURL string,
	interval time.Duration,
) ReminderMonitor {
	if interval == 0 {
		interval = time.Hour
	}
	return &reminderMonitor{
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
		runner:           runner,
		appBaseURL:       appBaseURL,
		interval:         interval,
		stopChan:         make(chan struct{}),
	}
}

func (m *reminderMonitor) Start(ctx context.Context) {
	if m.running {
		return
	}

	m.running = true
	log.Printf("Reminder monitor started with interval: %v", m.interval)

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := m.RunOnce(ctx); err != nil {
					log.Printf("Reminder pass failed: %v", err)
				}
			case <-m.stopChan:
				log.Println("Reminder monitor stopped")
				return
			case <-ctx.Done():
				log.Println("Reminder monitor context cancelled")
				return
			}
		}
	}()
}

func (m *reminderMonitor) Stop() {
	if !m.running {
		return
	}

	m.running = false
	close(m.stopChan)
}

func (m *reminderMonitor) RunOnce(ctx context.Context) error {
	cutoff := time.Now().Add(-unreadReminderAge)
	unread, err := m.notificationRepo.FindUnreadOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	items := make([]BatchItem, 0, len(unread))
	for _, notification := range unread {
		n := notification
		items = append(items, BatchItem{
			Name: n.ID.String(),
			Fn: func(ctx context.Context) error {
				return m.remind(ctx, &n)
			},
		})
	}

	execution, err := m.runner.RunBatch(ctx, JobUnreadReminders, items)
	if err != nil {
		return err
	}
	if execution.Status != models.JobStatusSkipped && len(items) > 0 {
		log.Printf("Reminder pass finished: status=%s items=%d", execution.Status, len(items))
	}
	return nil
}

func (m *reminderMonitor) remind(ctx context.Context, notification *models.Notification) error {
	variables := map[string]string{
		"link": fmt.Sprintf("%s/acesso/%s", m.appBaseURL, notification.SecureLinkToken),
	}
	if notification.Resident != nil {
		variables["nome"] = notification.Resident.FullName
	}

	attempt, err := m.dispatcher.Dispatch(ctx, &DispatchInput{
		FunctionName: JobUnreadReminders,
		TemplateSlug: notification.TemplateSlug,
		Phone:        notification.Phone,
		Variables:    variables,
	})
	if err != nil {
		return err
	}
	if !attempt.Success {
		return fmt.Errorf("dispatch failed: %s", attempt.ErrorMessage)
	}
	return nil
}
