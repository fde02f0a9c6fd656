package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/course-platform-api/services"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron          *cron.Cron
	db            *gorm.DB
	notifications *services.NotificationService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, notifications *services.NotificationService) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:          c,
		db:            db,
		notifications: notifications,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Daily at 3 AM: purge old read notifications
	_, err := m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("purge_read_notifications")
		m.PurgeReadNotifications()
	})
	if err != nil {
		return err
	}

	// Weekly on Sunday at 4 AM: remove orphaned video links
	_, err = m.cron.AddFunc("0 0 4 * * 0", func() {
		m.logJobStart("cleanup_orphaned_links")
		m.CleanupOrphanedLinks()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))
}
