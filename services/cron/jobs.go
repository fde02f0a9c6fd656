package cron

import (
	"context"
	"log"
	"time"

	"github.com/sahilchouksey/course-platform-api/model"
)

// notificationRetention is how long read notifications are kept
const notificationRetention = 30 * 24 * time.Hour

// PurgeReadNotifications deletes read notifications past the retention
// window. Unread notifications are never purged.
func (m *CronManager) PurgeReadNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-notificationRetention)
	count, err := m.notifications.PurgeRead(ctx, cutoff)
	if err != nil {
		log.Printf("[CRON] purge_read_notifications failed: %v", err)
		return
	}

	log.Printf("[CRON] purge_read_notifications completed, removed %d rows", count)
}

// CleanupOrphanedLinks removes course-video links whose video or course
// row no longer exists. The delete sagas keep links consistent; this is a
// sweep for rows left behind by interrupted runs.
func (m *CronManager) CleanupOrphanedLinks() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result := m.db.WithContext(ctx).
		Where("video_id NOT IN (?)", m.db.Model(&model.Video{}).Select("id")).
		Or("course_id NOT IN (?)", m.db.Model(&model.Course{}).Select("id")).
		Delete(&model.CourseVideo{})
	if result.Error != nil {
		log.Printf("[CRON] cleanup_orphaned_links failed: %v", result.Error)
		return
	}

	log.Printf("[CRON] cleanup_orphaned_links completed, removed %d rows", result.RowsAffected)
}
