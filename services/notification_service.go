package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sahilchouksey/course-platform-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when a notification id does not exist
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService appends and serves per-user notifications.
// Notifications are terminal records: marked read or deleted, never
// otherwise updated.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create appends a notification for a user. Metadata carries the ids of
// the originating event so clients can link back to it.
func (s *NotificationService) Create(ctx context.Context, userID uint, typ model.NotificationType, message string, metadata map[string]interface{}) (*model.Notification, error) {
	notification := &model.Notification{
		UserID:  userID,
		Type:    typ,
		Message: message,
		Status:  model.NotificationUnread,
	}

	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode notification metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(raw)
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// NotifyCourseApproved tells the instructor their course went active
func (s *NotificationService) NotifyCourseApproved(ctx context.Context, course *model.Course) error {
	msg := fmt.Sprintf("Your course %q has been approved by the admin.", course.CourseTitle)
	_, err := s.Create(ctx, course.InstructorID, model.NotificationCourseApproval, msg,
		map[string]interface{}{"courseId": course.ID})
	return err
}

// NotifyCourseRejected tells the instructor their course was rejected
func (s *NotificationService) NotifyCourseRejected(ctx context.Context, course *model.Course) error {
	msg := fmt.Sprintf("Your course %q has been rejected by the admin. Please review and update your course for approval.", course.CourseTitle)
	_, err := s.Create(ctx, course.InstructorID, model.NotificationCourseRejection, msg,
		map[string]interface{}{"courseId": course.ID})
	return err
}

// NotifyCourseDeleted tells the instructor an admin removed their course.
// The course row is gone by the time this runs, so the metadata keeps the
// title alongside the old id.
func (s *NotificationService) NotifyCourseDeleted(ctx context.Context, course *model.Course) error {
	msg := fmt.Sprintf("Your course %q has been deleted by the admin.", course.CourseTitle)
	_, err := s.Create(ctx, course.InstructorID, model.NotificationCourseDeletion, msg,
		map[string]interface{}{"courseId": course.ID, "courseTitle": course.CourseTitle})
	return err
}

// NotifyVideoDeleted tells the instructor a video was removed from their course
func (s *NotificationService) NotifyVideoDeleted(ctx context.Context, instructorID uint, videoTitle string) error {
	msg := fmt.Sprintf("The video %q has been deleted from your course.", videoTitle)
	_, err := s.Create(ctx, instructorID, model.NotificationVideoDeletion, msg,
		map[string]interface{}{"videoTitle": videoTitle})
	return err
}

// NotifyStudentEnrolled tells the instructor a student joined their course
func (s *NotificationService) NotifyStudentEnrolled(ctx context.Context, course *model.Course, studentName string) error {
	msg := fmt.Sprintf("%s has enrolled in your course %q.", studentName, course.CourseTitle)
	_, err := s.Create(ctx, course.InstructorID, model.NotificationStudentEnrollment, msg,
		map[string]interface{}{"courseId": course.ID, "studentName": studentName})
	return err
}

// ListByUser returns a user's notifications, newest first
func (s *NotificationService) ListByUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips a notification to read. Missing ids are an error, not a
// no-op.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uint) error {
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("status", model.NotificationRead)

	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// Delete removes one notification. Missing ids are an error.
func (s *NotificationService) Delete(ctx context.Context, notificationID, userID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&model.Notification{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteAll removes every notification for a user and returns the count
func (s *NotificationService) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Notification{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// PurgeRead deletes read notifications older than cutoff. Called from the
// retention cron job.
func (s *NotificationService) PurgeRead(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.NotificationRead, cutoff).
		Delete(&model.Notification{})

	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Purged %d read notifications older than %s", result.RowsAffected, cutoff.Format(time.RFC3339))
	}
	return result.RowsAffected, nil
}
