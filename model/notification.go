package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// NotificationType identifies the moderation/enrollment event that
// produced a notification
type NotificationType string

const (
	NotificationCourseApproval    NotificationType = "courseApproval"
	NotificationStudentEnrollment NotificationType = "studentEnrollment"
	NotificationCourseDeletion    NotificationType = "courseDeletion"
	NotificationCourseRejection   NotificationType = "courseRejection"
	NotificationVideoDeletion     NotificationType = "videoDeletion"
)

// NotificationStatus is the read state
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// Notification is an append-only per-user message produced as a side
// effect of moderation and enrollment events. It is read or deleted,
// never otherwise updated.
type Notification struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"-"`
	UserID    uint               `gorm:"not null;index" json:"user_id"`
	Message   string             `gorm:"type:text;not null" json:"message"`
	Type      NotificationType   `gorm:"not null" json:"type"`
	Status    NotificationStatus `gorm:"not null;default:'unread'" json:"status"`
	Metadata  datatypes.JSON     `json:"metadata,omitempty"`

	User Account `gorm:"foreignKey:UserID" json:"-"`
}

// GormDBDataType binds the column to the notification_type enum on postgres
func (NotificationType) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "notification_type"
	}
	return "varchar(30)"
}

// GormDBDataType binds the column to the notification_status enum on postgres
func (NotificationStatus) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "notification_status"
	}
	return "varchar(10)"
}
