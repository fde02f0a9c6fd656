package model

import (
	"time"
)

// Enrollment is a (student, course) pair. At most one row may exist per
// pair; a duplicate enroll attempt is rejected, never upserted.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	StudentID  uint      `gorm:"not null;index;uniqueIndex:idx_student_course" json:"student_id"`
	CourseID   uint      `gorm:"not null;index;uniqueIndex:idx_student_course" json:"course_id"`
	EnrollDate time.Time `gorm:"not null;autoCreateTime" json:"enrollDate"`
	Progress   float64   `gorm:"not null;default:0" json:"progress"`
	Completed  bool      `gorm:"not null;default:false" json:"completed"`

	// Relationships
	Student Account `gorm:"foreignKey:StudentID" json:"-"`
	Course  Course  `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// EnrolledCourse is the student's view of one of their enrollments
type EnrolledCourse struct {
	CourseID    uint   `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
	CourseDesc  string `json:"courseDesc"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// EnrollmentReportRow is the admin reporting projection joining
// Enrollment, Course and Account
type EnrollmentReportRow struct {
	ID              uint      `json:"id"`
	StudentID       uint      `json:"student_id"`
	StudentUsername string    `json:"student_username"`
	CourseID        uint      `json:"course_id"`
	CourseTitle     string    `json:"courseTitle"`
	EnrollDate      time.Time `json:"enrollDate"`
	Progress        float64   `json:"progress"`
	Completed       bool      `json:"completed"`
}
