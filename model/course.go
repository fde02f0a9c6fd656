package model

import (
	"time"
)

// Course represents an instructor-owned course in the catalog.
// Titles are unique per instructor, not globally.
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	InstructorID uint      `gorm:"not null;index;uniqueIndex:idx_instructor_title" json:"instructor_id"`
	CourseTitle  string    `gorm:"not null;uniqueIndex:idx_instructor_title" json:"courseTitle"`
	CourseDesc   string    `gorm:"type:text;not null" json:"courseDesc"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	Status       Status    `gorm:"not null;default:'draft'" json:"status"`

	// Relationships
	Instructor   Account       `gorm:"foreignKey:InstructorID" json:"-"`
	CourseVideos []CourseVideo `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Enrollments  []Enrollment  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// CourseVideo links a video into a course's lesson list
type CourseVideo struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	CourseID uint `gorm:"not null;index" json:"course_id"`
	VideoID  uint `gorm:"not null;index" json:"video_id"`

	Course Course `gorm:"foreignKey:CourseID" json:"-"`
	Video  Video  `gorm:"foreignKey:VideoID" json:"video,omitempty"`
}

// CourseListItem is the catalog list projection with denormalized counts
type CourseListItem struct {
	ID           uint   `json:"id"`
	CourseTitle  string `json:"courseTitle"`
	CourseDesc   string `json:"courseDesc"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	Status       Status `json:"status"`
	Participants int    `json:"participants"`
	Lessons      int    `json:"lessons"`
}

// CourseDetail is the single-course projection with the instructor's name
type CourseDetail struct {
	ID                 uint   `json:"id"`
	CourseTitle        string `json:"courseTitle"`
	CourseDesc         string `json:"courseDesc"`
	Thumbnail          string `json:"thumbnail,omitempty"`
	Status             Status `json:"status"`
	InstructorID       uint   `json:"instructor_id"`
	InstructorFullName string `json:"instructor_full_name"`
}
