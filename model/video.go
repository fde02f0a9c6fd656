package model

import (
	"time"
)

// Video is a lesson asset. It reaches a course only through CourseVideo
// and starts in draft until an admin approves it.
type Video struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	VideoTitle    string    `gorm:"not null" json:"videoTitle"`
	VideoDesc     string    `gorm:"type:text;not null" json:"videoDesc"`
	VideoURL      string    `gorm:"not null" json:"videoURL"`
	VideoDuration float64   `gorm:"not null" json:"videoDuration"`
	Status        Status    `gorm:"not null;default:'draft'" json:"status"`

	CourseVideos []CourseVideo `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

// VideoListItem is the flat admin/catalog listing projection
type VideoListItem struct {
	ID            uint    `json:"id"`
	VideoTitle    string  `json:"videoTitle"`
	VideoDesc     string  `json:"videoDesc"`
	VideoURL      string  `json:"videoURL,omitempty"`
	VideoDuration float64 `json:"videoDuration"`
	Status        Status  `json:"status"`
	CourseTitle   string  `json:"courseTitle,omitempty"`
}
