package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/course-platform-api/model"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrVideoNotFound     = errors.New("video not found")
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrStatusTransition  = errors.New("status transition not allowed")
	ErrDuplicateTitle    = errors.New("course with this title already exists for this instructor")
	ErrMediaDeleteFailed = errors.New("failed to delete media from storage")
)

// CatalogService owns the invariant-bearing course/video operations:
// moderation transitions and the cascading delete saga across the media
// store and the database.
type CatalogService struct {
	db            *gorm.DB
	media         MediaStore
	notifications *NotificationService
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB, media MediaStore, notifications *NotificationService) *CatalogService {
	return &CatalogService{
		db:            db,
		media:         media,
		notifications: notifications,
	}
}

// CreateCourse stores a new draft course. Duplicate titles per instructor
// are rejected; the composite unique index backs up this pre-check.
func (s *CatalogService) CreateCourse(ctx context.Context, instructorID uint, title, desc, thumbnail string) (*model.Course, error) {
	var existing model.Course
	err := s.db.WithContext(ctx).
		Where("instructor_id = ? AND course_title = ?", instructorID, title).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateTitle
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course := &model.Course{
		InstructorID: instructorID,
		CourseTitle:  title,
		CourseDesc:   desc,
		Thumbnail:    thumbnail,
		Status:       model.StatusDraft,
	}
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}
	return course, nil
}

// UpdateCourse applies an instructor/admin edit. Editing a rejected course
// resubmits it: the status returns to draft for another moderation pass.
func (s *CatalogService) UpdateCourse(ctx context.Context, course *model.Course, title, desc, thumbnail string) error {
	updates := map[string]interface{}{
		"course_title": title,
		"course_desc":  desc,
		"thumbnail":    thumbnail,
	}
	if course.Status == model.StatusRejected {
		updates["status"] = model.StatusDraft
	}

	if err := s.db.WithContext(ctx).Model(course).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTitle
		}
		return err
	}
	return nil
}

// SetCourseStatus performs an admin moderation transition. The requested
// value is the API-level word: "approved" maps to active. Anything outside
// {approved, rejected} is invalid, and transitions not in the table are
// refused, leaving the row untouched.
func (s *CatalogService) SetCourseStatus(ctx context.Context, courseID uint, requested string) (*model.Course, error) {
	target, err := moderationTarget(requested)
	if err != nil {
		return nil, err
	}

	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if !course.Status.CanTransitionTo(target) {
		return nil, ErrStatusTransition
	}

	if err := s.db.WithContext(ctx).Model(&course).Update("status", target).Error; err != nil {
		return nil, err
	}
	course.Status = target

	if target == model.StatusActive {
		err = s.notifications.NotifyCourseApproved(ctx, &course)
	} else {
		err = s.notifications.NotifyCourseRejected(ctx, &course)
	}
	if err != nil {
		return nil, err
	}

	return &course, nil
}

// SetVideoStatus mirrors course moderation for a single video
func (s *CatalogService) SetVideoStatus(ctx context.Context, videoID uint, requested string) (*model.Video, error) {
	target, err := moderationTarget(requested)
	if err != nil {
		return nil, err
	}

	var video model.Video
	if err := s.db.WithContext(ctx).First(&video, videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if !video.Status.CanTransitionTo(target) {
		return nil, ErrStatusTransition
	}

	if err := s.db.WithContext(ctx).Model(&video).Update("status", target).Error; err != nil {
		return nil, err
	}
	video.Status = target
	return &video, nil
}

func moderationTarget(requested string) (model.Status, error) {
	switch requested {
	case "approved":
		return model.StatusActive, nil
	case "rejected":
		return model.StatusRejected, nil
	default:
		return "", ErrInvalidStatus
	}
}

// AddVideo uploads go through here: the video row and its course link are
// created in one transaction, so a failed link never leaves an orphaned
// video.
func (s *CatalogService) AddVideo(ctx context.Context, courseID uint, video *model.Video) error {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(video).Error; err != nil {
			return err
		}
		link := model.CourseVideo{CourseID: courseID, VideoID: video.ID}
		return tx.Create(&link).Error
	})
}

// DeleteCourse removes a course, its video links, the underlying videos and
// their stored media, as one logical unit. Modeled as a saga: every
// external object is deleted first, and only when external cleanup has
// fully succeeded does a single transaction remove the rows. An external
// failure therefore aborts before the database is touched.
func (s *CatalogService) DeleteCourse(ctx context.Context, course *model.Course, adminInitiated bool) error {
	var links []model.CourseVideo
	if err := s.db.WithContext(ctx).Where("course_id = ?", course.ID).Find(&links).Error; err != nil {
		return err
	}

	videoIDs := make([]uint, 0, len(links))
	for _, link := range links {
		videoIDs = append(videoIDs, link.VideoID)
	}

	var videos []model.Video
	if len(videoIDs) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", videoIDs).Find(&videos).Error; err != nil {
			return err
		}
	}

	// External deletions first
	var keys []string
	if course.Thumbnail != "" {
		if key := s.media.KeyFromURL(course.Thumbnail); key != "" {
			keys = append(keys, key)
		}
	}
	for _, video := range videos {
		if key := s.media.KeyFromURL(video.VideoURL); key != "" {
			keys = append(keys, key)
		}
	}
	for _, key := range keys {
		if err := s.media.Delete(ctx, key); err != nil {
			return fmt.Errorf("%w: %s", ErrMediaDeleteFailed, key)
		}
	}

	// Then one transaction over the rows
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&model.CourseVideo{}).Error; err != nil {
			return err
		}
		if len(videoIDs) > 0 {
			if err := tx.Where("id IN ?", videoIDs).Delete(&model.Video{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, course.ID).Error
	})
	if err != nil {
		return err
	}

	if adminInitiated {
		return s.notifications.NotifyCourseDeleted(ctx, course)
	}
	return nil
}

// DeleteVideo removes one video: stored media first, then link and row in
// a transaction, then the instructor notification.
func (s *CatalogService) DeleteVideo(ctx context.Context, video *model.Video, instructorID uint) error {
	if video.VideoURL != "" {
		if key := s.media.KeyFromURL(video.VideoURL); key != "" {
			if err := s.media.Delete(ctx, key); err != nil {
				return fmt.Errorf("%w: %s", ErrMediaDeleteFailed, key)
			}
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", video.ID).Delete(&model.CourseVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Video{}, video.ID).Error
	})
	if err != nil {
		return err
	}

	// An orphaned video has no linked course and nobody to notify
	if instructorID == 0 {
		return nil
	}
	return s.notifications.NotifyVideoDeleted(ctx, instructorID, video.VideoTitle)
}

// CourseOwner resolves the instructor owning the course a video is linked
// to. Used for video authorization, which flows through the linked course.
func (s *CatalogService) CourseOwner(ctx context.Context, videoID uint) (uint, error) {
	var link model.CourseVideo
	err := s.db.WithContext(ctx).Where("video_id = ?", videoID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrVideoNotFound
		}
		return 0, err
	}

	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, link.CourseID).Error; err != nil {
		return 0, err
	}
	return course.InstructorID, nil
}
