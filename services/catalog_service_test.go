package services

import (
	"context"
	"testing"

	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedInstructor(t *testing.T, db *gorm.DB) *model.Account {
	t.Helper()

	account := &model.Account{
		Username:     "teachersmith",
		Email:        "smith@example.com",
		PasswordHash: "x",
		Role:         model.RoleInstructor,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func newCatalog(db *gorm.DB, media MediaStore) *CatalogService {
	return NewCatalogService(db, media, NewNotificationService(db))
}

func TestCreateCourseDuplicateTitle(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalog(db, newFakeMediaStore())
	instructor := seedInstructor(t, db)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, instructor.ID, "Go Basics", "intro", "")
	require.NoError(t, err)

	_, err = svc.CreateCourse(ctx, instructor.ID, "Go Basics", "another", "")
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	// Same title under a different instructor is fine
	other := &model.Account{
		Username:     "otherteacher",
		Email:        "other@example.com",
		PasswordHash: "x",
		Role:         model.RoleInstructor,
	}
	require.NoError(t, db.Create(other).Error)

	_, err = svc.CreateCourse(ctx, other.ID, "Go Basics", "intro", "")
	assert.NoError(t, err)
}

func TestSetCourseStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalog(db, newFakeMediaStore())
	instructor := seedInstructor(t, db)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, instructor.ID, "Go Basics", "intro", "")
	require.NoError(t, err)
	require.Equal(t, model.StatusDraft, course.Status)

	updated, err := svc.SetCourseStatus(ctx, course.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, updated.Status)

	// Approval notifies the instructor
	var notifications []model.Notification
	require.NoError(t, db.Where("user_id = ?", instructor.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationCourseApproval, notifications[0].Type)

	// An active course is out of moderation's reach
	_, err = svc.SetCourseStatus(ctx, course.ID, "rejected")
	assert.ErrorIs(t, err, ErrStatusTransition)

	var reloaded model.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, model.StatusActive, reloaded.Status)
}

func TestSetCourseStatusInvalidValue(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalog(db, newFakeMediaStore())
	instructor := seedInstructor(t, db)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, instructor.ID, "Go Basics", "intro", "")
	require.NoError(t, err)

	_, err = svc.SetCourseStatus(ctx, course.ID, "published")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	var reloaded model.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, model.StatusDraft, reloaded.Status)
}

func TestRejectedCourseResubmitsOnEdit(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalog(db, newFakeMediaStore())
	instructor := seedInstructor(t, db)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, instructor.ID, "Go Basics", "intro", "")
	require.NoError(t, err)

	_, err = svc.SetCourseStatus(ctx, course.ID, "rejected")
	require.NoError(t, err)

	require.NoError(t, db.First(course, course.ID).Error)
	require.Equal(t, model.StatusRejected, course.Status)

	require.NoError(t, svc.UpdateCourse(ctx, course, "Go Basics v2", "reworked", ""))

	var reloaded model.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, model.StatusDraft, reloaded.Status)
	assert.Equal(t, "Go Basics v2", reloaded.CourseTitle)
}

func TestAddVideoLinksInOneTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalog(db, newFakeMediaStore())
	instructor := seedInstructor(t, db)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, instructor.ID, "Go Basics", "intro", "")
	require.NoError(t, err)

	video := model.Video{
		VideoTitle:    "Lesson 1",
		VideoDesc:     "hello world",
		VideoURL:      "https://cdn.test/videosSrc/lesson1.mp4",
		VideoDuration: 120,
	}
	require.NoError(t, svc.AddVideo(ctx, course.ID, &video))

	var link model.CourseVideo
	require.NoError(t, db.Where("video_id = ?", video.ID).First(&link).Error)
	assert.Equal(t, course.ID, link.CourseID)

	ownerID, err := svc.CourseOwner(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, instructor.ID, ownerID)
}

func TestAddVideoMissingCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalog(db, newFakeMediaStore())

	video := model.Video{VideoTitle: "x", VideoDesc: "x", VideoURL: "u", VideoDuration: 1}
	err := svc.AddVideo(context.Background(), 999, &video)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func seedCourseWithMedia(t *testing.T, db *gorm.DB, svc *CatalogService, media *fakeMediaStore, instructorID uint) (*model.Course, *model.Video) {
	t.Helper()
	ctx := context.Background()

	thumb, err := media.Upload(ctx, FolderThumbnails, "thumb.png", "image/png", nil)
	require.NoError(t, err)

	course, err := svc.CreateCourse(ctx, instructorID, "Go Basics", "intro", thumb.URL)
	require.NoError(t, err)

	src, err := media.Upload(ctx, FolderVideos, "lesson1.mp4", "video/mp4", nil)
	require.NoError(t, err)

	video := &model.Video{
		VideoTitle:    "Lesson 1",
		VideoDesc:     "hello",
		VideoURL:      src.URL,
		VideoDuration: 90,
	}
	require.NoError(t, svc.AddVideo(ctx, course.ID, video))

	student := &model.Account{Username: "stu", Email: "stu@example.com", PasswordHash: "x", Role: model.RoleStudent}
	require.NoError(t, db.Create(student).Error)
	require.NoError(t, db.Create(&model.Enrollment{StudentID: student.ID, CourseID: course.ID}).Error)

	return course, video
}

func TestDeleteCourseCascade(t *testing.T) {
	db := newTestDB(t)
	media := newFakeMediaStore()
	svc := newCatalog(db, media)
	instructor := seedInstructor(t, db)

	course, video := seedCourseWithMedia(t, db, svc, media, instructor.ID)

	require.NoError(t, svc.DeleteCourse(context.Background(), course, true))

	// Every row tied to the course is gone
	var count int64
	db.Model(&model.Course{}).Where("id = ?", course.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Video{}).Where("id = ?", video.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.CourseVideo{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Enrollment{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Zero(t, count)

	// Thumbnail and video source were removed from storage
	assert.Len(t, media.deleted, 2)

	// Admin-initiated deletion notifies the instructor
	var notification model.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", instructor.ID, model.NotificationCourseDeletion).First(&notification).Error)
}

func TestDeleteCourseAbortsWhenStorageFails(t *testing.T) {
	db := newTestDB(t)
	media := newFakeMediaStore()
	svc := newCatalog(db, media)
	instructor := seedInstructor(t, db)

	course, video := seedCourseWithMedia(t, db, svc, media, instructor.ID)

	media.FailDelete = true
	err := svc.DeleteCourse(context.Background(), course, false)
	assert.ErrorIs(t, err, ErrMediaDeleteFailed)

	// Nothing in the database changed
	var count int64
	db.Model(&model.Course{}).Where("id = ?", course.ID).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&model.Video{}).Where("id = ?", video.ID).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&model.Enrollment{}).Where("course_id = ?", course.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteVideo(t *testing.T) {
	db := newTestDB(t)
	media := newFakeMediaStore()
	svc := newCatalog(db, media)
	instructor := seedInstructor(t, db)

	_, video := seedCourseWithMedia(t, db, svc, media, instructor.ID)

	require.NoError(t, svc.DeleteVideo(context.Background(), video, instructor.ID))

	var count int64
	db.Model(&model.Video{}).Where("id = ?", video.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.CourseVideo{}).Where("video_id = ?", video.ID).Count(&count)
	assert.Zero(t, count)

	var notification model.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", instructor.ID, model.NotificationVideoDeletion).First(&notification).Error)
}

func TestSetVideoStatus(t *testing.T) {
	db := newTestDB(t)
	media := newFakeMediaStore()
	svc := newCatalog(db, media)
	instructor := seedInstructor(t, db)
	ctx := context.Background()

	_, video := seedCourseWithMedia(t, db, svc, media, instructor.ID)

	updated, err := svc.SetVideoStatus(ctx, video.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, updated.Status)

	_, err = svc.SetVideoStatus(ctx, video.ID, "rejected")
	assert.ErrorIs(t, err, ErrStatusTransition)
}
