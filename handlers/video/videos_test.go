package video

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/database"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/services"
	authutil "github.com/sahilchouksey/course-platform-api/utils/auth"
	"github.com/sahilchouksey/course-platform-api/utils/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type recordingMediaStore struct {
	deleted []string
}

func (r *recordingMediaStore) Upload(_ context.Context, folder, filename, _ string, _ io.Reader) (services.UploadResult, error) {
	key := folder + "/" + filename
	return services.UploadResult{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (r *recordingMediaStore) Delete(_ context.Context, key string) error {
	r.deleted = append(r.deleted, key)
	return nil
}

func (r *recordingMediaStore) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, "https://cdn.test/")
}

type videoFixture struct {
	app        *fiber.App
	db         *gorm.DB
	media      *recordingMediaStore
	jwt        *authutil.JWTManager
	instructor model.Account
	course     model.Course
	token      string
	adminToken string
}

func newVideoFixture(t *testing.T) *videoFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	accountJWT := authutil.NewJWTManager(authutil.JWTConfig{
		Secret: "s", Expiry: time.Hour, Issuer: "test", Principal: authutil.PrincipalAccount,
	})
	adminJWT := authutil.NewJWTManager(authutil.JWTConfig{
		Secret: "a", Expiry: time.Hour, Issuer: "test", Principal: authutil.PrincipalAdmin,
	})

	media := &recordingMediaStore{}
	catalog := services.NewCatalogService(db, media, services.NewNotificationService(db))
	handler := NewVideoHandler(db, catalog, media)
	authMiddleware := middleware.NewAuthMiddleware(accountJWT, adminJWT, db)

	app := fiber.New()
	app.Post("/videos/upload/:courseId", authMiddleware.RequireAccount(), authMiddleware.RequireRole(model.RoleInstructor), handler.UploadVideo)
	app.Get("/videos", handler.ListVideos)
	app.Put("/videos/:id", authMiddleware.RequireAccountOrAdmin(), handler.UpdateVideo)
	app.Delete("/videos/:id", authMiddleware.RequireAccountOrAdmin(), handler.DeleteVideo)
	app.Get("/courseVideo/course/:courseId", authMiddleware.RequireAccountOrAdmin(), handler.ListCourseVideos)

	f := &videoFixture{app: app, db: db, media: media, jwt: accountJWT}

	f.instructor = model.Account{Username: "tea", Email: "tea@example.com", PasswordHash: "x", Role: model.RoleInstructor}
	require.NoError(t, db.Create(&f.instructor).Error)

	f.course = model.Course{InstructorID: f.instructor.ID, CourseTitle: "Go", CourseDesc: "d", Status: model.StatusActive}
	require.NoError(t, db.Create(&f.course).Error)

	f.token, err = accountJWT.GenerateToken(f.instructor.ID, f.instructor.Username, "", string(f.instructor.Role))
	require.NoError(t, err)

	admin := model.Admin{Username: "root", Email: "root@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&admin).Error)
	f.adminToken, err = adminJWT.GenerateToken(admin.ID, admin.Username, "", "admin")
	require.NoError(t, err)

	return f
}

func (f *videoFixture) seedVideo(t *testing.T, status model.Status) model.Video {
	t.Helper()
	video := model.Video{
		VideoTitle: "Lesson", VideoDesc: "d",
		VideoURL: "https://cdn.test/videosSrc/lesson.mp4", VideoDuration: 120, Status: status,
	}
	require.NoError(t, f.db.Create(&video).Error)
	require.NoError(t, f.db.Create(&model.CourseVideo{CourseID: f.course.ID, VideoID: video.ID}).Error)
	return video
}

func videoUploadForm(t *testing.T, path, title, desc, duration string, withFile bool) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("videoTitle", title))
	require.NoError(t, writer.WriteField("videoDesc", desc))
	if duration != "" {
		require.NoError(t, writer.WriteField("videoDuration", duration))
	}
	if withFile {
		part, err := writer.CreateFormFile("video", "lesson.mp4")
		require.NoError(t, err)
		_, err = part.Write([]byte("not really an mp4"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadVideo(t *testing.T) {
	f := newVideoFixture(t)
	path := "/videos/upload/" + strconv.FormatUint(uint64(f.course.ID), 10)

	// Missing file
	req := videoUploadForm(t, path, "Intro", "first lesson", "", false)
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Unknown course
	req = videoUploadForm(t, "/videos/upload/9999", "Intro", "first lesson", "", true)
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err = f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// The backend cannot probe duration, so the form value wins
	req = videoUploadForm(t, path, "Intro", "first lesson", "95.5", true)
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err = f.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var video model.Video
	require.NoError(t, f.db.Where("video_title = ?", "Intro").First(&video).Error)
	assert.Equal(t, model.StatusDraft, video.Status)
	assert.Equal(t, 95.5, video.VideoDuration)

	var link model.CourseVideo
	require.NoError(t, f.db.Where("video_id = ?", video.ID).First(&link).Error)
	assert.Equal(t, f.course.ID, link.CourseID)
}

func TestUploadVideoRequiresOwnership(t *testing.T) {
	f := newVideoFixture(t)

	other := model.Account{Username: "other", Email: "other@example.com", PasswordHash: "x", Role: model.RoleInstructor}
	require.NoError(t, f.db.Create(&other).Error)
	otherToken, err := f.jwt.GenerateToken(other.ID, other.Username, "", string(other.Role))
	require.NoError(t, err)

	path := "/videos/upload/" + strconv.FormatUint(uint64(f.course.ID), 10)
	req := videoUploadForm(t, path, "Intro", "first lesson", "", true)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUpdateVideoResubmitsRejected(t *testing.T) {
	f := newVideoFixture(t)
	video := f.seedVideo(t, model.StatusRejected)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("videoTitle", "Lesson v2"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("PUT", "/videos/"+strconv.FormatUint(uint64(video.ID), 10), body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded model.Video
	require.NoError(t, f.db.First(&reloaded, video.ID).Error)
	assert.Equal(t, "Lesson v2", reloaded.VideoTitle)
	assert.Equal(t, "d", reloaded.VideoDesc)
	assert.Equal(t, model.StatusDraft, reloaded.Status)
}

func TestDeleteVideo(t *testing.T) {
	f := newVideoFixture(t)
	video := f.seedVideo(t, model.StatusActive)

	req := httptest.NewRequest("DELETE", "/videos/"+strconv.FormatUint(uint64(video.ID), 10), nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	f.db.Model(&model.Video{}).Where("id = ?", video.ID).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&model.CourseVideo{}).Where("video_id = ?", video.ID).Count(&count)
	assert.Zero(t, count)
	assert.Contains(t, f.media.deleted, "videosSrc/lesson.mp4")

	var notification model.Notification
	require.NoError(t, f.db.Where("user_id = ?", f.instructor.ID).First(&notification).Error)
	assert.Equal(t, model.NotificationVideoDeletion, notification.Type)
}

func TestAdminDeletesOrphanedVideo(t *testing.T) {
	f := newVideoFixture(t)

	// A video with no course link has nobody to notify
	orphan := model.Video{VideoTitle: "Orphan", VideoDesc: "d", VideoURL: "https://cdn.test/videosSrc/orphan.mp4", VideoDuration: 1}
	require.NoError(t, f.db.Create(&orphan).Error)

	req := httptest.NewRequest("DELETE", "/videos/"+strconv.FormatUint(uint64(orphan.ID), 10), nil)
	req.Header.Set("Authorization", "Bearer "+f.adminToken)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	f.db.Model(&model.Video{}).Where("id = ?", orphan.ID).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&model.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestListCourseVideosByStatus(t *testing.T) {
	f := newVideoFixture(t)
	f.seedVideo(t, model.StatusActive)
	draft := model.Video{VideoTitle: "Draft", VideoDesc: "d", VideoURL: "u", VideoDuration: 1, Status: model.StatusDraft}
	require.NoError(t, f.db.Create(&draft).Error)
	require.NoError(t, f.db.Create(&model.CourseVideo{CourseID: f.course.ID, VideoID: draft.ID}).Error)

	student := model.Account{Username: "stu", Email: "stu@example.com", PasswordHash: "x", Role: model.RoleStudent}
	require.NoError(t, f.db.Create(&student).Error)
	studentToken, err := f.jwt.GenerateToken(student.ID, student.Username, "", string(student.Role))
	require.NoError(t, err)

	path := "/courseVideo/course/" + strconv.FormatUint(uint64(f.course.ID), 10)

	// The owner sees every status
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Data []model.VideoListItem `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Data, 2)

	// A student only sees approved videos
	req = httptest.NewRequest("GET", path, nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	resp, err = f.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body.Data = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Data, 1)
}
