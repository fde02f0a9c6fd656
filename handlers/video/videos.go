package video

import (
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/services"
	"github.com/sahilchouksey/course-platform-api/utils/middleware"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"gorm.io/gorm"
)

// VideoHandler handles lesson video upload and management. Authorization
// flows through the linked course: only its instructor (or the admin) may
// change a video.
type VideoHandler struct {
	db      *gorm.DB
	catalog *services.CatalogService
	media   services.MediaStore
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(db *gorm.DB, catalog *services.CatalogService, media services.MediaStore) *VideoHandler {
	return &VideoHandler{
		db:      db,
		catalog: catalog,
		media:   media,
	}
}

// UploadVideo handles POST /videos/upload/:courseId (multipart). The video
// row and its course link land in one transaction. Duration comes from the
// upload backend when it can compute it, otherwise from the form field.
func (h *VideoHandler) UploadVideo(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var course model.Course
	if err := h.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found.")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}
	if course.InstructorID != accountID {
		return response.Forbidden(c, "You do not own this course")
	}

	title := c.FormValue("videoTitle")
	desc := c.FormValue("videoDesc")
	if title == "" || desc == "" {
		return response.BadRequest(c, "Video title and description are required")
	}

	file, err := c.FormFile("video")
	if err != nil {
		return response.BadRequest(c, "Video file is required")
	}

	result, err := h.uploadFile(c, file)
	if err != nil {
		return response.InternalServerError(c, "Failed to upload video")
	}

	duration := result.Duration
	if duration == 0 {
		duration, _ = strconv.ParseFloat(c.FormValue("videoDuration", "0"), 64)
	}

	video := model.Video{
		VideoTitle:    title,
		VideoDesc:     desc,
		VideoURL:      result.URL,
		VideoDuration: duration,
		Status:        model.StatusDraft,
	}

	if err := h.catalog.AddVideo(c.Context(), uint(courseID), &video); err != nil {
		// The row never landed; clean up the uploaded object
		_ = h.media.Delete(c.Context(), result.Key)
		return response.InternalServerError(c, "Failed to save video")
	}

	return response.Created(c, "Video uploaded successfully", video)
}

// UpdateVideo handles PUT /videos/:id (multipart). A new file replaces the
// stored media; an edit to a rejected video resubmits it as draft.
func (h *VideoHandler) UpdateVideo(c *fiber.Ctx) error {
	video, errResp := h.loadOwnedVideo(c)
	if video == nil {
		return errResp
	}

	video.VideoTitle = c.FormValue("videoTitle", video.VideoTitle)
	video.VideoDesc = c.FormValue("videoDesc", video.VideoDesc)

	if file, err := c.FormFile("video"); err == nil {
		result, err := h.uploadFile(c, file)
		if err != nil {
			return response.InternalServerError(c, "Failed to upload video")
		}
		// Old media is replaced; best effort cleanup
		if video.VideoURL != "" {
			if key := h.media.KeyFromURL(video.VideoURL); key != "" {
				_ = h.media.Delete(c.Context(), key)
			}
		}
		video.VideoURL = result.URL
		if result.Duration > 0 {
			video.VideoDuration = result.Duration
		} else if d, err := strconv.ParseFloat(c.FormValue("videoDuration", "0"), 64); err == nil && d > 0 {
			video.VideoDuration = d
		}
	}

	if video.Status == model.StatusRejected {
		video.Status = model.StatusDraft
	}

	if err := h.db.Save(video).Error; err != nil {
		return response.InternalServerError(c, "Failed to update video")
	}

	return response.SuccessWithMessage(c, "Video updated successfully", video)
}

// DeleteVideo handles DELETE /videos/:id. Stored media is removed first;
// a storage failure leaves the rows untouched.
func (h *VideoHandler) DeleteVideo(c *fiber.Ctx) error {
	video, errResp := h.loadOwnedVideo(c)
	if video == nil {
		return errResp
	}

	instructorID, err := h.catalog.CourseOwner(c.Context(), video.ID)
	if err != nil && !errors.Is(err, services.ErrVideoNotFound) {
		return response.InternalServerError(c, "Failed to resolve course owner")
	}

	if err := h.catalog.DeleteVideo(c.Context(), video, instructorID); err != nil {
		if errors.Is(err, services.ErrMediaDeleteFailed) {
			return response.InternalServerError(c, "Failed to delete video media; video was not removed")
		}
		return response.InternalServerError(c, "Failed to delete video")
	}

	return response.SuccessWithMessage(c, "Video deleted successfully", nil)
}

// ListVideos handles GET /videos: approved videos with their course title
func (h *VideoHandler) ListVideos(c *fiber.Ctx) error {
	var items []model.VideoListItem
	err := h.db.Model(&model.Video{}).
		Select("videos.id, videos.video_title, videos.video_desc, videos.video_url, videos.video_duration, "+
			"videos.status, courses.course_title").
		Joins("LEFT JOIN course_videos ON course_videos.video_id = videos.id").
		Joins("LEFT JOIN courses ON courses.id = course_videos.course_id").
		Where("videos.status = ?", model.StatusActive).
		Order("videos.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch videos")
	}

	return response.Success(c, items)
}

// ListCourseVideos handles GET /courseVideo/course/:courseId. The owner
// and the admin see every status; everyone else sees approved videos only.
func (h *VideoHandler) ListCourseVideos(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var course model.Course
	if err := h.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found.")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	accountID, _ := middleware.GetAccountID(c)
	privileged := middleware.IsAdmin(c) || course.InstructorID == accountID

	query := h.db.Model(&model.Video{}).
		Select("videos.id, videos.video_title, videos.video_desc, videos.video_url, videos.video_duration, videos.status").
		Joins("JOIN course_videos ON course_videos.video_id = videos.id").
		Where("course_videos.course_id = ?", courseID)
	if !privileged {
		query = query.Where("videos.status = ?", model.StatusActive)
	}

	var items []model.VideoListItem
	if err := query.Order("videos.created_at ASC").Scan(&items).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch course videos")
	}

	return response.Success(c, items)
}

// loadOwnedVideo resolves :id and enforces course-derived ownership.
// On failure the response has already been written and the video is nil.
func (h *VideoHandler) loadOwnedVideo(c *fiber.Ctx) (*model.Video, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, response.BadRequest(c, "Invalid video id")
	}

	var video model.Video
	if err := h.db.First(&video, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound(c, "Video not found")
		}
		return nil, response.InternalServerError(c, "Failed to fetch video")
	}

	if !middleware.IsAdmin(c) {
		ownerID, err := h.catalog.CourseOwner(c.Context(), video.ID)
		if err != nil {
			return nil, response.InternalServerError(c, "Failed to resolve course owner")
		}
		accountID, ok := middleware.GetAccountID(c)
		if !ok || ownerID != accountID {
			return nil, response.Forbidden(c, "You do not own this video")
		}
	}

	return &video, nil
}

func (h *VideoHandler) uploadFile(c *fiber.Ctx, file *multipart.FileHeader) (services.UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return services.UploadResult{}, err
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	return h.media.Upload(c.Context(), services.FolderVideos, file.Filename, contentType, src)
}
