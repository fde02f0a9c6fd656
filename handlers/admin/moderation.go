package admin

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/services"
	"github.com/sahilchouksey/course-platform-api/utils/response"
)

// SetStatusRequest carries the moderation verdict
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// SetCourseStatus handles PUT /admin/courses/:id/status. Approving moves a
// draft to active, rejecting to rejected; anything else is refused and the
// course is left unchanged.
func (h *AdminHandler) SetCourseStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.catalog.SetCourseStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			return response.NotFound(c, "Course not found.")
		case errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, "Status must be 'approved' or 'rejected'")
		case errors.Is(err, services.ErrStatusTransition):
			return response.BadRequest(c, "Course cannot change to this status")
		}
		return response.InternalServerError(c, "Failed to update course status")
	}

	return response.SuccessWithMessage(c, "Course status updated", course)
}

// ApproveVideo handles PUT /admin/videos/:id/approve
func (h *AdminHandler) ApproveVideo(c *fiber.Ctx) error {
	return h.setVideoStatus(c, "approved")
}

// RejectVideo handles PUT /admin/videos/:id/reject
func (h *AdminHandler) RejectVideo(c *fiber.Ctx) error {
	return h.setVideoStatus(c, "rejected")
}

func (h *AdminHandler) setVideoStatus(c *fiber.Ctx, verdict string) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid video id")
	}

	video, err := h.catalog.SetVideoStatus(c.Context(), uint(id), verdict)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVideoNotFound):
			return response.NotFound(c, "Video not found")
		case errors.Is(err, services.ErrStatusTransition):
			return response.BadRequest(c, "Video cannot change to this status")
		}
		return response.InternalServerError(c, "Failed to update video status")
	}

	return response.SuccessWithMessage(c, "Video status updated", video)
}

// ListCourses handles GET /admin/courses: every course, every status
func (h *AdminHandler) ListCourses(c *fiber.Ctx) error {
	var courses []model.Course
	if err := h.db.Order("created_at DESC").Find(&courses).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}
	return response.Success(c, courses)
}

// ListPendingCourses handles GET /admin/courses/pending: the moderation queue
func (h *AdminHandler) ListPendingCourses(c *fiber.Ctx) error {
	var courses []model.Course
	err := h.db.
		Where("status = ?", model.StatusDraft).
		Order("created_at ASC").
		Find(&courses).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch pending courses")
	}
	return response.Success(c, courses)
}

// GetCourse handles GET /admin/courses/:id: the course with its instructor,
// videos and enrollments
func (h *AdminHandler) GetCourse(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var course model.Course
	err = h.db.
		Preload("Instructor.Details").
		Preload("CourseVideos.Video").
		Preload("Enrollments.Student").
		First(&course, id).Error
	if err != nil {
		return response.NotFound(c, "Course not found.")
	}

	var videos []model.Video
	videoIDs := make([]uint, 0, len(course.CourseVideos))
	for _, link := range course.CourseVideos {
		videoIDs = append(videoIDs, link.VideoID)
	}
	if len(videoIDs) > 0 {
		if err := h.db.Where("id IN ?", videoIDs).Find(&videos).Error; err != nil {
			return response.InternalServerError(c, "Failed to fetch course videos")
		}
	}

	return response.Success(c, fiber.Map{
		"course":      course,
		"instructor":  course.Instructor.ToSummary(),
		"videos":      videos,
		"enrollments": len(course.Enrollments),
	})
}

// ListVideos handles GET /admin/videos: every video with its course title
func (h *AdminHandler) ListVideos(c *fiber.Ctx) error {
	var items []model.VideoListItem
	err := h.db.Model(&model.Video{}).
		Select("videos.id, videos.video_title, videos.video_desc, videos.video_url, videos.video_duration, " +
			"videos.status, courses.course_title").
		Joins("LEFT JOIN course_videos ON course_videos.video_id = videos.id").
		Joins("LEFT JOIN courses ON courses.id = course_videos.course_id").
		Order("videos.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch videos")
	}
	return response.Success(c, items)
}
