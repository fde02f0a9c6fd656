package course

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

// CourseHandler handles the instructor/public course catalog
type CourseHandler struct {
	db      *gorm.DB
	catalog *services.CatalogService
	media   services.MediaStore
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB, catalog *services.CatalogService, media services.MediaStore) *CourseHandler {
	return &CourseHandler{
		db:      db,
		catalog: catalog,
		media:   media,
	}
}

// ListCourses handles GET /courses. Public catalog: active courses only,
// with participant and lesson counts.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	var items []model.CourseListItem
	err := h.db.Model(&model.Course{}).
		Select("courses.id, courses.course_title, courses.course_desc, courses.thumbnail, courses.status, "+
			"count(distinct enrollments.id) as participants, count(distinct course_videos.id) as lessons").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Joins("LEFT JOIN course_videos ON course_videos.course_id = courses.id").
		Where("courses.status = ?", model.StatusActive).
		Group("courses.id").
		Order("courses.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Success(c, items)
}

// GetCourse handles GET /courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var detail model.CourseDetail
	err = h.db.Model(&model.Course{}).
		Select("courses.id, courses.course_title, courses.course_desc, courses.thumbnail, courses.status, "+
			"courses.instructor_id, user_details.full_name as instructor_full_name").
		Joins("LEFT JOIN user_details ON user_details.account_id = courses.instructor_id").
		Where("courses.id = ?", id).
		Scan(&detail).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch course")
	}
	if detail.ID == 0 {
		return response.NotFound(c, "Course not found.")
	}

	return response.Success(c, detail)
}

// ListInstructorCourses handles GET /courses/instructor. Every status is
// visible to the owner, including drafts and rejections.
func (h *CourseHandler) ListInstructorCourses(c *fiber.Ctx) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var items []model.CourseListItem
	err := h.db.Model(&model.Course{}).
		Select("courses.id, courses.course_title, courses.course_desc, courses.thumbnail, courses.status, "+
			"count(distinct enrollments.id) as participants, count(distinct course_videos.id) as lessons").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Joins("LEFT JOIN course_videos ON course_videos.course_id = courses.id").
		Where("courses.instructor_id = ?", accountID).
		Group("courses.id").
		Order("courses.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}
	if len(items) == 0 {
		return response.NotFound(c, "No courses found.")
	}

	return response.Success(c, items)
}

// CreateCourse handles POST /courses (multipart). The new course starts in
// draft and waits for moderation.
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	title := c.FormValue("courseTitle")
	desc := c.FormValue("courseDesc")
	if title == "" || desc == "" {
		return response.BadRequest(c, "Course title and description are required")
	}

	thumbnailURL := ""
	if file, err := c.FormFile("thumbnail"); err == nil {
		result, err := h.uploadFile(c, services.FolderThumbnails, file)
		if err != nil {
			return response.InternalServerError(c, "Failed to upload thumbnail")
		}
		thumbnailURL = result.URL
	}

	created, err := h.catalog.CreateCourse(c.Context(), accountID, title, desc, thumbnailURL)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateTitle) {
			return response.Conflict(c, "Course with this title already exists for this instructor")
		}
		return response.InternalServerError(c, "Failed to create course")
	}

	return response.Created(c, "Course created successfully", created)
}

// UpdateCourse handles PUT /courses/:id. Owner or admin; an edit to a
// rejected course resubmits it as draft.
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	course, errResp := h.loadOwnedCourse(c)
	if course == nil {
		return errResp
	}

	title := c.FormValue("courseTitle", course.CourseTitle)
	desc := c.FormValue("courseDesc", course.CourseDesc)

	thumbnail := course.Thumbnail
	if file, err := c.FormFile("thumbnail"); err == nil {
		result, err := h.uploadFile(c, services.FolderThumbnails, file)
		if err != nil {
			return response.InternalServerError(c, "Failed to upload thumbnail")
		}
		// Old thumbnail is replaced; best effort cleanup
		if course.Thumbnail != "" {
			if key := h.media.KeyFromURL(course.Thumbnail); key != "" {
				_ = h.media.Delete(c.Context(), key)
			}
		}
		thumbnail = result.URL
	}

	if err := h.catalog.UpdateCourse(c.Context(), course, title, desc, thumbnail); err != nil {
		if errors.Is(err, services.ErrDuplicateTitle) {
			return response.Conflict(c, "Course with this title already exists for this instructor")
		}
		return response.InternalServerError(c, "Failed to update course")
	}

	return response.SuccessWithMessage(c, "Course updated successfully", course)
}

// DeleteCourse handles DELETE /courses/:id. Owner or admin. The cascade
// removes stored media first; if external cleanup fails nothing in the
// database changes.
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	course, errResp := h.loadOwnedCourse(c)
	if course == nil {
		return errResp
	}

	if err := h.catalog.DeleteCourse(c.Context(), course, middleware.IsAdmin(c)); err != nil {
		if errors.Is(err, services.ErrMediaDeleteFailed) {
			return response.InternalServerError(c, "Failed to delete course media; course was not removed")
		}
		return response.InternalServerError(c, "Failed to delete course")
	}

	return response.SuccessWithMessage(c, "Course deleted successfully", nil)
}

// loadOwnedCourse resolves :id and enforces that the caller is the owning
// instructor or the admin. On failure the response has already been
// written and the course is nil.
func (h *CourseHandler) loadOwnedCourse(c *fiber.Ctx) (*model.Course, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, response.BadRequest(c, "Invalid course id")
	}

	var course model.Course
	if err := h.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound(c, "Course not found.")
		}
		return nil, response.InternalServerError(c, "Failed to fetch course")
	}

	if !middleware.IsAdmin(c) {
		accountID, ok := middleware.GetAccountID(c)
		if !ok || course.InstructorID != accountID {
			return nil, response.Forbidden(c, "You do not own this course")
		}
	}

	return &course, nil
}

func (h *CourseHandler) uploadFile(c *fiber.Ctx, folder string, file *multipart.FileHeader) (services.UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return services.UploadResult{}, err
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	return h.media.Upload(c.Context(), folder, file.Filename, contentType, src)
}
