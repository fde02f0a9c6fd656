package enrollment

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/services"
	"github.com/sahilchouksey/course-platform-api/utils/middleware"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"gorm.io/gorm"
)

// EnrollmentHandler handles student enrollment
type EnrollmentHandler struct {
	db            *gorm.DB
	notifications *services.NotificationService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(db *gorm.DB, notifications *services.NotificationService) *EnrollmentHandler {
	return &EnrollmentHandler{
		db:            db,
		notifications: notifications,
	}
}

// EnrollRequest names the course to enroll in
type EnrollRequest struct {
	CourseID uint `json:"courseId" validate:"required"`
}

// Enroll handles POST /enrollment/enroll. At most one enrollment may exist
// per (student, course); a repeat attempt is rejected and the existing row
// keeps its progress untouched.
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	account, ok := middleware.GetAccount(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CourseID == 0 {
		return response.BadRequest(c, "Course id is required")
	}

	var course model.Course
	if err := h.db.First(&course, req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found.")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}
	if course.Status != model.StatusActive {
		return response.BadRequest(c, "Course is not open for enrollment")
	}

	var existing model.Enrollment
	err := h.db.Where("student_id = ? AND course_id = ?", account.ID, course.ID).First(&existing).Error
	if err == nil {
		return response.Conflict(c, "You are already enrolled in this course.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Failed to check enrollment")
	}

	enrollment := model.Enrollment{
		StudentID: account.ID,
		CourseID:  course.ID,
	}
	if err := h.db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "You are already enrolled in this course.")
		}
		return response.InternalServerError(c, "Failed to enroll")
	}

	studentName := account.Username
	var details model.UserDetails
	if err := h.db.Where("account_id = ?", account.ID).First(&details).Error; err == nil {
		studentName = details.FullName
	}
	if err := h.notifications.NotifyStudentEnrolled(c.Context(), &course, studentName); err != nil {
		return response.InternalServerError(c, "Failed to record enrollment notification")
	}

	return response.Created(c, "Enrolled successfully", enrollment)
}

// CheckEnrollment handles GET /enrollment/check-enrollment/:courseId
func (h *EnrollmentHandler) CheckEnrollment(c *fiber.Ctx) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var count int64
	err = h.db.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", accountID, courseID).
		Count(&count).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to check enrollment")
	}

	return response.Success(c, fiber.Map{"enrolled": count > 0})
}

// ListEnrolled handles GET /enrollment/enrolled: the caller's courses
func (h *EnrollmentHandler) ListEnrolled(c *fiber.Ctx) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var courses []model.EnrolledCourse
	err := h.db.Model(&model.Enrollment{}).
		Select("courses.id as course_id, courses.course_title, courses.course_desc, courses.thumbnail").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.student_id = ?", accountID).
		Order("enrollments.enroll_date DESC").
		Scan(&courses).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch enrolled courses")
	}
	if len(courses) == 0 {
		return response.NotFound(c, "You are not enrolled in any courses")
	}

	return response.Success(c, courses)
}
