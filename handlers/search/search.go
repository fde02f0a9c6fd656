package search

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"gorm.io/gorm"
)

// SearchHandler handles the public course search
type SearchHandler struct {
	db *gorm.DB
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{db: db}
}

// SearchCourses handles GET /search?query=. Case-insensitive substring
// match over course titles. An empty query is a BadRequest; a query
// matching nothing is a NotFound.
func (h *SearchHandler) SearchCourses(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return response.BadRequest(c, "Search query is required.")
	}

	pattern := "%" + query + "%"

	var courses []model.Course
	err := h.db.
		Where("lower(course_title) LIKE lower(?)", pattern).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to search courses")
	}

	if len(courses) == 0 {
		return response.NotFound(c, "No courses found.")
	}

	return response.Success(c, courses)
}
