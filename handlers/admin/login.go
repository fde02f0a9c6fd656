package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/services"
	authutil "github.com/sahilchouksey/course-platform-api/utils/auth"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"gorm.io/gorm"
)

// AdminHandler handles the moderation surface. The admin is a singleton
// principal with its own token space.
type AdminHandler struct {
	db       *gorm.DB
	adminJWT *authutil.JWTManager
	catalog  *services.CatalogService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, adminJWT *authutil.JWTManager, catalog *services.CatalogService) *AdminHandler {
	return &AdminHandler{
		db:       db,
		adminJWT: adminJWT,
		catalog:  catalog,
	}
}

// LoginRequest represents an admin login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /admin/login. The issued token is signed with the
// admin secret and never validates on account routes.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	var admin model.Admin
	err := h.db.Where("username = ?", req.Username).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Admin not found")
		}
		return response.InternalServerError(c, "Failed to fetch admin")
	}

	if err := authutil.VerifyPassword(admin.PasswordHash, req.Password); err != nil {
		return response.Unauthorized(c, "Invalid credentials")
	}

	token, err := h.adminJWT.GenerateToken(admin.ID, admin.Username, "", "admin")
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	return response.SuccessWithMessage(c, "Login successful", fiber.Map{
		"admin": fiber.Map{
			"id":       admin.ID,
			"username": admin.Username,
			"email":    admin.Email,
		},
		"token": token,
	})
}
