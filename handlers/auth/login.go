package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	authutil "github.com/sahilchouksey/course-platform-api/utils/auth"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"gorm.io/gorm"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the authenticated account and its token
type LoginResponse struct {
	User  model.AccountSummary `json:"user"`
	Token string               `json:"token"`
}

// Login handles POST /auth/login. An unknown username is NotFound; a wrong
// password is Unauthorized.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	var account model.Account
	err := h.db.Preload("Details").Where("username = ?", req.Username).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if err := authutil.VerifyPassword(account.PasswordHash, req.Password); err != nil {
		return response.Unauthorized(c, "Invalid credentials")
	}

	fullName := ""
	if account.Details != nil {
		fullName = account.Details.FullName
	}

	token, err := h.jwtManager.GenerateToken(account.ID, account.Username, fullName, string(account.Role))
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	return response.SuccessWithMessage(c, "Login successful", LoginResponse{
		User:  account.ToSummary(),
		Token: token,
	})
}
