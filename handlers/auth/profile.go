package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/utils/middleware"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"gorm.io/gorm"
)

// UpdateDetailsRequest updates the profile row owned by the caller
type UpdateDetailsRequest struct {
	FullName    string `json:"fullName" validate:"omitempty,min=2,max=100"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,numeric"`
	BirthDate   string `json:"birthDate" validate:"omitempty"` // YYYY-MM-DD
}

// CurrentUser handles GET /auth/user
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	account, ok := middleware.GetAccount(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.db.Preload("Details").First(account, account.ID).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, account)
}

// GetDetails handles GET /user/details
func (h *AuthHandler) GetDetails(c *fiber.Ctx) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var details model.UserDetails
	err := h.db.Where("account_id = ?", accountID).First(&details).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User details not found")
		}
		return response.InternalServerError(c, "Failed to fetch user details")
	}

	return response.Success(c, details)
}

// UpdateDetails handles PUT /user/details
func (h *AuthHandler) UpdateDetails(c *fiber.Ctx) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpdateDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Invalid request")
	}

	var details model.UserDetails
	err := h.db.Where("account_id = ?", accountID).First(&details).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User details not found")
		}
		return response.InternalServerError(c, "Failed to fetch user details")
	}

	if req.FullName != "" {
		details.FullName = req.FullName
	}
	if req.Address != "" {
		details.Address = req.Address
	}
	if req.PhoneNumber != "" {
		details.PhoneNumber = req.PhoneNumber
	}
	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return response.BadRequest(c, "Birth date must be in YYYY-MM-DD format")
		}
		details.BirthDate = &birthDate
	}

	if err := h.db.Save(&details).Error; err != nil {
		if errors.Is(err, model.ErrInvalidPhoneNumber) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to update user details")
	}

	return response.SuccessWithMessage(c, "User details updated", details)
}
