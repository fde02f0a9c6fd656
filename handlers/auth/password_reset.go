package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/services"
	authutil "github.com/sahilchouksey/course-platform-api/utils/auth"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"gorm.io/gorm"
)

// ResetPasswordRequest completes a reset: code plus the new password
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// SendResetCode handles POST /auth/send-reset-code. Only registered
// emails get a code.
func (h *AuthHandler) SendResetCode(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	var account model.Account
	if err := h.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "No account found with this email")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	code, err := h.verification.IssueCode(c.Context(), services.CodeKindReset, req.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate reset code")
	}

	if err := h.email.SendResetCode(req.Email, code); err != nil {
		return response.InternalServerError(c, "Failed to send reset email")
	}

	return response.SuccessWithMessage(c, "Password reset code sent", nil)
}

// VerifyResetCode handles POST /auth/verify-reset-code. The check does not
// consume the code: the reset call that follows redeems it together with
// the new password.
func (h *AuthHandler) VerifyResetCode(c *fiber.Ctx) error {
	var req VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return response.BadRequest(c, "Email and code are required")
	}

	err := h.verification.CheckCode(c.Context(), services.CodeKindReset, req.Email, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrCodeMismatch) {
			return response.BadRequest(c, "Invalid or expired reset code")
		}
		return response.InternalServerError(c, "Failed to verify code")
	}

	return response.SuccessWithMessage(c, "Reset code verified", nil)
}

// ResetPassword handles POST /auth/reset-password. The code is redeemed
// here, so a completed reset invalidates it.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Email, code and new password are required")
	}

	var account model.Account
	if err := h.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "No account found with this email")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	// Hash before redeeming so a rejected password does not burn the code
	hashedPassword, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		if errors.Is(err, authutil.ErrPasswordTooShort) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to process password")
	}

	if err := h.verification.RedeemCode(c.Context(), services.CodeKindReset, req.Email, req.Code); err != nil {
		if errors.Is(err, services.ErrCodeMismatch) {
			return response.BadRequest(c, "Invalid or expired reset code")
		}
		return response.InternalServerError(c, "Failed to verify code")
	}

	if err := h.db.Model(&account).Update("password_hash", hashedPassword).Error; err != nil {
		return response.InternalServerError(c, "Failed to update password")
	}

	return response.SuccessWithMessage(c, "Password reset successfully", nil)
}
