package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/services"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"github.com/sahilchouksey/course-platform-api/utils/validation"
)

// EmailRequest carries just the email an action applies to
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyCodeRequest carries an email and the code submitted for it
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// SendVerificationEmail handles POST /auth/send-email. Issues a 6-digit
// code valid for 10 minutes and mails it. Re-requesting replaces the old
// code.
func (h *AuthHandler) SendVerificationEmail(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !validation.ValidateEmail(req.Email) {
		return response.BadRequest(c, "Invalid email format")
	}

	code, err := h.verification.IssueCode(c.Context(), services.CodeKindVerify, req.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate verification code")
	}

	if err := h.email.SendVerificationCode(req.Email, code); err != nil {
		return response.InternalServerError(c, "Failed to send verification email")
	}

	return response.SuccessWithMessage(c, "Verification code sent", nil)
}

// VerifyCode handles POST /auth/verify-code. A correct code is consumed;
// it cannot be redeemed twice.
func (h *AuthHandler) VerifyCode(c *fiber.Ctx) error {
	var req VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return response.BadRequest(c, "Email and code are required")
	}

	err := h.verification.RedeemCode(c.Context(), services.CodeKindVerify, req.Email, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrCodeMismatch) {
			return response.BadRequest(c, "Invalid or expired verification code")
		}
		return response.InternalServerError(c, "Failed to verify code")
	}

	return response.SuccessWithMessage(c, "Email verified successfully", nil)
}
