package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/services"
	authutil "github.com/sahilchouksey/course-platform-api/utils/auth"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"github.com/sahilchouksey/course-platform-api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login and the verification-code flows
type AuthHandler struct {
	db           *gorm.DB
	jwtManager   *authutil.JWTManager
	email        *services.EmailService
	verification *services.VerificationService
	validator    *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, email *services.EmailService, verification *services.VerificationService) *AuthHandler {
	return &AuthHandler{
		db:           db,
		jwtManager:   jwtManager,
		email:        email,
		verification: verification,
		validator:    validation.NewValidator(),
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"required,oneof=student instructor"`
	FullName    string `json:"fullName" validate:"required,min=2,max=100"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,numeric"`
}

// RegisterResponse carries the new account and its token
type RegisterResponse struct {
	User  model.AccountSummary `json:"user"`
	Token string               `json:"token"`
}

// Register handles POST /auth/registration. The account and its details
// row are created in one transaction: a failure on either side leaves
// no partial user behind.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		errs := validation.FormatValidationErrors(err)
		for _, msg := range errs {
			return response.BadRequest(c, msg)
		}
		return response.BadRequest(c, "Invalid request")
	}

	if ok, msg := validation.ValidateUsername(req.Username); !ok {
		return response.BadRequest(c, msg)
	}

	// Check duplicates up front for a precise message; the unique indexes
	// still back this up under concurrency
	var existing model.Account
	if err := h.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return response.Conflict(c, "Username is already taken")
	}
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return response.Conflict(c, "Email is already registered")
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	account := model.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         model.Role(req.Role),
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		details := model.UserDetails{
			AccountID:   account.ID,
			FullName:    req.FullName,
			Address:     req.Address,
			PhoneNumber: req.PhoneNumber,
		}
		if err := tx.Create(&details).Error; err != nil {
			return err
		}
		account.Details = &details
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "Username or email is already registered")
		}
		if errors.Is(err, model.ErrInvalidRole) || errors.Is(err, model.ErrInvalidPhoneNumber) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create user")
	}

	token, err := h.jwtManager.GenerateToken(account.ID, account.Username, req.FullName, string(account.Role))
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	return response.Created(c, "User registered successfully", RegisterResponse{
		User:  account.ToSummary(),
		Token: token,
	})
}

// CheckDuplicateRequest asks whether a username or email is taken
type CheckDuplicateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CheckDuplicate handles POST /auth/check-duplicate. Used by the signup
// form before submitting the full registration.
func (h *AuthHandler) CheckDuplicate(c *fiber.Ctx) error {
	var req CheckDuplicateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" && req.Email == "" {
		return response.BadRequest(c, "Username or email is required")
	}

	result := fiber.Map{}
	if req.Username != "" {
		var count int64
		if err := h.db.Model(&model.Account{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
			return response.InternalServerError(c, "Failed to check username")
		}
		result["usernameTaken"] = count > 0
	}
	if req.Email != "" {
		var count int64
		if err := h.db.Model(&model.Account{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return response.InternalServerError(c, "Failed to check email")
		}
		result["emailTaken"] = count > 0
	}

	return response.Success(c, result)
}
