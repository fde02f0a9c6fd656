package admin

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	authutil "github.com/sahilchouksey/course-platform-api/utils/auth"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"gorm.io/gorm"
)

// CreateUserRequest is an admin-created account with its details
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"required,oneof=student instructor"`
	FullName    string `json:"fullName" validate:"required,min=2,max=100"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,numeric"`
}

// UpdateUserDetailsRequest is the admin edit of a user's profile
type UpdateUserDetailsRequest struct {
	FullName    string `json:"fullName"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,numeric"`
}

// ListUsers handles GET /admin/users: all accounts with their details
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var accounts []model.Account
	err := h.db.Preload("Details").Order("created_at DESC").Find(&accounts).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}
	return response.Success(c, accounts)
}

// GetUser handles GET /admin/users/:id
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var account model.Account
	if err := h.db.Preload("Details").First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, account)
}

// CreateUser handles POST /admin/users. Same atomic account+details pair
// as self-registration.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.FullName == "" {
		return response.BadRequest(c, "Username, email, password and full name are required")
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, authutil.ErrPasswordTooShort) {
			return response.BadRequest(c, err.Error())
		}
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

	return response.Created(c, "User created successfully", account.ToSummary())
}

// UpdateUserDetails handles PUT /admin/users/:id/details
func (h *AdminHandler) UpdateUserDetails(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var req UpdateUserDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var details model.UserDetails
	if err := h.db.Where("account_id = ?", id).First(&details).Error; err != nil {
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

	if err := h.db.Save(&details).Error; err != nil {
		if errors.Is(err, model.ErrInvalidPhoneNumber) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to update user details")
	}

	return response.SuccessWithMessage(c, "User details updated", details)
}

// DeleteUser handles DELETE /admin/users/:id: account and details go in
// one transaction
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var account model.Account
	if err := h.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&model.UserDetails{}).Error; err != nil {
			return err
		}
		return tx.Delete(&account).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.SuccessWithMessage(c, "User deleted successfully", nil)
}

// ListEnrollments handles GET /admin/enrollments: the reporting join over
// enrollments, students and courses
func (h *AdminHandler) ListEnrollments(c *fiber.Ctx) error {
	var rows []model.EnrollmentReportRow
	err := h.db.Model(&model.Enrollment{}).
		Select("enrollments.id, enrollments.student_id, accounts.username as student_username, " +
			"enrollments.course_id, courses.course_title, enrollments.enroll_date, " +
			"enrollments.progress, enrollments.completed").
		Joins("JOIN accounts ON accounts.id = enrollments.student_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Order("enrollments.enroll_date DESC").
		Scan(&rows).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch enrollments")
	}

	return response.Success(c, rows)
}
