package notification

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/services"
	"github.com/sahilchouksey/course-platform-api/utils/middleware"
	"github.com/sahilchouksey/course-platform-api/utils/response"
)

// NotificationHandler serves a user's notification feed
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /notifications, newest first
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	items, err := h.notifications.ListByUser(c.Context(), accountID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch notifications")
	}

	return response.Success(c, items)
}

// MarkRead handles PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid notification id")
	}

	if err := h.notifications.MarkRead(c.Context(), uint(id), accountID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to mark notification as read")
	}

	return response.SuccessWithMessage(c, "Notification marked as read", nil)
}

// Delete handles DELETE /notifications/:id
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid notification id")
	}

	if err := h.notifications.Delete(c.Context(), uint(id), accountID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to delete notification")
	}

	return response.SuccessWithMessage(c, "Notification deleted", nil)
}

// DeleteAll handles DELETE /notifications
func (h *NotificationHandler) DeleteAll(c *fiber.Ctx) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	count, err := h.notifications.DeleteAll(c.Context(), accountID)
	if err != nil {
		return response.InternalServerError(c, "Failed to delete notifications")
	}

	return response.SuccessWithMessage(c, "Notifications deleted", fiber.Map{"deleted": count})
}
