package handlers

import (
	"net/http"
	"strconv"

	"mentorhub/internal/common"
	"mentorhub/internal/services"

	"github.com/labstack/echo/v4"
)

// NotificationHandlers serves the caller's in-app notification feed.
type NotificationHandlers struct {
	notificationSvc services.NotificationService
}

func NewNotificationHandlers(notificationSvc services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notificationSvc: notificationSvc}
}

func (h *NotificationHandlers) ListNotifications(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit := 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}

	notifications, err := h.notificationSvc.ListForUser(c.Request().Context(), userID, limit)
	if err != nil {
		return common.SendServerError(c, "Failed to load notifications")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

func (h *NotificationHandlers) ClearNotifications(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.notificationSvc.Clear(c.Request().Context(), userID); err != nil {
		return common.SendServerError(c, "Failed to clear notifications")
	}
	return c.NoContent(http.StatusNoContent)
}
