package handlers

import (
	"net/http"

	"mentorhub/internal/common"
	"mentorhub/internal/services"

	"github.com/labstack/echo/v4"
)

// CalendarHandlers manages per-user calendar provider connections.
type CalendarHandlers struct {
	calendarSvc services.CalendarService
}

func NewCalendarHandlers(calendarSvc services.CalendarService) *CalendarHandlers {
	return &CalendarHandlers{calendarSvc: calendarSvc}
}

// Connect stores the OAuth result for the provider named in the path. The
// provider in the path wins over any provider field in the payload.
func (h *CalendarHandlers) Connect(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.ConnectCalendarRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	req.Provider = c.Param("provider")

	if err := h.calendarSvc.Connect(c.Request().Context(), userID, &req); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Status reports the connection state of every supported provider.
func (h *CalendarHandlers) Status(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	status, err := h.calendarSvc.Status(c.Request().Context(), userID)
	if err != nil {
		return common.SendServerError(c, "Failed to load calendar status")
	}
	return c.JSON(http.StatusOK, status)
}

// Disconnect drops the stored credentials for one provider.
func (h *CalendarHandlers) Disconnect(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.calendarSvc.Disconnect(c.Request().Context(), userID, c.Param("provider")); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
