package handlers

import (
	"net/http"

	"mentorhub/internal/common"
	"mentorhub/internal/services"

	"github.com/labstack/echo/v4"
)

// DeviceHandlers lists and revokes the caller's sign-in devices.
type DeviceHandlers struct {
	deviceSvc services.DeviceService
}

func NewDeviceHandlers(deviceSvc services.DeviceService) *DeviceHandlers {
	return &DeviceHandlers{deviceSvc: deviceSvc}
}

func (h *DeviceHandlers) ListDevices(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	devices, err := h.deviceSvc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return common.SendServerError(c, "Failed to list devices")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"devices": devices})
}

// RegisterDevice records the current device against the caller.
func (h *DeviceHandlers) RegisterDevice(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	req.UserID = userID

	device, err := h.deviceSvc.Register(c.Request().Context(), &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, device)
}

// RevokeDevice deletes one of the caller's devices. Revoking someone else's
// device reads as not found.
func (h *DeviceHandlers) RevokeDevice(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "device ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	orgID, _ := common.GetOrgIDFromContext(c.Request().Context())
	if err := h.deviceSvc.Revoke(c.Request().Context(), userID, id, userID, orgID); err != nil {
		return common.SendNotFoundError(c, "Device")
	}
	return c.NoContent(http.StatusNoContent)
}
