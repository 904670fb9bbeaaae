package handlers

import (
	"net/http"
	"strconv"

	"mentorhub/internal/common"
	"mentorhub/internal/directory"
	"mentorhub/internal/loader"
	"mentorhub/internal/roles"
	"mentorhub/internal/services"

	"github.com/labstack/echo/v4"
)

// pageWindowWidth is how many page buttons the console renders.
const pageWindowWidth = 5

// AdminHandlers backs the platform admin console: the cross-tenant member
// directory and the bulk email tool.
type AdminHandlers struct {
	loader   *loader.AdminLoader
	emailSvc services.EmailService
}

func NewAdminHandlers(adminLoader *loader.AdminLoader, emailSvc services.EmailService) *AdminHandlers {
	return &AdminHandlers{loader: adminLoader, emailSvc: emailSvc}
}

// DirectoryResponse is one rendered directory page plus snapshot metadata so
// the console can flag a degraded load.
type DirectoryResponse struct {
	directory.Page
	PageWindow []int  `json:"page_window"`
	Complete   bool   `json:"complete"`
	TimedOut   bool   `json:"timed_out"`
	LoadedAt   string `json:"loaded_at"`
}

// Directory loads a fresh snapshot, applies the query filters, and returns
// the requested page. A concurrent load in flight returns 409 rather than
// stacking a second fetch.
func (h *AdminHandlers) Directory(c echo.Context) error {
	snap, err := h.loader.Load(c.Request().Context())
	if err != nil {
		if err == loader.ErrLoadInProgress {
			return echo.NewHTTPError(http.StatusConflict, "Directory load already in progress")
		}
		return common.SendServerError(c, "Failed to load directory")
	}

	filters := directory.Filters{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	}
	if raw := c.QueryParam("role"); raw != "" {
		role := roles.Resolve(raw)
		if role == roles.Unknown {
			return common.SendValidationError(c, "role", "unknown role")
		}
		filters.Role = role
	}
	if raw := c.QueryParam("organization_id"); raw != "" {
		scoped, err := common.ValidateOrganizationScope(raw, "organization_id")
		if err != nil {
			return common.SendValidationError(c, "organization_id", err.Error())
		}
		filters.OrganizationID = scoped
	}

	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		page = v
	}
	pageSize := directory.DefaultPageSize
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}

	built := directory.Build(snap.Users, filters, page, pageSize)
	return c.JSON(http.StatusOK, DirectoryResponse{
		Page:       built,
		PageWindow: directory.PageWindow(built.Page, built.TotalPages, pageWindowWidth),
		Complete:   snap.Complete,
		TimedOut:   snap.TimedOut,
		LoadedAt:   snap.LoadedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// RefreshDirectory forces a reload even if a previous load is still marked in
// flight. Used after mutations the console wants reflected immediately.
func (h *AdminHandlers) RefreshDirectory(c echo.Context) error {
	snap, err := h.loader.Refresh(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to refresh directory")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"users":         len(snap.Users),
		"organizations": len(snap.Organizations),
		"complete":      snap.Complete,
		"timed_out":     snap.TimedOut,
	})
}

// SendEmail dispatches a custom email to a recipient list on behalf of the
// authenticated admin.
func (h *AdminHandlers) SendEmail(c echo.Context) error {
	var req services.CustomEmailRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	orgID, _ := common.GetOrgIDFromContext(c.Request().Context())
	req.SenderID = userID
	req.OrganizationID = orgID

	result, err := h.emailSvc.SendCustomEmail(c.Request().Context(), &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
