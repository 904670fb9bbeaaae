package handlers

import (
	"net/http"
	"strconv"
	"time"

	"mentorhub/internal/common"
	"mentorhub/internal/roles"
	"mentorhub/internal/services"

	"github.com/labstack/echo/v4"
)

// OrganizationHandlers covers tenant CRUD plus program logo upload.
type OrganizationHandlers struct {
	orgService services.OrganizationService
	mediaSvc   services.MediaService
}

func NewOrganizationHandlers(orgService services.OrganizationService, mediaSvc services.MediaService) *OrganizationHandlers {
	return &OrganizationHandlers{orgService: orgService, mediaSvc: mediaSvc}
}

// CreateOrganization provisions a tenant with a fresh join code and a trial.
func (h *OrganizationHandlers) CreateOrganization(c echo.Context) error {
	var req services.CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	org, err := h.orgService.Create(c.Request().Context(), &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, org)
}

// canSeeOrg scopes org reads: members see their own tenant, platform admins
// see all.
func canSeeOrg(c echo.Context, orgID string) bool {
	if common.GetRoleFromContext(c.Request().Context()) == roles.PlatformAdmin {
		return true
	}
	callerOrg, _ := common.GetOrgIDFromContext(c.Request().Context())
	return callerOrg == orgID
}

func (h *OrganizationHandlers) GetOrganization(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "organization ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	if !canSeeOrg(c, id.String()) {
		return common.SendNotFoundError(c, "Organization")
	}

	org, err := h.orgService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "Organization")
	}
	return c.JSON(http.StatusOK, org)
}

// UpdateOrganizationRequest is a partial tenant update.
type UpdateOrganizationRequest struct {
	Name        *string `json:"name,omitempty"`
	Domain      *string `json:"domain,omitempty"`
	ProgramName *string `json:"program_name,omitempty"`
}

func (h *OrganizationHandlers) UpdateOrganization(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "organization ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	role := common.GetRoleFromContext(c.Request().Context())
	callerOrg, _ := common.GetOrgIDFromContext(c.Request().Context())
	if role != roles.PlatformAdmin && !(role == roles.OrgAdmin && callerOrg == id.String()) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot modify this organization")
	}

	org, err := h.orgService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "Organization")
	}

	var req UpdateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Domain != nil {
		org.Domain = req.Domain
	}
	if req.ProgramName != nil {
		org.ProgramName = *req.ProgramName
	}

	if err := h.orgService.Update(c.Request().Context(), org); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandlers) DeleteOrganization(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "organization ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	if err := h.orgService.Delete(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete organization")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrganizationHandlers) ListOrganizations(c echo.Context) error {
	limit, offset := 50, 0
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil {
		offset = v
	}
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	orgs, err := h.orgService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list organizations")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"organizations": orgs,
		"limit":         limit,
		"offset":        offset,
	})
}

// UploadLogo stores the multipart "logo" file and records its URL on the
// tenant.
func (h *OrganizationHandlers) UploadLogo(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "organization ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	role := common.GetRoleFromContext(c.Request().Context())
	callerOrg, _ := common.GetOrgIDFromContext(c.Request().Context())
	if role != roles.PlatformAdmin && !(role == roles.OrgAdmin && callerOrg == id.String()) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot modify this organization")
	}

	org, err := h.orgService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "Organization")
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return common.SendClientError(c, "logo file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload")
	}
	defer file.Close()

	objectName, err := h.mediaSvc.UploadProgramLogo(c.Request().Context(), id,
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	url, err := h.mediaSvc.PresignedURL(c.Request().Context(), objectName, 24*time.Hour)
	if err != nil {
		return common.SendServerError(c, "Failed to generate logo URL")
	}

	org.ProgramLogoURL = &url
	if err := h.orgService.Update(c.Request().Context(), org); err != nil {
		return common.SendServerError(c, "Failed to save logo")
	}
	return c.JSON(http.StatusOK, map[string]string{"logo_url": url, "object": objectName})
}
