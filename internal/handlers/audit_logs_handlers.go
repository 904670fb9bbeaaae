package handlers

import (
	"net/http"
	"strconv"
	"time"

	"mentorhub/internal/common"
	"mentorhub/internal/models"
	"mentorhub/internal/repositories"
	"mentorhub/internal/roles"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditLogsHandlers serves the admin audit trail.
type AuditLogsHandlers struct {
	auditRepo repositories.AuditLogsRepository
}

func NewAuditLogsHandlers(auditRepo repositories.AuditLogsRepository) *AuditLogsHandlers {
	return &AuditLogsHandlers{auditRepo: auditRepo}
}

// ListAuditLogs pages through the caller's organization trail. Platform
// admins may pass ?organization_id= to inspect another tenant.
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	orgID, _ := common.GetOrgIDFromContext(c.Request().Context())
	role := common.GetRoleFromContext(c.Request().Context())
	if requested := c.QueryParam("organization_id"); requested != "" && role == roles.PlatformAdmin {
		scoped, err := common.ValidateOrganizationScope(requested, "organization_id")
		if err != nil {
			return common.SendValidationError(c, "organization_id", err.Error())
		}
		orgID = scoped
	}

	filters := &models.AuditLogFilters{}
	if entity := c.QueryParam("entity_type"); entity != "" {
		filters.EntityType = &entity
	}
	if action := c.QueryParam("action"); action != "" {
		filters.Action = &action
	}
	if actor := c.QueryParam("actor_id"); actor != "" {
		actorID, err := uuid.Parse(actor)
		if err != nil {
			return common.SendValidationError(c, "actor_id", "must be a UUID")
		}
		filters.ActorID = &actorID
	}
	if since := c.QueryParam("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return common.SendValidationError(c, "since", "must be RFC 3339")
		}
		filters.Since = &t
	}
	if until := c.QueryParam("until"); until != "" {
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return common.SendValidationError(c, "until", "must be RFC 3339")
		}
		filters.Until = &t
	}

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
	filters.Limit = limit
	filters.Offset = offset

	logs, err := h.auditRepo.List(c.Request().Context(), orgID, filters)
	if err != nil {
		return common.SendServerError(c, "Failed to retrieve audit logs")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   logs,
		"total":  len(logs),
		"limit":  filters.Limit,
		"offset": filters.Offset,
	})
}
