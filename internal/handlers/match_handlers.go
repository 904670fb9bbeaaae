package handlers

import (
	"net/http"
	"strconv"

	"mentorhub/internal/common"
	"mentorhub/internal/services"

	"github.com/labstack/echo/v4"
)

// MatchHandlers manages mentor/mentee pairings within the caller's
// organization.
type MatchHandlers struct {
	matchService services.MatchService
}

func NewMatchHandlers(matchService services.MatchService) *MatchHandlers {
	return &MatchHandlers{matchService: matchService}
}

// CreateMatchRequest pairs a mentor with a mentee.
type CreateMatchRequest struct {
	MentorID string `json:"mentor_id"`
	MenteeID string `json:"mentee_id"`
}

// CreateMatch pairs the two users. Capacity is advisory: the response carries
// the mentor's load so the console can warn, but an over-capacity pairing is
// not rejected.
func (h *MatchHandlers) CreateMatch(c echo.Context) error {
	var req CreateMatchRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	mentorID, err := common.ValidateUUID(req.MentorID, "mentor_id")
	if err != nil {
		return common.SendValidationError(c, "mentor_id", err.Error())
	}
	menteeID, err := common.ValidateUUID(req.MenteeID, "mentee_id")
	if err != nil {
		return common.SendValidationError(c, "mentee_id", err.Error())
	}

	orgID, _ := common.GetOrgIDFromContext(c.Request().Context())
	match, capacity, err := h.matchService.Create(c.Request().Context(), orgID, mentorID, menteeID)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"match":    match,
		"capacity": capacity,
	})
}

func (h *MatchHandlers) GetMatch(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "match ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	orgID, _ := common.GetOrgIDFromContext(c.Request().Context())
	match, err := h.matchService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return common.SendNotFoundError(c, "Match")
	}
	return c.JSON(http.StatusOK, match)
}

func (h *MatchHandlers) ListMatches(c echo.Context) error {
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

	orgID, _ := common.GetOrgIDFromContext(c.Request().Context())
	matches, err := h.matchService.List(c.Request().Context(), orgID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list matches")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"matches": matches,
		"limit":   limit,
		"offset":  offset,
	})
}

// UpdateMatchStatus moves a match through its lifecycle (active, paused,
// completed, cancelled).
func (h *MatchHandlers) UpdateMatchStatus(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "match ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return common.SendClientError(c, "status is required")
	}

	orgID, _ := common.GetOrgIDFromContext(c.Request().Context())
	if err := h.matchService.UpdateStatus(c.Request().Context(), orgID, id, req.Status); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// MentorCapacity reports how many active mentees a mentor carries against
// their configured maximum.
func (h *MatchHandlers) MentorCapacity(c echo.Context) error {
	mentorID, err := common.ValidateUUID(c.Param("id"), "mentor ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	capacity, err := h.matchService.Capacity(c.Request().Context(), mentorID)
	if err != nil {
		return common.SendNotFoundError(c, "Mentor")
	}
	return c.JSON(http.StatusOK, capacity)
}
