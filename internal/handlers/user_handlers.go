package handlers

import (
	"net/http"
	"strconv"
	"time"

	"mentorhub/internal/common"
	"mentorhub/internal/models"
	"mentorhub/internal/roles"
	"mentorhub/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers covers member CRUD plus avatar upload.
type UserHandlers struct {
	userService services.UserService
	mediaSvc    services.MediaService
}

func NewUserHandlers(userService services.UserService, mediaSvc services.MediaService) *UserHandlers {
	return &UserHandlers{userService: userService, mediaSvc: mediaSvc}
}

// canManage reports whether the caller may mutate the target user: self,
// an admin of the same organization, or a platform admin.
func canManage(c echo.Context, target *models.User) bool {
	callerID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return false
	}
	if callerID == target.ID {
		return true
	}
	role := common.GetRoleFromContext(c.Request().Context())
	if role == roles.PlatformAdmin {
		return true
	}
	orgID, _ := common.GetOrgIDFromContext(c.Request().Context())
	return role == roles.OrgAdmin && orgID == target.OrganizationID
}

// CreateUser provisions a member inside the caller's organization. Platform
// admins may name any organization in the payload.
func (h *UserHandlers) CreateUser(c echo.Context) error {
	var req services.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	role := common.GetRoleFromContext(c.Request().Context())
	callerOrg, _ := common.GetOrgIDFromContext(c.Request().Context())
	if role != roles.PlatformAdmin {
		req.OrganizationID = callerOrg
	}

	user, err := h.userService.Create(c.Request().Context(), &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "user ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	user, err := h.userService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}

	// Cross-org reads are platform-admin only.
	role := common.GetRoleFromContext(c.Request().Context())
	callerOrg, _ := common.GetOrgIDFromContext(c.Request().Context())
	if role != roles.PlatformAdmin && callerOrg != user.OrganizationID {
		return common.SendNotFoundError(c, "User")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUserRequest is a partial profile update; nil fields are untouched.
type UpdateUserRequest struct {
	Name             *string  `json:"name,omitempty"`
	Title            *string  `json:"title,omitempty"`
	Company          *string  `json:"company,omitempty"`
	Role             *string  `json:"role,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	Goals            []string `json:"goals,omitempty"`
	GoalsPublic      *bool    `json:"goals_public,omitempty"`
	MaxMentees       *int     `json:"max_mentees,omitempty"`
	AcceptingMentees *bool    `json:"accepting_new_mentees,omitempty"`
}

func (h *UserHandlers) UpdateUser(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "user ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	user, err := h.userService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}
	if !canManage(c, user) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot modify this user")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Title != nil {
		user.Title = req.Title
	}
	if req.Company != nil {
		user.Company = req.Company
	}
	if req.Role != nil {
		// Role changes are admin-only even on your own profile.
		callerRole := common.GetRoleFromContext(c.Request().Context())
		if callerRole != roles.PlatformAdmin && callerRole != roles.OrgAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Cannot change role")
		}
		user.Role = *req.Role
	}
	if req.Skills != nil {
		user.Skills = req.Skills
	}
	if req.Goals != nil {
		user.Goals = req.Goals
	}
	if req.GoalsPublic != nil {
		user.GoalsPublic = *req.GoalsPublic
	}
	if req.MaxMentees != nil {
		user.MaxMentees = *req.MaxMentees
	}
	if req.AcceptingMentees != nil {
		user.AcceptingNewMentees = *req.AcceptingMentees
	}

	if err := h.userService.Update(c.Request().Context(), user); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) DeleteUser(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "user ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	user, err := h.userService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}
	if !canManage(c, user) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot delete this user")
	}

	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete user")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers pages through the caller's organization. Platform admins may pass
// ?organization_id= to list another tenant.
func (h *UserHandlers) ListUsers(c echo.Context) error {
	orgID, _ := common.GetOrgIDFromContext(c.Request().Context())
	role := common.GetRoleFromContext(c.Request().Context())
	if requested := c.QueryParam("organization_id"); requested != "" && role == roles.PlatformAdmin {
		scoped, err := common.ValidateOrganizationScope(requested, "organization_id")
		if err != nil {
			return common.SendValidationError(c, "organization_id", err.Error())
		}
		orgID = scoped
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

	users, err := h.userService.List(c.Request().Context(), orgID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list users")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// UploadMyAvatar uploads an avatar for the authenticated user.
func (h *UserHandlers) UploadMyAvatar(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	c.SetParamNames("id")
	c.SetParamValues(userID.String())
	return h.UploadAvatar(c)
}

// UploadAvatar stores the multipart "avatar" file and records its URL on the
// profile.
func (h *UserHandlers) UploadAvatar(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "user ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	user, err := h.userService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}
	if !canManage(c, user) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot modify this user")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return common.SendClientError(c, "avatar file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload")
	}
	defer file.Close()

	objectName, err := h.mediaSvc.UploadAvatar(c.Request().Context(), id,
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	url, err := h.mediaSvc.PresignedURL(c.Request().Context(), objectName, 24*time.Hour)
	if err != nil {
		return common.SendServerError(c, "Failed to generate avatar URL")
	}

	user.AvatarURL = &url
	if err := h.userService.Update(c.Request().Context(), user); err != nil {
		return common.SendServerError(c, "Failed to save avatar")
	}
	return c.JSON(http.StatusOK, map[string]string{"avatar_url": url, "object": objectName})
}
