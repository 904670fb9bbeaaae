package handlers

import (
	"net/http"

	"mentorhub/internal/common"
	"mentorhub/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers exposes signup, login, and token refresh.
type AuthHandlers struct {
	authService services.AuthService
	userService services.UserService
	orgService  services.OrganizationService
	deviceSvc   services.DeviceService
}

func NewAuthHandlers(authService services.AuthService, userService services.UserService,
	orgService services.OrganizationService, deviceSvc services.DeviceService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userService: userService,
		orgService:  orgService,
		deviceSvc:   deviceSvc,
	}
}

// SignupRequest joins a user to an organization via its join code.
type SignupRequest struct {
	OrganizationCode string `json:"organization_code"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	Role             string `json:"role"`
}

// Signup creates the user inside the organization named by the join code and
// returns a token pair.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateEmail(req.Email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if err := common.ValidateRequiredString(req.OrganizationCode, "organization_code"); err != nil {
		return common.SendValidationError(c, "organization_code", err.Error())
	}

	org, err := h.orgService.GetByCode(c.Request().Context(), req.OrganizationCode)
	if err != nil {
		return common.SendNotFoundError(c, "Organization")
	}

	user, err := h.userService.Create(c.Request().Context(), &services.CreateUserRequest{
		OrganizationID: org.ID.String(),
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		Role:           req.Role,
	})
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	tokens, err := h.authService.GenerateTokens(c.Request().Context(), user)
	if err != nil {
		return common.SendServerError(c, "Failed to issue tokens")
	}
	return c.JSON(http.StatusCreated, tokens)
}

// LoginRequest is the password grant payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"device_id,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// Login verifies credentials and issues a token pair. A device id in the
// payload registers the device.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Email and password are required")
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}

	if req.DeviceID != "" {
		user, err := h.userService.GetByEmail(c.Request().Context(), req.Email)
		if err == nil {
			_, _ = h.deviceSvc.Register(c.Request().Context(), &services.RegisterDeviceRequest{
				UserID:   user.ID,
				DeviceID: req.DeviceID,
				Platform: req.Platform,
			})
		}
	}

	return c.JSON(http.StatusOK, tokens)
}

// Refresh rotates a refresh token.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return common.SendClientError(c, "refresh_token is required")
	}

	tokens, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout revokes the presented refresh token.
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return common.SendClientError(c, "refresh_token is required")
	}
	if err := h.authService.RevokeToken(c.Request().Context(), req.RefreshToken); err != nil {
		return common.SendServerError(c, "Failed to revoke token")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandlers) Me(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	user, err := h.userService.GetByID(c.Request().Context(), userID)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}

	// A device header keeps last_active_at fresh for the cleanup job.
	if deviceID := c.Request().Header.Get("X-Device-ID"); deviceID != "" {
		_ = h.deviceSvc.Touch(c.Request().Context(), userID, deviceID)
	}
	return c.JSON(http.StatusOK, user)
}
