package handlers

import (
	"net/http"

	"mentorhub/internal/common"
	"mentorhub/internal/roles"
	"mentorhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BillingHandlers exposes the org billing screen: plan state, checkout, and
// the provider portal.
type BillingHandlers struct {
	billingSvc services.BillingService
}

func NewBillingHandlers(billingSvc services.BillingService) *BillingHandlers {
	return &BillingHandlers{billingSvc: billingSvc}
}

func (h *BillingHandlers) orgScope(c echo.Context) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param("id"), "organization ID")
	if err != nil {
		return uuid.Nil, common.SendValidationError(c, "id", err.Error())
	}
	role := common.GetRoleFromContext(c.Request().Context())
	callerOrg, _ := common.GetOrgIDFromContext(c.Request().Context())
	if role != roles.PlatformAdmin && !(role == roles.OrgAdmin && callerOrg == id.String()) {
		return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "Billing is admin-only")
	}
	return id, nil
}

// GetBilling returns the plan state, available plans, and provider billing
// data for the organization.
func (h *BillingHandlers) GetBilling(c echo.Context) error {
	orgID, err := h.orgScope(c)
	if err != nil {
		return err
	}

	view, err := h.billingSvc.GetBillingView(c.Request().Context(), orgID)
	if err != nil {
		return common.SendServerError(c, "Failed to load billing data")
	}
	return c.JSON(http.StatusOK, view)
}

// CheckoutRequest starts a subscription purchase.
type CheckoutRequest struct {
	Tier       string `json:"tier"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// Checkout creates a provider checkout session for the requested tier and
// returns its URL.
func (h *BillingHandlers) Checkout(c echo.Context) error {
	orgID, err := h.orgScope(c)
	if err != nil {
		return err
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Tier == "" {
		return common.SendValidationError(c, "tier", "tier is required")
	}

	url, err := h.billingSvc.StartCheckout(c.Request().Context(), orgID, req.Tier, req.SuccessURL, req.CancelURL)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"checkout_url": url})
}

// Portal returns the provider's self-serve billing portal URL.
func (h *BillingHandlers) Portal(c echo.Context) error {
	orgID, err := h.orgScope(c)
	if err != nil {
		return err
	}

	url, err := h.billingSvc.PortalURL(c.Request().Context(), orgID)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"portal_url": url})
}
