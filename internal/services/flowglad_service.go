package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// FlowgladService handles all Flowglad billing API interactions. Flowglad is
// the source of truth for payment methods, invoices, and subscription status;
// local records only cache the customer id.
type FlowgladService interface {
	EnsureCustomer(ctx context.Context, orgID uuid.UUID, orgName, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, priceRef, successURL, cancelURL string) (string, error)
	BillingPortalURL(ctx context.Context, customerID string) (string, error)
	GetBillingData(ctx context.Context, customerID string) (*BillingData, error)
}

type flowgladService struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// PaymentMethod is a stored payment instrument as reported by the provider.
type PaymentMethod struct {
	ID        string `json:"id"`
	Brand     string `json:"brand"`
	LastFour  string `json:"last_four"`
	ExpMonth  int    `json:"exp_month"`
	ExpYear   int    `json:"exp_year"`
	IsDefault bool   `json:"is_default"`
}

// Invoice is a provider invoice summary.
type Invoice struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	HostedURL   string    `json:"hosted_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// BillingData bundles everything the billing screen shows for one customer.
type BillingData struct {
	PaymentMethods []PaymentMethod `json:"payment_methods"`
	Invoices       []Invoice       `json:"invoices"`
	PortalURL      string          `json:"portal_url"`
}

type flowgladError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type customerResponse struct {
	ID string `json:"id"`
}

type sessionResponse struct {
	URL string `json:"url"`
}

// NewFlowgladService creates a Flowglad API client.
func NewFlowgladService(apiKey, baseURL string) FlowgladService {
	return &flowgladService{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// EnsureCustomer creates or reuses the provider customer for an organization.
// The externalId is the organization uuid, so repeated calls are idempotent on
// the provider side.
func (s *flowgladService) EnsureCustomer(ctx context.Context, orgID uuid.UUID, orgName, email string) (string, error) {
	body := map[string]string{
		"external_id": orgID.String(),
		"name":        orgName,
		"email":       email,
	}
	data, err := s.makeRequest(ctx, http.MethodPost, "/customers", body)
	if err != nil {
		return "", fmt.Errorf("failed to ensure Flowglad customer: %w", err)
	}

	var resp customerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse Flowglad customer response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("Flowglad returned an empty customer id")
	}
	return resp.ID, nil
}

// CreateCheckoutSession starts a hosted checkout for one price and returns the
// redirect URL.
func (s *flowgladService) CreateCheckoutSession(ctx context.Context, customerID, priceRef, successURL, cancelURL string) (string, error) {
	body := map[string]string{
		"customer_id": customerID,
		"price_id":    priceRef,
		"success_url": successURL,
		"cancel_url":  cancelURL,
	}
	data, err := s.makeRequest(ctx, http.MethodPost, "/checkout-sessions", body)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse checkout session response: %w", err)
	}
	return resp.URL, nil
}

// BillingPortalURL returns a hosted portal link for self-service billing
// management.
func (s *flowgladService) BillingPortalURL(ctx context.Context, customerID string) (string, error) {
	body := map[string]string{"customer_id": customerID}
	data, err := s.makeRequest(ctx, http.MethodPost, "/billing-portal-sessions", body)
	if err != nil {
		return "", fmt.Errorf("failed to create billing portal session: %w", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse billing portal response: %w", err)
	}
	return resp.URL, nil
}

// GetBillingData fetches payment methods and invoices plus a portal link in
// one call for the billing screen.
func (s *flowgladService) GetBillingData(ctx context.Context, customerID string) (*BillingData, error) {
	result := &BillingData{
		PaymentMethods: []PaymentMethod{},
		Invoices:       []Invoice{},
	}

	data, err := s.makeRequest(ctx, http.MethodGet, "/customers/"+customerID+"/payment-methods", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment methods: %w", err)
	}
	var methods struct {
		Data []PaymentMethod `json:"data"`
	}
	if err := json.Unmarshal(data, &methods); err != nil {
		return nil, fmt.Errorf("failed to parse payment methods: %w", err)
	}
	result.PaymentMethods = methods.Data

	data, err = s.makeRequest(ctx, http.MethodGet, "/customers/"+customerID+"/invoices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	var invoices struct {
		Data []Invoice `json:"data"`
	}
	if err := json.Unmarshal(data, &invoices); err != nil {
		return nil, fmt.Errorf("failed to parse invoices: %w", err)
	}
	result.Invoices = invoices.Data

	portalURL, err := s.BillingPortalURL(ctx, customerID)
	if err != nil {
		return nil, err
	}
	result.PortalURL = portalURL

	return result, nil
}

func (s *flowgladService) makeRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewBuffer(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		// Relay the provider's message when it gives one.
		var apiErr flowgladError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("flowglad: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("flowglad: unexpected status %d", resp.StatusCode)
	}

	return data, nil
}
