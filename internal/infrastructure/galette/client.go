// Package galette talks to the membership host application's internal
// API: accounting record creation/validation and the contribution type
// catalog. The host owns all business rules behind these endpoints.
package galette

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/config"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

var (
	_ application.ContributionService = (*Client)(nil)
	_ application.TierCatalog         = (*Client)(nil)
)

func NewClient(cfg config.HostConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

type contributionPayload struct {
	Type          int     `json:"type"`
	Member        int     `json:"member"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Extension     string  `json:"extension,omitempty"`
}

type validationResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type tierResponse struct {
	ID            int     `json:"id"`
	Amount        float64 `json:"amount"`
	Name          string  `json:"name"`
	DonationExtra bool    `json:"donation_extra"`
	Extension     bool    `json:"extension"`
}

// Validate asks the host to check the derived accounting parameters
// against its rules without storing anything.
func (c *Client) Validate(ctx context.Context, contrib domain.Contribution) error {
	var result validationResponse
	if err := c.post(ctx, "/api/contributions/check", toPayload(contrib), &result); err != nil {
		return err
	}
	if !result.Valid {
		return &application.ValidationError{Messages: result.Errors}
	}
	return nil
}

// Create stores the accounting record in the host application.
func (c *Client) Create(ctx context.Context, contrib domain.Contribution) error {
	return c.post(ctx, "/api/contributions", toPayload(contrib), nil)
}

// List returns the host's complete contribution type catalog.
func (c *Client) List(ctx context.Context) ([]domain.PricingTier, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/contribution-types", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return nil, &HostError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tiers []tierResponse
	if err := json.NewDecoder(resp.Body).Decode(&tiers); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	out := make([]domain.PricingTier, len(tiers))
	for i, t := range tiers {
		out[i] = domain.PricingTier{
			ID:            t.ID,
			Amount:        t.Amount,
			Name:          t.Name,
			DonationExtra: t.DonationExtra,
			Extension:     t.Extension,
		}
	}
	return out, nil
}

func toPayload(c domain.Contribution) contributionPayload {
	return contributionPayload{
		Type:          c.TierID,
		Member:        c.MemberID,
		Amount:        c.Amount,
		PaymentMethod: c.PaymentMethod,
		Extension:     c.Extension,
	}
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		var verr validationResponse
		if json.Unmarshal(body, &verr) == nil && len(verr.Errors) > 0 {
			return &application.ValidationError{Messages: verr.Errors}
		}
		return &HostError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("error decoding json response: %w", err)
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}
