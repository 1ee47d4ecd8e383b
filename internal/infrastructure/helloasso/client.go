// Package helloasso implements the outbound provider surface: the
// OAuth2 token endpoint and the v5 organization API.
package helloasso

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/config"
)

type Client struct {
	liveBaseURL    string
	sandboxBaseURL string
	httpClient     *http.Client
}

var _ application.ProviderAPI = (*Client)(nil)

func NewClient(cfg config.ProviderConfig) *Client {
	live := cfg.LiveBaseURL
	if live == "" {
		live = LiveBaseURL
	}
	sandbox := cfg.SandboxBaseURL
	if sandbox == "" {
		sandbox = SandboxBaseURL
	}
	return &Client{
		liveBaseURL:    live,
		sandboxBaseURL: sandbox,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

func (c *Client) baseURL(sandbox bool) string {
	if sandbox {
		return c.sandboxBaseURL
	}
	return c.liveBaseURL
}

// ExchangeClientCredentials performs a client-credentials grant.
func (c *Client) ExchangeClientCredentials(ctx context.Context, sandbox bool, clientID, clientSecret string) (*application.TokenGrant, error) {
	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("grant_type", "client_credentials")
	return c.exchangeToken(ctx, sandbox, form)
}

// ExchangeRefreshToken performs a refresh-token grant. Refresh tokens
// are single-use on the provider side.
func (c *Client) ExchangeRefreshToken(ctx context.Context, sandbox bool, clientID, refreshToken string) (*application.TokenGrant, error) {
	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")
	return c.exchangeToken(ctx, sandbox, form)
}

func (c *Client) exchangeToken(ctx context.Context, sandbox bool, form url.Values) (*application.TokenGrant, error) {
	endpoint := c.baseURL(sandbox) + tokenPath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("error decoding token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token response carries no access token")
	}

	return &application.TokenGrant{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    tok.ExpiresIn,
	}, nil
}

// CreateCheckoutIntent registers a pending payment with the provider and
// returns the redirect URL for the payer.
func (c *Client) CreateCheckoutIntent(ctx context.Context, sandbox bool, slug, accessToken string, req application.CheckoutIntentRequest) (*application.CheckoutIntentResponse, error) {
	endpoint := fmt.Sprintf("%sv5/organizations/%s/checkout-intents", c.baseURL(sandbox), slug)

	payload := checkoutIntentPayload{
		TotalAmount:      req.TotalAmount,
		InitialAmount:    req.InitialAmount,
		ItemName:         req.ItemName,
		BackURL:          req.BackURL,
		ErrorURL:         req.ErrorURL,
		ReturnURL:        req.ReturnURL,
		ContainsDonation: req.ContainsDonation,
		Payer: payerPayload{
			FirstName:   req.Payer.FirstName,
			LastName:    req.Payer.LastName,
			Email:       req.Payer.Email,
			Address:     req.Payer.Address,
			City:        req.Payer.City,
			ZipCode:     req.Payer.ZipCode,
			CompanyName: req.Payer.CompanyName,
		},
		Metadata: req.Metadata,
	}

	var intent checkoutIntentResponse
	if err := c.postJSON(ctx, endpoint, accessToken, payload, &intent); err != nil {
		return nil, err
	}
	if intent.RedirectURL == "" {
		return nil, fmt.Errorf("checkout intent response carries no redirect URL")
	}

	return &application.CheckoutIntentResponse{
		ID:          intent.ID,
		RedirectURL: intent.RedirectURL,
	}, nil
}

// GetOrganization fetches the configured organization, mainly to let the
// settings surface verify credentials.
func (c *Client) GetOrganization(ctx context.Context, sandbox bool, slug, accessToken string) (*application.Organization, error) {
	endpoint := fmt.Sprintf("%sv5/organizations/%s", c.baseURL(sandbox), slug)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var org organizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&org); err != nil {
		return nil, fmt.Errorf("error decoding organization response: %w", err)
	}

	return &application.Organization{
		Name: org.Name,
		Slug: org.Slug,
		City: org.City,
		URL:  org.URL,
	}, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint, accessToken string, payload any, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding json response: %w", err)
	}

	return nil
}
