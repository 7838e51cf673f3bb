package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TimurManjosov/volumediscount/internal/function"
	"github.com/TimurManjosov/volumediscount/internal/rules"
)

// Client is an HTTP client for the volume discount API
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is returned for any non-success response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Settings is a shop's stored configuration as returned by the API.
type Settings struct {
	ShopID string                `json:"shopId" yaml:"shopId"`
	Config *rules.DiscountConfig `json:"config" yaml:"config"`
}

// GetSettings retrieves the shop's configuration. Config is nil when none is stored.
func (c *Client) GetSettings(ctx context.Context, shopID string) (*Settings, error) {
	var out Settings
	if err := c.do(ctx, http.MethodGet, shopPath(shopID, "volume-discount"), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveSettings writes the shop's configuration and returns the stored record.
func (c *Client) SaveSettings(ctx context.Context, shopID string, products []string, percentOff int) (*rules.DiscountConfig, error) {
	body := map[string]any{"products": products, "percentOff": percentOff}
	var out struct {
		OK     bool                  `json:"ok"`
		Config *rules.DiscountConfig `json:"config"`
	}
	if err := c.do(ctx, http.MethodPut, shopPath(shopID, "volume-discount"), body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Config, nil
}

// DeleteSettings removes the shop's configuration.
func (c *Client) DeleteSettings(ctx context.Context, shopID string) error {
	return c.do(ctx, http.MethodDelete, shopPath(shopID, "volume-discount"), nil, nil, http.StatusOK, http.StatusNoContent)
}

// EvaluateShop evaluates a cart against the shop's stored configuration.
func (c *Client) EvaluateShop(ctx context.Context, shopID string, cart function.Cart) (*function.RunResult, error) {
	var out function.RunResult
	body := map[string]any{"cart": cart}
	if err := c.do(ctx, http.MethodPost, shopPath(shopID, "evaluate"), body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Run posts a complete RunInput to the function endpoint.
func (c *Client) Run(ctx context.Context, input function.RunInput) (*function.RunResult, error) {
	var out function.RunResult
	if err := c.do(ctx, http.MethodPost, "/v1/functions/cart-lines-discounts-generate/run", input, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func shopPath(shopID, resource string) string {
	return "/v1/shops/" + url.PathEscape(shopID) + "/" + resource
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, okStatus ...int) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	ok := false
	for _, code := range okStatus {
		if resp.StatusCode == code {
			ok = true
			break
		}
	}
	if !ok {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
