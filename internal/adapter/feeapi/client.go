// Package feeapi provides the client for the school administration API that
// serves course fee data.
package feeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the fee API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new fee API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type feeCategoriesResponse struct {
	FeesByCategory json.RawMessage `json:"feesByCategory"`
}

// FeeCategories fetches the fee schedule grouped by category and returns it
// as text. Returns an empty string when the API has no fee data.
func (c *Client) FeeCategories(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/admin/fee-categories", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fee API error [%d]: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result feeCategoriesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return rawToText(result.FeesByCategory), nil
}

// rawToText renders the fee payload as plain text. A JSON string is
// unquoted; any other JSON value is passed through verbatim.
func rawToText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
