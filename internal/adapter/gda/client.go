// Package gda looks up system details in the global device association
// service, which knows which monitoring sources a system reports into.
package gda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xiaot623/genai-chat/internal/domain"
)

// Client is the HTTP client for the device association service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new device association client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetSystemDetail fetches the detail record for a system id.
func (c *Client) GetSystemDetail(ctx context.Context, system string) (*domain.SystemDetail, error) {
	endpoint := c.baseURL + "/systems/" + url.PathEscape(system)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query system detail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("system detail lookup returned status %d: %s", resp.StatusCode, string(body))
	}

	var detail domain.SystemDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("failed to decode system detail: %w", err)
	}
	return &detail, nil
}
