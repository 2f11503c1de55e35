// Package reports queries the reporting backend for metric time series and
// anomaly detections.
package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MetricQuery identifies one object metric over a time span. Resource is the
// catalog table the metric column lives in, when the catalog provides one.
type MetricQuery struct {
	System     string `json:"system"`
	ObjectType string `json:"object_type"`
	ObjectID   string `json:"object_id"`
	Resource   string `json:"resource,omitempty"`
	Metric     string `json:"metric"`
	Unit       string `json:"unit"`
	Duration   int    `json:"duration"`
}

// Point is one time series sample.
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// MetricSeries is the time series for one metric.
type MetricSeries struct {
	Metric string  `json:"metric"`
	Unit   string  `json:"unit,omitempty"`
	Points []Point `json:"points"`
}

// AnomalySeries is a metric series annotated with detected anomalies.
type AnomalySeries struct {
	Metric    string  `json:"metric"`
	Points    []Point `json:"points"`
	Anomalies []Point `json:"anomalies"`
}

// Client is the HTTP client for the reporting backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new reporting client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetMetricData fetches the time series for one metric query.
func (c *Client) GetMetricData(ctx context.Context, query MetricQuery) (*MetricSeries, error) {
	var series MetricSeries
	if err := c.post(ctx, "/metrics/query", query, &series); err != nil {
		return nil, fmt.Errorf("failed to query metric %s: %w", query.Metric, err)
	}
	return &series, nil
}

// GetAnomalies fetches anomaly detections for one metric query.
func (c *Client) GetAnomalies(ctx context.Context, query MetricQuery) (*AnomalySeries, error) {
	var series AnomalySeries
	if err := c.post(ctx, "/anomalies/query", query, &series); err != nil {
		return nil, fmt.Errorf("failed to query anomalies for %s: %w", query.Metric, err)
	}
	return &series, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("reporting backend returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
