// Package barcode provides the HTTP client for the external barcode
// verification service.
package barcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"transita/internal/core/apperror"
	"transita/pkg/logger"
)

const serviceName = "barcode-validator"

// Config holds client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the external barcode verification service. Any transport
// failure or non-2xx response surfaces as an upstream error; no retries.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a barcode client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type checkRequest struct {
	Barcodes []string `json:"barcodes"`
}

type checkResponse struct {
	Results map[string]bool `json:"results"`
}

// CheckBarcodes verifies the given barcodes and returns validity per
// barcode. Barcodes missing from the response are treated as invalid.
func (c *Client) CheckBarcodes(ctx context.Context, barcodes []string) (map[string]bool, error) {
	if len(barcodes) == 0 {
		return map[string]bool{}, nil
	}

	body, err := json.Marshal(checkRequest{Barcodes: barcodes})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewUpstream(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Warn(ctx, "barcode validator returned error",
			"status", resp.StatusCode, "body", string(raw))
		return nil, apperror.NewUpstream(serviceName,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperror.NewUpstream(serviceName, fmt.Errorf("decode response: %w", err))
	}
	if parsed.Results == nil {
		parsed.Results = map[string]bool{}
	}
	return parsed.Results, nil
}
