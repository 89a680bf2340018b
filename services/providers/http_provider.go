package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/upb/psp-router/models"
)

const maxResponseBytes = 1 << 20

// HTTPConfig holds configuration for an HTTP PSP
type HTTPConfig struct {
	// Name of the PSP
	Name string

	// Endpoint receiving POSTed transactions
	Endpoint string

	// Timeout for a single dispatch
	Timeout time.Duration
}

// HTTPProvider dispatches transactions to a PSP over HTTP.
// One attempt per dispatch; failures are returned, never retried.
type HTTPProvider struct {
	config     HTTPConfig
	httpClient *http.Client
}

// NewHTTPProvider creates an HTTP PSP adapter. A nil httpClient gets one
// bounded by cfg.Timeout.
func NewHTTPProvider(cfg HTTPConfig, httpClient *http.Client) *HTTPProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPProvider{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Name returns the PSP name
func (p *HTTPProvider) Name() string {
	return p.config.Name
}

// Endpoint returns the PSP endpoint URL
func (p *HTTPProvider) Endpoint() string {
	return p.config.Endpoint
}

// Process POSTs the transaction and decodes the PSP verdict
func (p *HTTPProvider) Process(ctx context.Context, txn models.Transaction) (models.ProviderResponse, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(txn)
	if err != nil {
		return models.ProviderResponse{}, NewProviderError(p.Name(), CodeRequestError, "failed to marshal transaction", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return models.ProviderResponse{}, NewProviderError(p.Name(), CodeRequestError, "failed to create request", 0, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return models.ProviderResponse{}, NewProviderError(p.Name(), CodeHTTPError, "request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return models.ProviderResponse{}, NewProviderError(p.Name(), CodeBadStatus, "unexpected status "+resp.Status, resp.StatusCode, nil)
	}

	var verdict models.ProviderResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&verdict); err != nil {
		return models.ProviderResponse{}, NewProviderError(p.Name(), CodeUnmarshalError, "failed to decode response", resp.StatusCode, err)
	}

	// A PSP reporting its own error, or no recognisable status, is not a verdict.
	if verdict.Error != "" || !verdict.Status.IsValid() {
		msg := "invalid status " + string(verdict.Status)
		if verdict.Error != "" {
			msg = "psp reported error " + verdict.Error
		}
		return models.ProviderResponse{}, NewProviderError(p.Name(), CodeInvalidVerdict, msg, resp.StatusCode, nil)
	}

	return verdict, nil
}
