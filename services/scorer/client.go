// Package scorer obtains failure-risk scores for transactions from an
// external prediction service.
//
// Scoring favours availability over accuracy: when the service cannot be
// reached or answers with anything other than a probability, the client
// substitutes a default score and reports that it did so. Callers never see
// an error.
package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/upb/psp-router/models"
	"github.com/upb/psp-router/services"
	"go.uber.org/zap"
)

const (
	// DefaultScore is substituted whenever the scorer call fails
	DefaultScore = 0.5

	maxResponseBytes = 1 << 20
)

// Config holds scorer client configuration
type Config struct {
	// URL of the prediction endpoint
	URL string

	// Timeout bounds a single scoring call
	Timeout time.Duration

	// DefaultScore is returned when the call fails
	DefaultScore float64
}

// Result is the outcome of scoring one transaction. When Fallback is set,
// Probability is the configured default and Cause says why the scorer could
// not be used.
type Result struct {
	Probability float64
	Fallback    bool
	Cause       error
}

// Client calls the prediction service. One attempt per transaction, no retries.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a scorer client. A nil httpClient gets one bounded by
// cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Score returns the predicted failure probability for txn
func (c *Client) Score(ctx context.Context, txn models.Transaction) Result {
	probability, err := c.predict(ctx, txn)
	if err != nil {
		c.logger.Warn("risk scorer unavailable, using default score",
			zap.String("txn_id", txn.ID),
			zap.String("url", c.config.URL),
			zap.Float64("default_score", c.config.DefaultScore),
			zap.Error(err))
		return Result{
			Probability: c.config.DefaultScore,
			Fallback:    true,
			Cause:       services.Wrap(services.ErrScorerUnavailable, err),
		}
	}

	c.logger.Debug("transaction scored",
		zap.String("txn_id", txn.ID),
		zap.Float64("failure_probability", probability))
	return Result{Probability: probability}
}

// predictResponse is the body returned by the prediction service
type predictResponse struct {
	TxnID              string   `json:"txn_id"`
	FailureProbability *float64 `json:"failure_probability"`
}

func (c *Client) predict(ctx context.Context, txn models.Transaction) (float64, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(txn)
	if err != nil {
		return 0, fmt.Errorf("marshal transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call scorer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return 0, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode scorer response: %w", err)
	}
	if out.FailureProbability == nil {
		return 0, fmt.Errorf("scorer response has no failure_probability")
	}

	p := *out.FailureProbability
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("failure_probability %v outside [0,1]", p)
	}
	return p, nil
}
