package shopping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/logger"
	"golang.org/x/time/rate"
)

// Client handles communication with the live-shopping search service. It
// serves both the live-price and the image-similarity endpoints, which share
// a deployment and a rate budget.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	log         logger.Logger
}

// NewClient creates a shopping search client. The upstream aggregator allows
// roughly one search per second sustained; short bursts are fine.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(1), 3),
		log:         log.With(map[string]interface{}{"component": "shopping_client"}),
	}
}

// SearchLivePrices runs a live-price search across retailer feeds. Product
// prices arrive heterogeneous (numbers, currency strings, or missing) and are
// decoded as-is; normalization is the caller's concern.
func (c *Client) SearchLivePrices(ctx context.Context, req domain.LivePriceRequest) (*domain.LivePriceResult, error) {
	var result domain.LivePriceResult
	if err := c.post(ctx, "/api/live-prices", req, &result); err != nil {
		return nil, err
	}

	c.log.Debug("live price search completed", map[string]interface{}{
		"success":     result.Success,
		"total_found": result.TotalFound,
	})
	return &result, nil
}

// SearchByImage runs an image-similarity product search.
func (c *Client) SearchByImage(ctx context.Context, req domain.ImageSearchRequest) (*domain.ImageSearchResult, error) {
	var result domain.ImageSearchResult
	if err := c.post(ctx, "/api/image-search", req, &result); err != nil {
		return nil, err
	}

	c.log.Debug("image search completed", map[string]interface{}{
		"success":     result.Success,
		"total_found": result.TotalFound,
	})
	return &result, nil
}

// post executes a rate-limited JSON POST and decodes the response into out.
// Transport failures wrap ErrNetwork; non-2xx statuses and undecodable bodies
// wrap ErrServiceFailure.
func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("shopping request rejected", map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode,
			"body":   string(respBody),
		})
		return fmt.Errorf("%w: status %d", domain.ErrServiceFailure, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", domain.ErrServiceFailure, err)
	}
	return nil
}
