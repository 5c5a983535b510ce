package analyzer

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
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/time/rate"
)

// Client handles communication with the AI feature-extraction service.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	log         logger.Logger
}

// NewClient creates a feature-extraction client. The AI backend queues
// requests internally, so calls are paced rather than retried; a failed
// analysis surfaces to the user immediately and can simply be re-run.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
		log:         log.With(map[string]interface{}{"component": "analyzer_client"}),
	}
}

// analyzeRequest is the wire payload for the analysis endpoint.
type analyzeRequest struct {
	SearchMethod    string `json:"search_method"`
	TextDescription string `json:"text_description,omitempty"`
	ImageBase64     string `json:"image_base64,omitempty"`
}

// Analyze sends the raw input to the extraction service and returns the
// decoded result envelope. Transport failures wrap ErrNetwork; non-2xx
// statuses and malformed bodies wrap ErrServiceFailure. A single attempt is
// made per call.
func (c *Client) Analyze(ctx context.Context, input domain.SearchInput) (*domain.AnalysisResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(analyzeRequest{
		SearchMethod:    string(input.Method),
		TextDescription: input.TextDescription,
		ImageBase64:     input.ImageBase64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("analysis request rejected", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return nil, fmt.Errorf("%w: status %d", domain.ErrServiceFailure, resp.StatusCode)
	}

	if err := validateResponse(body); err != nil {
		c.log.Warn("analysis response failed validation", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrServiceFailure, err)
	}

	c.log.Debug("analysis completed", map[string]interface{}{
		"success":     result.Success,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return &result, nil
}

// validateResponse checks the raw body against the response schema before it
// is decoded into the domain type.
func validateResponse(body []byte) error {
	result, err := responseSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: unparseable response: %v", domain.ErrServiceFailure, err)
	}
	if !result.Valid() {
		return fmt.Errorf("%w: response schema violation: %v", domain.ErrServiceFailure, result.Errors()[0])
	}
	return nil
}
