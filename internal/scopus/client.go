// Package scopus provides a rate-limited client for the Elsevier
// Abstract Retrieval API.
package scopus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/citegraph/citegraph/internal/paper"
)

const (
	// BaseURL is the Abstract Retrieval API base URL.
	BaseURL = "https://api.elsevier.com/content/abstract"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit is 9 requests per second, the Abstract Retrieval API
	// ceiling per Elsevier documentation. The weekly quota is enforced
	// server-side and surfaces as ErrQuotaExceeded.
	RateLimit = 9.0
)

// Cache stores raw response bodies keyed by request identity. A hit is
// served without touching the limiter or the network.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte) error
}

// Client is a rate-limited HTTP client for the Abstract Retrieval API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	instToken  string
	baseURL    string
	cache      Cache
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithInstToken sets the institutional token sent alongside the API key.
func WithInstToken(token string) ClientOption {
	return func(c *Client) {
		c.instToken = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCache attaches a response cache.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the logger for retrieval diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Abstract Retrieval API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	// Check for credentials in environment
	if key := os.Getenv("SCOPUS_API_KEY"); key != "" {
		c.apiKey = key
	}
	if token := os.Getenv("SCOPUS_INST_TOKEN"); token != "" {
		c.instToken = token
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, id string) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrQuotaExceeded, resp.StatusCode)
	}
	if resp.StatusCode == 404 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Code:       "api_error",
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
			Identifier: id,
		}
		var svcErr errorResponse
		if body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil {
			if json.Unmarshal(body, &svcErr) == nil && svcErr.ServiceError.Status.Code != "" {
				apiErr.Code = svcErr.ServiceError.Status.Code
				apiErr.Message = svcErr.ServiceError.Status.Text
			}
		}
		return apiErr
	}
	return nil
}

// fetchAbstract retrieves the raw FULL view body for one document,
// serving from the cache when possible.
func (c *Client) fetchAbstract(ctx context.Context, id string, idType paper.IDType) ([]byte, error) {
	if !idType.Valid() {
		return nil, fmt.Errorf("%w: unsupported id type %q", ErrInvalidResponse, idType)
	}

	cacheKey := "abs/" + string(idType) + "/" + id
	if c.cache != nil {
		if body, ok := c.cache.Get(cacheKey); ok {
			c.logger.Debug("cache hit", "id", id, "id_type", idType)
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s/%s?view=FULL", c.baseURL, idType, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-ELS-APIKey", c.apiKey)
	}
	if c.instToken != "" {
		req.Header.Set("X-ELS-Insttoken", c.instToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A canceled context must surface as the interruption it is,
		// not as a connectivity fault.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, id); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(cacheKey, body); err != nil {
			c.logger.Warn("caching response failed", "id", id, "error", err)
		}
	}

	return body, nil
}

// GetPaper retrieves one document and normalizes it into a Paper. The
// returned record may have an empty title; classifying that as a miss
// is the caller's policy, not the client's.
func (c *Client) GetPaper(ctx context.Context, id string, idType paper.IDType) (*paper.Paper, error) {
	body, err := c.fetchAbstract(ctx, id, idType)
	if err != nil {
		return nil, err
	}

	var resp AbstractResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing abstract: %v", ErrInvalidResponse, err)
	}

	return ToPaper(&resp)
}
