package http

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/kirimjek/internal/pkg/logger"
	nrpkg "github.com/piresc/kirimjek/internal/pkg/newrelic"
)

const (
	// DefaultTimeout for HTTP requests
	DefaultTimeout = 5 * time.Second
	// APIKeyHeader is the header name for API key
	APIKeyHeader = "X-API-Key"
)

// StatusError is returned for responses with a status code >= 400
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Body)
}

// APIKeyClient is a JSON HTTP client for another kirimjek service
type APIKeyClient struct {
	client      *nethttp.Client
	apiKey      string
	baseURL     string
	serviceName string
}

// NewAPIKeyClient creates a client for serviceName at baseURL
func NewAPIKeyClient(serviceName, baseURL, apiKey string, timeout time.Duration) *APIKeyClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &APIKeyClient{
		client:      &nethttp.Client{Timeout: timeout},
		apiKey:      apiKey,
		baseURL:     baseURL,
		serviceName: serviceName,
	}
}

// GetJSON performs a GET of endpoint with query and decodes the JSON body into result
func (c *APIKeyClient) GetJSON(ctx context.Context, endpoint string, query url.Values, result interface{}) error {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := nrpkg.InstrumentHTTPRequest(ctx, req, func() (*nethttp.Response, error) {
		return c.client.Do(req)
	})
	if err != nil {
		logger.Error("HTTP request failed",
			logger.String("url", target),
			logger.String("service", c.serviceName),
			logger.Err(err))
		return fmt.Errorf("request to %s failed: %w", c.serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &StatusError{StatusCode: resp.StatusCode, Body: body.Error}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.serviceName, err)
	}
	return nil
}
