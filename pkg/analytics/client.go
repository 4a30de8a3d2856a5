package analytics

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"engage/pkg/config"
	"engage/pkg/errors"
	"engage/pkg/logger"
	"engage/pkg/retry"
)

// Client talks to the external engagement analytics endpoint
type Client struct {
	httpClient *http.Client
	endpoint   string
	headers    map[string]string
	retryCfg   *retry.Config
	logger     logger.Logger
}

// New creates a new analytics client from configuration
func New(cfg *config.AnalyticsConfig, retryCfg *config.RetryConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}
	if cfg.APIToken != "" {
		headers["Authorization"] = "Bearer " + cfg.APIToken
	}

	var rc *retry.Config
	if retryCfg != nil {
		rc = retry.DefaultConfig()
		rc.MaxAttempts = retryCfg.MaxAttempts
		rc.Backoff = &retry.ExponentialBackoff{
			BaseDelay:    retryCfg.BaseDelay,
			MaxDelay:     retryCfg.MaxDelay,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		}
		rc.Logger = log
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   cfg.Endpoint,
		headers:    headers,
		retryCfg:   rc,
		logger:     log,
	}
}

// SetHTTPClient replaces the underlying HTTP client (used by tests)
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// CheckEngagement requests engagement metrics for a username. The
// endpoint reports errors two ways and both are checked: a non-success
// status (JSON or plain-text body), or a success status whose JSON body
// carries an "error" field.
func (c *Client) CheckEngagement(username string) (*Report, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, errors.New(errors.ErrorTypeEndpoint, "username is required", 0)
	}

	if c.retryCfg == nil {
		return c.checkOnce(username)
	}
	return retry.DoWithResult(func() (*Report, error) {
		return c.checkOnce(username)
	}, c.retryCfg)
}

func (c *Client) checkOnce(username string) (*Report, error) {
	payload, err := json.Marshal(checkRequest{Username: username})
	if err != nil {
		return nil, errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to encode request: %v", err), 0)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("requesting engagement metrics", map[string]interface{}{
		"username": username,
		"endpoint": c.endpoint,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorWithFields("analytics request failed", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), 0)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to read response body: %v", err), resp.StatusCode)
	}

	c.logger.DebugWithFields("analytics request completed", map[string]interface{}{
		"username": username,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	// A success status can still carry an error field
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		c.logger.WarnWithFields("endpoint returned error payload", map[string]interface{}{
			"username": username,
			"message":  envelope.Error,
		})
		return nil, errors.New(errors.ErrorTypeEndpoint, envelope.Error, resp.StatusCode)
	}

	var report Report
	if err := json.Unmarshal(body, &report); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse analytics response", map[string]interface{}{
			"username":     username,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, errors.New(errors.ErrorTypeParsing, fmt.Sprintf("failed to parse response: %v", err), resp.StatusCode)
	}

	if report.Username == "" {
		report.Username = username
	}

	return &report, nil
}

// statusError maps a non-success response to a typed error. The body may
// be a JSON {"error": ...} envelope or plain text.
func (c *Client) statusError(statusCode int, body []byte) error {
	message := ""
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		message = envelope.Error
	} else if text := strings.TrimSpace(string(body)); text != "" {
		if len(text) > 200 {
			text = text[:200]
		}
		message = text
	}

	switch {
	case statusCode == http.StatusNotFound:
		if message == "" {
			message = "resource not found"
		}
		return errors.New(errors.ErrorTypeNotFound, message, statusCode)
	case statusCode == http.StatusTooManyRequests:
		if message == "" {
			message = "rate limit exceeded"
		}
		return errors.New(errors.ErrorTypeRateLimit, message, statusCode)
	case statusCode >= 500:
		if message == "" {
			message = "server error"
		}
		return errors.New(errors.ErrorTypeServerError, message, statusCode)
	default:
		if message == "" {
			message = fmt.Sprintf("unexpected status code: %d", statusCode)
		}
		return errors.New(errors.ErrorTypeEndpoint, message, statusCode)
	}
}
