package transport

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"vehicle-reconciler/config"
	"vehicle-reconciler/utils"
)

// retryStatuses are the transient / anti-bot codes that trigger an
// automatic retry of an idempotent request.
var retryStatuses = map[int]bool{
	http.StatusForbidden:           true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"

// Client is an HTTP client with browser-like headers, a shared cookie jar
// and bounded retry with exponential backoff on transient status codes.
// One Client (one session) serves the whole run.
type Client struct {
	http        *http.Client
	logger      *utils.Logger
	maxAttempts int
	baseDelay   time.Duration
	userAgent   string
}

// New creates a Client configured from cfg. The cookie jar it owns is the
// only mutable state shared across requests.
func New(cfg *config.Config, logger *utils.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		http: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutMs) * time.Millisecond,
			Jar:     jar,
		},
		logger:      logger,
		maxAttempts: cfg.MaxRetries,
		baseDelay:   time.Duration(cfg.RetryBaseMs) * time.Millisecond,
		userAgent:   defaultUserAgent,
	}
}

// RotateUserAgent swaps the spoofed client identity. Used by the anti-bot
// recovery sequence after a blocked request.
func (c *Client) RotateUserAgent(ua string) {
	if ua != "" {
		c.userAgent = ua
	}
}

// UserAgent returns the user agent currently presented to providers.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Get issues a GET request with the browser header set applied, retrying on
// transient status codes with exponential backoff. It returns the response
// body and status code of the final attempt; err is non-nil only for
// request construction or network failures. Non-retryable statuses are
// returned to the caller on the first attempt.
func (c *Client) Get(rawURL string, params url.Values, headers map[string]string) ([]byte, int, error) {
	target := rawURL
	if len(params) > 0 {
		target = rawURL + "?" + params.Encode()
	}

	var lastErr error
	delay := c.baseDelay

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, status, err := c.do(target, headers)
		if err == nil && !retryStatuses[status] {
			return body, status, nil
		}
		if err == nil {
			lastErr = fmt.Errorf("GET %s: status %d", rawURL, status)
		} else {
			lastErr = err
		}

		if attempt == c.maxAttempts {
			if err != nil {
				return nil, 0, fmt.Errorf("GET %s failed after %d attempts: %w", rawURL, c.maxAttempts, err)
			}
			// Retries exhausted on a listed status: surface the status so the
			// caller can run its own recovery (e.g. 403 re-bootstrap).
			return body, status, nil
		}

		c.logger.Warn("[transport] GET %s failed (attempt %d/%d): %v — retrying in %v",
			rawURL, attempt, c.maxAttempts, lastErr, delay)
		time.Sleep(delay)
		delay *= 2
	}

	return nil, 0, lastErr
}

func (c *Client) do(target string, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request for %s: %w", target, err)
	}

	c.applyHeaders(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response from %s: %w", target, err)
	}
	return body, resp.StatusCode, nil
}

// applyHeaders sets the browser-like header set that keeps provider-side
// anti-bot friction low.
func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("accept", "*/*")
	req.Header.Set("accept-language", "en-US,en;q=0.9")
	req.Header.Set("priority", "u=1, i")
	req.Header.Set("sec-ch-ua", `"Not;A=Brand";v="99", "Google Chrome";v="139", "Chromium";v="139"`)
	req.Header.Set("sec-ch-ua-mobile", "?0")
	req.Header.Set("sec-ch-ua-platform", `"Windows"`)
	req.Header.Set("sec-fetch-dest", "empty")
	req.Header.Set("sec-fetch-mode", "cors")
	req.Header.Set("sec-fetch-site", "same-site")
	req.Header.Set("user-agent", c.userAgent)
}
