/*
Package webex implements the parts of the Webex Calling REST API needed to manage Auto Attendant greetings.

Requests are made sequentially through a Client, which paces them with a rate limiter, tags each one with a
TrackingID header, and logs every call and its outcome.
*/
package webex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// Prefix of the TrackingID header sent with each request.
	trackingIDPrefix = "AAGREETING_"

	// Page size requested from list endpoints.
	pageSize = 1000

	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 5
)

// Options configures a Client.
type Options struct {
	// BaseURL of the API, e.g. https://webexapis.com/v1.
	BaseURL string
	// Token is the bearer access token.
	Token string
	// Timeout for each request. Ignored when HTTPClient is set.
	Timeout time.Duration
	// RateLimit is the number of requests per second.
	RateLimit float64
	// HTTPClient overrides the HTTP client used for requests.
	HTTPClient *http.Client
	// Logger receives a debug entry for every call. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Client talks to the Webex API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

// NewClient returns a Client for the API at opts.BaseURL.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := opts.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(limit), 1),
		log:        logger,
	}
}

// request describes a single API call.
type request struct {
	method      string
	url         string
	body        []byte
	contentType string
}

// response is the part of an HTTP response the API calls need.
type response struct {
	body   []byte
	header http.Header
}

// endpoint builds a URL below the base URL with optional query parameters.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs req and returns its body. Non-2xx responses are returned as an *APIError.
func (c *Client) do(ctx context.Context, req request) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", errRateLimitWait, err)
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBuildRequest, err)
	}

	trackingID := trackingIDPrefix + uuid.NewString()
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("TrackingID", trackingID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	log := c.log.With(
		zap.String("method", req.method),
		zap.String("url", req.url),
		zap.String("trackingId", trackingID),
	)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug("api call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %s %s: %w", errSendRequest, req.method, req.url, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errReadResponse, err)
	}

	log = log.With(zap.Int("status", httpResp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		log.Debug("api call failed", zap.ByteString("body", respBody))
		return nil, &APIError{
			Method:     req.method,
			URL:        req.url,
			StatusCode: httpResp.StatusCode,
			TrackingID: trackingID,
			Body:       string(respBody),
		}
	}

	log.Debug("api call")

	return &response{body: respBody, header: httpResp.Header}, nil
}

// getJSON performs a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, u string, out any) (*response, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, url: u})
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errDecodeResponse, u, err)
	}
	return resp, nil
}

// listAll follows the pagination links of a list endpoint, handing each page's body to collect.
func listAll[T any](ctx context.Context, c *Client, u string, items func(page *T) int) error {
	for u != "" {
		var page T
		resp, err := c.getJSON(ctx, u, &page)
		if err != nil {
			return err
		}
		n := items(&page)
		c.log.Debug("list page", zap.String("url", u), zap.Int("items", n))
		u = nextLink(resp.header)
	}
	return nil
}

// nextLink returns the URL of the link with rel="next" from the RFC 5988 Link headers, if there is one.
// Link targets are taken from between the angle brackets, so commas inside a URL don't split it.
func nextLink(header http.Header) string {
	for _, value := range header.Values("Link") {
		rest := value
		for {
			open := strings.IndexByte(rest, '<')
			if open < 0 {
				break
			}
			end := strings.IndexByte(rest[open:], '>')
			if end < 0 {
				break
			}
			target := rest[open+1 : open+end]
			rest = rest[open+end+1:]

			params := rest
			if next := strings.IndexByte(rest, '<'); next >= 0 {
				params = rest[:next]
			}
			if hasRelNext(params) {
				return target
			}
		}
	}
	return ""
}

// hasRelNext reports whether the parameters of one link include rel="next".
func hasRelNext(params string) bool {
	for _, param := range strings.Split(params, ";") {
		key, val, ok := strings.Cut(strings.Trim(param, " ,"), "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "rel") && strings.Trim(strings.TrimSpace(val), `"`) == "next" {
			return true
		}
	}
	return false
}
