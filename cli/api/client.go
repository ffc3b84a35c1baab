package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/techcollege/portal/pkg/config"
	"github.com/techcollege/portal/pkg/logger"
	"github.com/tidwall/gjson"
)

// Client issues requests against the portal REST API. Every call is a single
// attempt: no retries, no caching.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient creates a client for the API described by cfg.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	baseURL, err := validateBaseURL(cfg.API.BaseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:    buildHTTPClient(cfg, baseURL),
		baseURL: baseURL,
	}, nil
}

// BaseURL returns the normalized base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func validateBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("base URL must be absolute with a host, got: %s", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func buildHTTPClient(cfg *config.Config, baseURL string) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.API.Timeout).
		SetHeader("Content-Type", contentTypeJSON).
		SetHeader("Accept", contentTypeJSON).
		SetRetryCount(0).
		SetLogger(restyLogger{log: logger.GetDefault().With("component", "http")})
	if ua := strings.TrimSpace(cfg.API.UserAgent); ua != "" {
		client.SetHeader("User-Agent", ua)
	}
	if token := cfg.API.Token.Value(); token != "" {
		client.SetAuthToken(token)
	}
	client.OnBeforeRequest(requestIDMiddleware)
	return client
}

func requestIDMiddleware(_ *resty.Client, req *resty.Request) error {
	if req.Header.Get(HeaderRequestID) == "" {
		req.SetHeader(HeaderRequestID, uuid.NewString())
	}
	return nil
}

// do executes one request and classifies its failure. The returned response
// always has a 2xx status.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	pathParams map[string]string,
	body any,
) (*resty.Response, error) {
	display := expandPath(path, pathParams)
	log := logger.FromContext(ctx).With("method", method, "path", display)
	req := c.http.R().SetContext(ctx)
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		netErr := &NetworkError{Method: method, Path: display, Timeout: isTimeout(err), Cause: err}
		log.Error("portal request failed", "error", netErr)
		return nil, netErr
	}
	requestID := resp.Request.Header.Get(HeaderRequestID)
	if !resp.IsSuccess() {
		httpErr := &HTTPError{
			Method:  method,
			Path:    display,
			Status:  resp.StatusCode(),
			Message: parseAPIError(resp.Body()),
		}
		log.Error("portal request rejected", "status", resp.StatusCode(), "request_id", requestID, "error", httpErr)
		return nil, httpErr
	}
	log.Debug("portal request completed", "status", resp.StatusCode(), "request_id", requestID)
	return resp, nil
}

// decodeArray parses a JSON array body into out.
func decodeArray[T any](ctx context.Context, resp *resty.Response, method, path string, out *[]T) error {
	body := resp.Body()
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsArray() {
		return parseFailure(ctx, method, path, fmt.Errorf("expected a JSON array"))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return parseFailure(ctx, method, path, err)
	}
	return nil
}

// decodeObject parses a JSON object body into out.
func decodeObject[T any](ctx context.Context, resp *resty.Response, method, path string, out *T) error {
	body := resp.Body()
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return parseFailure(ctx, method, path, fmt.Errorf("expected a JSON object"))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return parseFailure(ctx, method, path, err)
	}
	return nil
}

func parseFailure(ctx context.Context, method, path string, cause error) error {
	parseErr := &ParseError{Method: method, Path: path, Cause: cause}
	logger.FromContext(ctx).Error("portal response unreadable", "method", method, "path", path, "error", parseErr)
	return parseErr
}

func expandPath(path string, params map[string]string) string {
	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", url.PathEscape(value))
	}
	return path
}

// restyLogger routes resty's own diagnostics into the application logger.
type restyLogger struct {
	log logger.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
