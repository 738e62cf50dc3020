// ABOUTME: Authenticated HTTP client for the articles API
// ABOUTME: Attaches the stored session token to every request and classifies failures

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single request when no option overrides it
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries a per-request correlation id
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the token attached to outgoing requests.
// An empty token means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// Client is the API client for the articles backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for baseURL. tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login calls POST /api/login
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListArticles calls GET /api/articles
func (c *Client) ListArticles(ctx context.Context) (*ArticlesResponse, error) {
	var resp ArticlesResponse
	if err := c.do(ctx, http.MethodGet, "/api/articles", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Articles == nil {
		resp.Articles = []Article{}
	}
	return &resp, nil
}

// CreateArticle calls POST /api/articles
func (c *Client) CreateArticle(ctx context.Context, input ArticleInput) (*ArticleResponse, error) {
	var resp ArticleResponse
	if err := c.do(ctx, http.MethodPost, "/api/articles", input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateArticle calls PUT /api/articles/{id}
func (c *Client) UpdateArticle(ctx context.Context, id int, input ArticleInput) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodPut, articlePath(id), input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteArticle calls DELETE /api/articles/{id}
func (c *Client) DeleteArticle(ctx context.Context, id int) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodDelete, articlePath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func articlePath(id int) string {
	return "/api/articles/" + strconv.Itoa(id)
}

// do issues one request and decodes a 2xx JSON body into out
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	// The token is sent verbatim; the API does not expect a Bearer prefix.
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", token)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("API request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	slog.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid response from API: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled: %w", ctx.Err())
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ctx.Err())
	}
	return fmt.Errorf("cannot connect to API at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses into an *APIError
func (c *Client) handleErrorResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		apiErr.Message = errResp.Message
		if apiErr.Message == "" {
			apiErr.Message = errResp.Error
		}
	}
	return apiErr
}
