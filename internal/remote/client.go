// Package remote is the HTTP client for the todo collection API. It
// implements types.Store; every failure it returns wraps types.ErrNetwork.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/todos/pkg/types"
)

const contentType = "application/json; charset=UTF-8"

// maxErrorBody bounds how much of a failed response is quoted in errors.
const maxErrorBody = 512

var _ types.Store = (*Client)(nil)

// Client talks to the collection API at a base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q", types.ErrBaseURLInvalid, baseURL)
	}

	c := &Client{baseURL: u, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

// NewFromConfig builds a client from validated configuration.
func NewFromConfig(cfg types.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg.BaseURL, append([]Option{WithTimeout(cfg.RequestTimeout)}, opts...)...)
}

// List fetches every todo owned by ownerID.
func (c *Client) List(ctx context.Context, ownerID int64) ([]types.Item, error) {
	q := url.Values{"userId": {strconv.FormatInt(ownerID, 10)}}
	var items []types.Item
	if err := c.do(ctx, http.MethodGet, "/todos", q, nil, &items); err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID <= 0 {
			return nil, fmt.Errorf("%w: list returned todo with id %d", types.ErrNetwork, it.ID)
		}
	}
	if items == nil {
		items = []types.Item{}
	}
	return items, nil
}

// Create posts a new todo and returns it with the server-assigned ID.
func (c *Client) Create(ctx context.Context, n types.NewItem) (types.Item, error) {
	var created types.Item
	if err := c.do(ctx, http.MethodPost, "/todos", nil, n, &created); err != nil {
		return types.Item{}, err
	}
	if created.ID <= 0 {
		return types.Item{}, fmt.Errorf("%w: create returned id %d", types.ErrNetwork, created.ID)
	}
	return created, nil
}

// Delete removes the todo with the given ID.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil, nil)
}

// Replace sends the full item as a PATCH and returns the item as sent.
// The response body is not required to echo it.
func (c *Client) Replace(ctx context.Context, item types.Item) (types.Item, error) {
	if err := c.do(ctx, http.MethodPatch, itemPath(item.ID), nil, item, nil); err != nil {
		return types.Item{}, err
	}
	return item, nil
}

func itemPath(id int64) string {
	return "/todos/" + strconv.FormatInt(id, 10)
}

// do sends one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encoding %s %s: %v", types.ErrNetwork, method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: building %s %s: %v", types.ErrNetwork, method, path, err)
	}
	requestID := newRequestID()
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path,
			"request_id", requestID, "duration", time.Since(start), "error", err)
		return fmt.Errorf("%w: %s %s: %w", types.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: status %d: %s",
			types.ErrNetwork, method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %v", types.ErrNetwork, method, path, err)
	}
	return nil
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
