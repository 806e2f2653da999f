// Package postgrest is a remote.Client backed by a hosted PostgREST
// endpoint such as a Supabase project.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/remote"
)

const defaultTimeout = 10 * time.Second

// Client talks the PostgREST row-filter dialect over HTTP.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	baseURL string
	apiKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for the given PostgREST base URL. The API key is
// sent both as an apikey header and a bearer token, the way Supabase
// expects anonymous-role requests.
func New(baseURL, apiKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select implements remote.Client.
func (c *Client) Select(ctx context.Context, table string, filter remote.Filter, order *remote.Order) ([]jsontext.Value, error) {
	query := filterQuery(filter)
	if order != nil {
		dir := "asc"
		if order.Descending {
			dir = "desc"
		}
		query.Set("order", order.Column+"."+dir)
	}

	body, err := c.do(ctx, http.MethodGet, table, query, nil)
	if err != nil {
		return nil, err
	}

	var rows []jsontext.Value
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode select response: %w", err)
	}
	return rows, nil
}

// Insert implements remote.Client.
func (c *Client) Insert(ctx context.Context, table string, row any) (jsontext.Value, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, table, nil, payload)
	if err != nil {
		return nil, err
	}
	return firstRow(body)
}

// Update implements remote.Client.
func (c *Client) Update(ctx context.Context, table string, filter remote.Filter, patch map[string]any) (jsontext.Value, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}

	body, err := c.do(ctx, http.MethodPatch, table, filterQuery(filter), payload)
	if err != nil {
		return nil, err
	}
	return firstRow(body)
}

// Delete implements remote.Client.
func (c *Client) Delete(ctx context.Context, table string, filter remote.Filter) error {
	_, err := c.do(ctx, http.MethodDelete, table, filterQuery(filter), nil)
	return err
}

// do executes one PostgREST request and returns the response body.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, payload []byte) ([]byte, error) {
	u := c.baseURL + "/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	c.logger.Debug("postgrest request", "method", method, "table", table)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.CodeUnavailable, "backend request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.Unavailable("backend rejected credentials")
	case resp.StatusCode >= 500:
		return nil, apperrors.Unavailable(fmt.Sprintf("backend returned %d", resp.StatusCode))
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}

// filterQuery renders an equality filter in PostgREST syntax (col=eq.val).
func filterQuery(filter remote.Filter) url.Values {
	query := url.Values{}
	for col, val := range filter {
		query.Set(col, fmt.Sprintf("eq.%v", val))
	}
	return query
}

// firstRow unwraps PostgREST's single-element array representation.
func firstRow(body []byte) (jsontext.Value, error) {
	var rows []jsontext.Value
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
