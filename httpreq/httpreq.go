// Package httpreq binds the adventure request contracts to net/http. It is
// the transport adapter the core deliberately excludes: requests here carry
// their own classification of transient HTTP failures (network errors, 429,
// 5xx), so wrapping one with adventure.Retry does the right thing without
// further configuration.
package httpreq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	cleanhttp "github.com/hashicorp/go-cleanhttp"

	"github.com/spoqa/adventure"
)

// Client wraps the *http.Client used to perform sends. The zero value and nil
// are both usable and fall back to a shared pooled client.
type Client struct {
	HTTP *http.Client
}

// NewClient returns a Client backed by a dedicated pooled transport.
func NewClient() *Client {
	return &Client{HTTP: cleanhttp.DefaultPooledClient()}
}

var defaultHTTPClient = cleanhttp.DefaultPooledClient()

func (c *Client) httpClient() *http.Client {
	if c == nil || c.HTTP == nil {
		return defaultHTTPClient
	}
	return c.HTTP
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code   int
	Status string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("httpreq: server returned %s", e.Status)
}

// ShouldRetry reports whether err looks transient. Rate limiting (429) and
// server errors (5xx) are retryable, other HTTP statuses are not, context
// errors are never retried, and anything else is assumed to be a network
// error and therefore retryable.
func ShouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return true
}

// JSONRequest is a repeatable HTTP request whose response body is decoded as
// JSON into T. The body is kept as a byte slice so that every attempt sends
// the complete payload; a partially-consumed body can never leak into a
// re-send.
type JSONRequest[T any] struct {
	Client *Client
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Send implements the adventure.RepeatableRequest interface.
func (r *JSONRequest[T]) Send() adventure.Response[T] {
	return adventure.ResponseFunc[T](func(ctx context.Context) (T, error) {
		return doJSON[T](ctx, r.Client, r.Method, r.URL, r.Header, r.Body)
	})
}

// ShouldRetry implements the adventure.RetriableRequest interface.
func (r *JSONRequest[T]) ShouldRetry(err error) bool {
	return ShouldRetry(err)
}

// PageRequest is a paged GET request: the continuation token rides a query
// parameter, and each page is a JSON envelope of items plus the next token.
type PageRequest[V any] struct {
	Client *Client
	URL    string
	Header http.Header

	// TokenParam names the query parameter carrying the continuation token.
	// Empty means "page_token".
	TokenParam string
}

type pageEnvelope[V any] struct {
	Items         []V    `json:"items"`
	NextPageToken string `json:"next_page_token"`
}

// SendPage implements the adventure.PagedRequest interface.
func (r *PageRequest[V]) SendPage(token *string) adventure.Response[adventure.Page[[]V]] {
	return adventure.ResponseFunc[adventure.Page[[]V]](func(ctx context.Context) (adventure.Page[[]V], error) {
		pageURL, err := r.pageURL(token)
		if err != nil {
			return adventure.Page[[]V]{}, err
		}
		env, err := doJSON[pageEnvelope[V]](ctx, r.Client, http.MethodGet, pageURL, r.Header, nil)
		if err != nil {
			return adventure.Page[[]V]{}, err
		}
		return adventure.Page[[]V]{
			Value: env.Items,
			More:  env.NextPageToken != "",
			Token: env.NextPageToken,
		}, nil
	})
}

// ShouldRetry implements the adventure.RetriableRequest interface.
func (r *PageRequest[V]) ShouldRetry(err error) bool {
	return ShouldRetry(err)
}

func (r *PageRequest[V]) pageURL(token *string) (string, error) {
	if token == nil {
		return r.URL, nil
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("httpreq: invalid url: %w", err)
	}
	param := r.TokenParam
	if param == "" {
		param = "page_token"
	}
	q := u.Query()
	q.Set(param, *token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func doJSON[T any](ctx context.Context, c *Client, method, reqURL string, header http.Header, body []byte) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return zero, err
	}
	if header != nil {
		req.Header = header.Clone()
	}
	if body != nil {
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the transport can reuse the connection.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return zero, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("httpreq: decoding response: %w", err)
	}
	return out, nil
}
