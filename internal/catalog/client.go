// Package catalog implements the HTTP client for the remote product catalog
// (a DummyJSON-compatible API). List endpoints return a page of products plus
// a server-reported total; write endpoints are acknowledged by the catalog
// without being durably persisted, so successful responses are
// display-confirmation only.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/storefront/internal/domain/category"
	"github.com/xenking/storefront/internal/domain/product"
)

// DefaultTimeout is the fixed upper bound on any single catalog call. There
// is no automatic retry; retry is a user-triggered re-invocation.
const DefaultTimeout = 10 * time.Second

// Client talks to the remote catalog over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Useful in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for the catalog at baseURL. The transport is
// instrumented with OpenTelemetry.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}

	c := &Client{
		base: base,
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// List fetches one page of products. A non-empty Query routes to the search
// endpoint and takes precedence over Category; a Category other than the
// "all" sentinel routes to the per-category endpoint; otherwise the plain
// list endpoint is used.
func (c *Client) List(ctx context.Context, p product.ListParams) (*product.Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("skip", strconv.Itoa(p.Skip))

	var path string
	switch {
	case strings.TrimSpace(p.Query) != "":
		path = "/products/search"
		q.Set("q", p.Query)
	case p.Category != "" && p.Category != category.All:
		path = "/products/category/" + url.PathEscape(p.Category)
	default:
		path = "/products"
	}

	var page product.Page
	if err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single product by ID. Returns product.ErrNotFound when the
// catalog reports 404.
func (c *Client) Get(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil, &p)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) && ce.Status == http.StatusNotFound {
			return nil, product.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create submits a new product. The catalog echoes the created record with a
// server-assigned ID but does not durably persist it.
func (c *Client) Create(ctx context.Context, d product.Draft) (*product.Product, error) {
	var p product.Product
	if err := c.do(ctx, http.MethodPost, "/products/add", d, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update submits a partial update and returns the catalog's view of the
// updated record.
func (c *Client) Update(ctx context.Context, id int64, d product.Draft) (*product.Product, error) {
	var p product.Product
	err := c.do(ctx, http.MethodPut, "/products/"+strconv.FormatInt(id, 10), d, &p)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) && ce.Status == http.StatusNotFound {
			return nil, product.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes a product and returns the catalog's echo of the deleted
// record.
func (c *Client) Delete(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	err := c.do(ctx, http.MethodDelete, "/products/"+strconv.FormatInt(id, 10), nil, &p)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) && ce.Status == http.StatusNotFound {
			return nil, product.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Categories fetches the raw category list and normalizes it. Categories are
// best-effort metadata; callers typically degrade to an empty list on error.
func (c *Client) Categories(ctx context.Context) ([]category.Option, error) {
	body, err := c.raw(ctx, http.MethodGet, "/products/categories", nil)
	if err != nil {
		return nil, err
	}
	opts, err := category.Normalize(body)
	if err != nil {
		return nil, errors.Wrap(err, "normalize categories")
	}
	return opts, nil
}

// Session is the catalog's response to a successful login.
type Session struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Image     string `json:"image,omitempty"`
	Token     string `json:"accessToken"`
}

// Login performs the authentication handshake. The catalog issues a bearer
// token; there is no real authorization model behind it.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	req := map[string]string{"username": username, "password": password}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// do performs a JSON round trip: body (when non-nil) is encoded as the
// request payload, and a 2xx response is decoded into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.raw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// raw performs the HTTP exchange and returns the response body. Non-2xx
// responses and transport failures are normalized into *Error.
func (c *Client) raw(ctx context.Context, method, path string, body any) ([]byte, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrap(err, "build request URL")
	}
	u := c.base.ResolveReference(ref)

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request")
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return raw, nil
}
