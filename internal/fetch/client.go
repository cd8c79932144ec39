// Package fetch bounded HTTP client.
package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Default client limits. Sitemap documents and post pages are text; a host
// serving more than maxBodySize of markup is either broken or hostile.
const (
	defaultMaxBodySize = 10 * 1024 * 1024
	defaultTimeout     = 20 * time.Second
	defaultRatePerSec  = 4
)

// gzipMagic is the two-byte gzip signature. Sitemap files shipped as
// .xml.gz arrive with Content-Type application/gzip, which the transport
// does not decode for us.
var gzipMagic = []byte{0x1f, 0x8b}

// Client performs all HTTP traffic for the scanner.
//
// Design decision: We hold the rate limiter inside the client rather than
// in each pipeline stage because:
//  1. Politeness is a per-host-budget property of the whole run, not of
//     any one stage; stages sharing a client automatically share the budget
//  2. The limiter blocks in Wait under the request context, so
//     cancellation still works mid-backoff
//  3. Tests swap the limiter for an unlimited one with WithRequestsPerSecond
type Client struct {
	httpClient *http.Client

	// userAgent identifies the tool honestly. Site operators auditing
	// their own archives should be able to see the scan in their logs.
	userAgent string

	// maxBodySize bounds every body read. Bodies at the limit are
	// truncated and marked, not failed.
	maxBodySize int64

	// timeout is the per-request deadline.
	timeout time.Duration

	// limiter spaces requests across all callers of this client.
	limiter *rate.Limiter

	// insecureFallback retries an https request over plain http once
	// when the TLS handshake fails. Off by default; legacy self-hosted
	// blogs with expired certificates need it.
	insecureFallback bool

	// headers are extra request headers, typically auth for
	// password-protected staging installs.
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Tests use this to
// point at httptest servers with custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per response.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithTimeout sets the per-request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRequestsPerSecond sets the request rate. Zero or negative disables
// rate limiting entirely.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHeaders adds extra headers to every request. Used for
// password-protected sites configured per-host in the policy file.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		if len(headers) == 0 {
			return
		}
		if c.headers == nil {
			c.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithInsecureFallback enables the one-shot https to http downgrade retry
// on TLS handshake failure.
func WithInsecureFallback(enabled bool) Option {
	return func(c *Client) {
		c.insecureFallback = enabled
	}
}

// NewClient creates a Client with sane defaults for archive scanning.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		userAgent:   "jetghost/1.0 (+https://github.com/purpleghosts/JetGhost-Suite)",
		maxBodySize: defaultMaxBodySize,
		timeout:     defaultTimeout,
		limiter:     rate.NewLimiter(rate.Limit(defaultRatePerSec), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Response is the outcome of a successful transport exchange. Any HTTP
// status counts as success at this layer.
type Response struct {
	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP status.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the (possibly truncated, possibly gunzipped) body.
	// Nil for HEAD requests.
	Body []byte

	// Truncated is true when the body hit the size bound.
	Truncated bool

	// Downgraded is true when the response came from the plain-http
	// fallback of an https request.
	Downgraded bool
}

// StatusError returns a typed error when the status indicates failure,
// nil otherwise. For callers that treat any non-2xx/3xx as a hard miss.
func (r *Response) StatusError() error {
	if r.StatusCode < 400 {
		return nil
	}
	return &Error{Kind: KindHTTPError, URL: r.URL, StatusCode: r.StatusCode}
}

// ContentType returns the media type portion of the Content-Type header,
// lowercased, without parameters.
func (r *Response) ContentType() string {
	ct := r.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// Get fetches url and returns the bounded body. Transport failures return
// a *Error; HTTP failure statuses do not.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url)
}

// Head issues a HEAD request. The returned Response has a nil body.
func (c *Client) Head(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodHead, url)
}

func (c *Client) do(ctx context.Context, method, url string) (*Response, error) {
	resp, err := c.doOnce(ctx, method, url)
	if err == nil {
		return resp, nil
	}

	// Expired or self-signed certificates are common on abandoned blogs,
	// exactly the sites most likely to leak. Retry once over plain http
	// when the caller opted in.
	var fe *Error
	if c.insecureFallback && errors.As(err, &fe) && fe.Kind == KindTLSFailure &&
		strings.HasPrefix(url, "https://") {
		downgraded := "http://" + strings.TrimPrefix(url, "https://")
		resp, retryErr := c.doOnce(ctx, method, downgraded)
		if retryErr != nil {
			return nil, err // report the original TLS failure
		}
		resp.Downgraded = true
		return resp, nil
	}

	return nil, err
}

func (c *Client) doOnce(ctx context.Context, method, url string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, classify(url, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(url, err)
	}
	defer httpResp.Body.Close()

	resp := &Response{
		URL:        httpResp.Request.URL.String(),
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header.Clone(),
	}

	if method == http.MethodHead {
		return resp, nil
	}

	// Read one byte past the bound so truncation is detectable.
	body, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, classify(url, err)
	}
	if int64(len(body)) > c.maxBodySize {
		body = body[:c.maxBodySize]
		resp.Truncated = true
	}

	resp.Body = maybeGunzip(body, c.maxBodySize)
	return resp, nil
}

// maybeGunzip transparently decompresses gzip-signature bodies, bounding
// the decompressed size by the same limit as the raw read. Undecodable
// bodies are returned as-is; the XML decoder will report them.
func maybeGunzip(body []byte, maxSize int64) []byte {
	if !bytes.HasPrefix(body, gzipMagic) {
		return body
	}

	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return body
	}
	defer zr.Close()

	decoded, err := io.ReadAll(io.LimitReader(zr, maxSize))
	if err != nil {
		return body
	}
	return decoded
}
