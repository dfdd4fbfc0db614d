package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrUnexpectedStatus is returned when a server answers with anything other
// than 200 OK.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "docgrab"

// DefaultTimeout bounds a single request, including reading the body.
const DefaultTimeout = 60 * time.Second

// Options configures a Client.
type Options struct {
	// Timeout bounds each request end to end. Zero means DefaultTimeout.
	Timeout time.Duration

	// UserAgent overrides DefaultUserAgent when set.
	UserAgent string

	// ProxyEndpoint, when set, routes every request to this host and port.
	// The original target host is preserved in the Host and
	// X-Forwarded-Host headers.
	ProxyEndpoint *url.URL

	// Transport replaces the default transport. Mainly for tests.
	Transport http.RoundTripper
}

// Client wraps HTTP operations used by the downloader.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - Optional proxy endpoint with host rewriting
//   - Streaming downloads that never buffer a whole body in memory
//
// Example usage:
//
//	client := NewClient(Options{Timeout: 30 * time.Second})
//
//	// Fetch the seed document
//	html, err := client.GetString(ctx, "https://x.test/docs/index.html")
//
//	// Stream a page to disk
//	body, err := client.Open(ctx, "https://x.test/docs/a.html")
//	defer body.Close()
//	io.Copy(file, body)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client from opts.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if opts.ProxyEndpoint != nil {
		transport = &rewriteTransport{base: transport, proxy: opts.ProxyEndpoint}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    OnUpdate: func(n int64) {
//	        atomic.AddInt64(&received, n)
//	    },
//	}
//	io.Copy(pw, body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with the bytes written by that call.
	OnUpdate func(n int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil && n > 0 {
		pw.OnUpdate(int64(n))
	}
	return n, err
}

// Open issues a GET request and returns the response body for streaming.
//
// The caller must close the returned body. Returns an error wrapping
// ErrUnexpectedStatus if the response status is not 200 OK; in that case
// the body has already been closed.
func (c *Client) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	return resp.Body, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Example:
//
//	data, err := client.Get(ctx, "https://x.test/docs/index.html")
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, err := c.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return io.ReadAll(body)
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching text content like HTML.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// rewriteTransport sends every request to a fixed proxy host while keeping
// the original host visible to the proxy.
type rewriteTransport struct {
	base  http.RoundTripper
	proxy *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	targetHost := req.URL.Host
	if req.Host != "" {
		targetHost = req.Host
	}

	if t.proxy.Scheme != "" {
		out.URL.Scheme = t.proxy.Scheme
	}
	out.URL.Host = t.proxy.Host
	out.Host = targetHost
	out.Header.Set("X-Forwarded-Host", targetHost)
	out.Header.Set("X-Forwarded-Proto", req.URL.Scheme)

	return t.base.RoundTrip(out)
}
