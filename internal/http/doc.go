// Package http provides the HTTP client used to fetch seed documents and
// download targets.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Request timeouts
//   - Proxy endpoints that require host rewriting
//   - Streaming bodies straight to disk
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{Timeout: time.Minute})
//
//	// Fetch the seed document
//	html, err := client.GetString(ctx, "https://x.test/docs/index.html")
//
//	// Stream a target
//	body, err := client.Open(ctx, "https://x.test/docs/a.html")
//
// # Proxy Endpoints
//
// When Options.ProxyEndpoint is set, the request URL's scheme and host are
// replaced with the proxy's while the Host and X-Forwarded-Host headers
// carry the original target host:
//
//	proxy, _ := url.Parse("http://127.0.0.1:8118")
//	client := http.NewClient(http.Options{ProxyEndpoint: proxy})
package http
