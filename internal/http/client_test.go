package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestGetString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", ua, DefaultUserAgent)
		}
		w.Write([]byte("<html>seed</html>"))
	}))
	defer server.Close()

	client := NewClient(Options{})
	got, err := client.GetString(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if got != "<html>seed</html>" {
		t.Errorf("GetString() = %q", got)
	}
}

func TestOpen_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Options{})
	_, err := client.Open(context.Background(), server.URL)
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("err = %v, want ErrUnexpectedStatus", err)
	}
}

func TestOpen_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(Options{Timeout: 50 * time.Millisecond})
	if _, err := client.Open(context.Background(), server.URL); err == nil {
		t.Error("expected timeout error")
	}
}

func TestProxyEndpoint_RewritesHost(t *testing.T) {
	var gotHost, gotForwarded, gotPath string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		gotForwarded = r.Header.Get("X-Forwarded-Host")
		gotPath = r.URL.Path
		w.Write([]byte("via proxy"))
	}))
	defer proxy.Close()

	proxyURL, err := url.Parse(proxy.URL)
	if err != nil {
		t.Fatal(err)
	}

	client := NewClient(Options{ProxyEndpoint: proxyURL})
	body, err := client.Get(context.Background(), "http://docs.example.test/api/Viewer.html")
	if err != nil {
		t.Fatalf("Get via proxy: %v", err)
	}

	if string(body) != "via proxy" {
		t.Errorf("body = %q", body)
	}
	if gotHost != "docs.example.test" {
		t.Errorf("Host = %q, want docs.example.test", gotHost)
	}
	if gotForwarded != "docs.example.test" {
		t.Errorf("X-Forwarded-Host = %q, want docs.example.test", gotForwarded)
	}
	if gotPath != "/api/Viewer.html" {
		t.Errorf("path = %q, want /api/Viewer.html", gotPath)
	}
}

func TestProgressWriter(t *testing.T) {
	var buf bytes.Buffer
	var total int64
	pw := &ProgressWriter{
		Writer:   &buf,
		OnUpdate: func(n int64) { total += n },
	}

	if _, err := io.Copy(pw, bytes.NewReader([]byte("0123456789"))); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if pw.Written != 10 || total != 10 {
		t.Errorf("Written = %d, callback total = %d, want 10", pw.Written, total)
	}
	if buf.String() != "0123456789" {
		t.Errorf("buffer = %q", buf.String())
	}
}
