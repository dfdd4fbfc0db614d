package download

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
)

// fakeFetcher serves bodies from a callback and counts calls per URL.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	respond func(url string, call int) (io.Reader, error)
}

func newFakeFetcher(respond func(url string, call int) (io.Reader, error)) *fakeFetcher {
	return &fakeFetcher{calls: make(map[string]int), respond: respond}
}

func (f *fakeFetcher) Open(_ context.Context, url string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.calls[url]++
	n := f.calls[url]
	f.mu.Unlock()

	body, err := f.respond(url, n)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(body), nil
}

func (f *fakeFetcher) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *fakeFetcher) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func bodyOf(url string) io.Reader {
	return strings.NewReader("<html>" + url + "</html>")
}

var errConnRefused = errors.New("dial tcp: connection refused")

// brokenReader yields some bytes, then fails mid-stream.
type brokenReader struct{ sent bool }

func (r *brokenReader) Read(p []byte) (int, error) {
	if r.sent {
		return 0, errors.New("unexpected EOF")
	}
	r.sent = true
	return copy(p, "partial"), nil
}

// countingSleep replaces the real backoff delay.
type countingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *countingSleep) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *countingSleep) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delays)
}
