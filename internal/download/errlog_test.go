package download

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestErrorLog_Record(t *testing.T) {
	path := filepath.Join(t.TempDir(), "download_errors.log")
	log := NewErrorLog(path)
	log.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	if err := log.Record("https://x.test/a.html", errors.New("HTTP 404\nNot Found")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "2025-01-02T03:04:05.000Z - Failed to download https://x.test/a.html: HTTP 404 Not Found\n"
	if string(data) != want {
		t.Errorf("log = %q, want %q", data, want)
	}
}

func TestErrorLog_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")
	log := NewErrorLog(path)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url := fmt.Sprintf("https://x.test/%d.html", i)
			if err := log.Record(url, errors.New(strings.Repeat("x", 512))); err != nil {
				t.Errorf("Record: %v", err)
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != writers {
		t.Fatalf("got %d lines, want %d", len(lines), writers)
	}
	for _, line := range lines {
		if !strings.Contains(line, " - Failed to download https://x.test/") || !strings.HasSuffix(line, strings.Repeat("x", 512)) {
			t.Errorf("malformed line: %q", line)
		}
	}
}

func TestErrorLog_Disabled(t *testing.T) {
	var nilLog *ErrorLog
	if err := nilLog.Record("u", errors.New("e")); err != nil {
		t.Errorf("nil log Record: %v", err)
	}
	if err := NewErrorLog("").Record("u", errors.New("e")); err != nil {
		t.Errorf("empty path Record: %v", err)
	}
}
