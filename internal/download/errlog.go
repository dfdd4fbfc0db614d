package download

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// DefaultErrorLogPath is where terminal failures are recorded.
const DefaultErrorLogPath = "download_errors.log"

const errorLogTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ErrorLog is an append-only, timestamped record of terminal failures.
//
// Each Record call writes exactly one complete line:
//
//	2025-01-02T03:04:05.000Z - Failed to download https://x.test/a.html: HTTP 404
//
// Writes are serialized, so lines from concurrent workers never interleave.
// A zero-value path disables the log.
type ErrorLog struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewErrorLog creates an ErrorLog appending to path.
func NewErrorLog(path string) *ErrorLog {
	return &ErrorLog{path: path, now: time.Now}
}

// Path returns the file the log appends to.
func (l *ErrorLog) Path() string {
	return l.path
}

// Record appends one failure line for url.
func (l *ErrorLog) Record(url string, cause error) error {
	if l == nil || l.path == "" {
		return nil
	}

	msg := "unknown error"
	if cause != nil {
		msg = strings.ReplaceAll(cause.Error(), "\n", " ")
	}
	line := fmt.Sprintf("%s - Failed to download %s: %s\n",
		l.now().UTC().Format(errorLogTimeFormat), url, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open error log: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("write error log: %w", err)
	}
	return f.Close()
}
