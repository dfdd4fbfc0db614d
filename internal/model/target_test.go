package model

import (
	"errors"
	"net/url"
	"path/filepath"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return u
}

func TestDestinationPath(t *testing.T) {
	cfg := &PathConfig{OutputDirectory: "files"}

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"html extension kept", "https://x.test/docs/a.html", "files/docs/a.html"},
		{"missing extension appended", "https://x.test/c", "files/c.html"},
		{"other extension appended", "https://x.test/lib/app.js", "files/lib/app.js.html"},
		{"directory path", "https://x.test/docs/", "files/docs/index.html"},
		{"root path", "https://x.test", "files/index.html"},
		{"query ignored", "https://x.test/a.html?v=2", "files/a.html"},
		{"dot segments cannot escape", "https://x.test/../../etc/passwd", "files/etc/passwd.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DestinationPath(mustParse(t, tt.url), cfg)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("DestinationPath(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestDestinationPath_CustomExtension(t *testing.T) {
	cfg := &PathConfig{OutputDirectory: "out", ResourceExtension: "htm"}

	got := DestinationPath(mustParse(t, "https://x.test/page"), cfg)
	want := filepath.FromSlash("out/page.htm")
	if got != want {
		t.Errorf("DestinationPath() = %q, want %q", got, want)
	}
}

func TestDestinationPath_Deterministic(t *testing.T) {
	cfg := &PathConfig{OutputDirectory: "files"}
	u := "https://x.test/api/Viewer"

	first := DestinationPath(mustParse(t, u), cfg)
	for i := 0; i < 5; i++ {
		if got := DestinationPath(mustParse(t, u), cfg); got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}

func TestNewTarget(t *testing.T) {
	cfg := &PathConfig{OutputDirectory: "files"}

	target, err := NewTarget("https://x.test/c", cfg)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	if target.SourceURL != "https://x.test/c" {
		t.Errorf("SourceURL = %q", target.SourceURL)
	}
	if filepath.Ext(target.DestinationPath) != ".html" {
		t.Errorf("DestinationPath = %q, want .html extension", target.DestinationPath)
	}

	for _, bad := range []string{"/relative/path", "c.html", "://broken"} {
		if _, err := NewTarget(bad, cfg); err == nil {
			t.Errorf("NewTarget(%q) expected error", bad)
		}
	}
}

func TestNewReport(t *testing.T) {
	outcomes := []Outcome{
		{Target: Target{SourceURL: "u1"}, Status: StatusSuccess, Attempts: 1},
		{Target: Target{SourceURL: "u2"}, Status: StatusFailed, Attempts: 3, Err: errors.New("boom")},
		{Target: Target{SourceURL: "u3"}, Status: StatusSkippedExisting, Attempts: 1},
		{Target: Target{SourceURL: "u4"}, Status: StatusFailed, Attempts: 3, Err: errors.New("boom")},
	}

	r := NewReport(outcomes)
	if r.Total != 4 || r.Succeeded != 2 || r.Skipped != 1 {
		t.Errorf("counts = total %d succeeded %d skipped %d", r.Total, r.Succeeded, r.Skipped)
	}
	if len(r.Failed) != 2 || r.Failed[0].Target.SourceURL != "u2" || r.Failed[1].Target.SourceURL != "u4" {
		t.Errorf("Failed = %+v, want u2, u4 in order", r.Failed)
	}

	targets := r.FailedTargets()
	if len(targets) != 2 || targets[0].SourceURL != "u2" {
		t.Errorf("FailedTargets() = %+v", targets)
	}
}

func TestReport_Merge(t *testing.T) {
	first := NewReport([]Outcome{
		{Target: Target{SourceURL: "u1", DestinationPath: "p1"}, Status: StatusSuccess, Attempts: 1},
		{Target: Target{SourceURL: "u2", DestinationPath: "p2"}, Status: StatusFailed, Attempts: 3},
		{Target: Target{SourceURL: "u3", DestinationPath: "p3"}, Status: StatusFailed, Attempts: 3},
	})
	second := NewReport([]Outcome{
		{Target: Target{SourceURL: "u2", DestinationPath: "p2"}, Status: StatusSuccess, Attempts: 1},
		{Target: Target{SourceURL: "u3", DestinationPath: "p3"}, Status: StatusFailed, Attempts: 3},
	})

	merged := first.Merge(second)
	if merged.Passes != 2 {
		t.Errorf("Passes = %d, want 2", merged.Passes)
	}
	if merged.Total != 3 || merged.Succeeded != 2 || len(merged.Failed) != 1 {
		t.Errorf("counts = total %d succeeded %d failed %d", merged.Total, merged.Succeeded, len(merged.Failed))
	}
	if merged.Failed[0].Target.SourceURL != "u3" {
		t.Errorf("Failed[0] = %q, want u3", merged.Failed[0].Target.SourceURL)
	}

	paths := merged.SucceededPaths()
	if len(paths) != 2 || paths[0] != "p1" || paths[1] != "p2" {
		t.Errorf("SucceededPaths() = %v, want [p1 p2]", paths)
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusSuccess, "success"},
		{StatusSkippedExisting, "skipped"},
		{StatusFailed, "failed"},
		{Status(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
