package capturelog

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 10, 17, 9, 30, 15, 123_000_000, time.FixedZone("CEST", 2*60*60))
}

func TestRecordAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screenshots", "capture-log.txt")

	for run := 0; run < 2; run++ {
		l, err := Open(path)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		l.now = fixedNow
		if err := l.RecordFile("design thinking", "12345.png"); err != nil {
			t.Fatal(err)
		}
		if err := l.RecordNoTemplate("nothing"); err != nil {
			t.Fatal(err)
		}
		if err := l.RecordError("id:1", errors.New("navigate: net::ERR_FAILED\nat line 2")); err != nil {
			t.Fatal(err)
		}
		if err := l.Close(); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines after two runs, got %d: %q", len(lines), lines)
	}

	want := []string{
		"2026-10-17T07:30:15.123Z\tdesign thinking | 12345.png",
		"2026-10-17T07:30:15.123Z\tnothing | NO_TEMPLATE_FOUND",
		"2026-10-17T07:30:15.123Z\tid:1 | ERROR: navigate: net::ERR_FAILED at line 2",
	}
	for i, line := range lines {
		if line != want[i%3] {
			t.Errorf("line %d = %q, want %q", i, line, want[i%3])
		}
	}
}

func TestEventLoggerWritesNDJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Scope(NewEventLogger(&buf), "browser")
	logger.Info("navigating", "url", "https://creately.com")
	logger.Warn("step failed", "step", "title")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if first["scope"] != "browser" || first["msg"] != "navigating" || first["url"] != "https://creately.com" {
		t.Errorf("unexpected event %v", first)
	}
}
