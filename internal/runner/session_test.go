package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"templateshot/internal/config"
	"templateshot/internal/resolver"

	"github.com/playwright-community/playwright-go"
)

func TestIsBenignNavigationError(t *testing.T) {
	benign := errors.New(`page.goto: Navigation to "https://creately.com/x" is interrupted by another navigation to "https://creately.com/y"`)
	if !isBenignNavigationError(benign) {
		t.Error("expected interrupted navigation to be benign")
	}
	if !isBenignNavigationError(fmt.Errorf("navigate: %w", benign)) {
		t.Error("expected wrapped interrupted navigation to be benign")
	}
	if isBenignNavigationError(errors.New("net::ERR_CONNECTION_REFUSED")) {
		t.Error("connection refused must not be benign")
	}
	if isBenignNavigationError(nil) {
		t.Error("nil must not be benign")
	}
}

func TestStepFromError(t *testing.T) {
	if got := stepFromError(StepTitle, nil); got.Status != StepDone {
		t.Errorf("nil error: status = %v, want done", got.Status)
	}

	timeout := errors.New("locator.waitFor: Timeout 15000ms exceeded.")
	if got := stepFromError(StepTitle, timeout); got.Status != StepSkipped || got.Err == nil {
		t.Errorf("timeout: got %+v, want skipped with error", got)
	}

	failed := errors.New("element is not attached to the DOM")
	if got := stepFromError(StepPanZoom, failed); got.Status != StepFailed {
		t.Errorf("detached: status = %v, want failed", got.Status)
	}
}

func TestStepStatusString(t *testing.T) {
	for status, want := range map[StepStatus]string{StepDone: "done", StepSkipped: "skipped", StepFailed: "failed"} {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name     string
		target   resolver.Target
		format   config.Format
		wantStem string
		wantFile string
	}{
		{
			name:     "search result",
			target:   resolver.Target{URL: "https://creately.com/demo-start/?tempId=12345", TemplateID: "12345"},
			format:   config.FormatPNG,
			wantStem: "12345",
			wantFile: "12345.png",
		},
		{
			name:     "url without template parameter",
			target:   resolver.Target{URL: "https://creately.com/d/abc123/view"},
			format:   config.FormatWebP,
			wantStem: "page",
			wantFile: "page.webp",
		},
		{
			name:     "unsafe id",
			target:   resolver.Target{URL: "https://creately.com/x?templateId=a/b:c", TemplateID: "ignored"},
			format:   config.FormatJPEG,
			wantStem: "a_b_c",
			wantFile: "a_b_c.jpeg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, file := outputName(tt.target, tt.format)
			if stem != tt.wantStem || file != tt.wantFile {
				t.Errorf("outputName() = %q, %q; want %q, %q", stem, file, tt.wantStem, tt.wantFile)
			}
		})
	}
}

func TestCapturePathUsesPNGForWebP(t *testing.T) {
	if got := capturePath("shots", "1", config.FormatWebP); got != filepath.Join("shots", "1.png") {
		t.Errorf("capturePath(webp) = %q", got)
	}
	if got := capturePath("shots", "1", config.FormatJPEG); got != filepath.Join("shots", "1.jpeg") {
		t.Errorf("capturePath(jpeg) = %q", got)
	}
}

func TestScreenshotOptions(t *testing.T) {
	png := screenshotOptions("a.png", config.FormatPNG, 80)
	if *png.Type != *playwright.ScreenshotTypePng || png.Quality != nil || *png.FullPage {
		t.Errorf("png options = %+v", png)
	}
	jpeg := screenshotOptions("a.jpeg", config.FormatJPEG, 70)
	if *jpeg.Type != *playwright.ScreenshotTypeJpeg || jpeg.Quality == nil || *jpeg.Quality != 70 {
		t.Errorf("jpeg options = %+v", jpeg)
	}
}

func TestDragPath(t *testing.T) {
	sx, sy, ex, ey := dragPath(playwright.Size{Width: 1281, Height: 720}, 100)
	if sx != 640 || sy != 360 || ex != 740 || ey != 360 {
		t.Errorf("dragPath() = %v,%v -> %v,%v", sx, sy, ex, ey)
	}
}

func TestWebpCommands(t *testing.T) {
	cmds := webpCommands("in.png", "out.webp", 85)
	if len(cmds) != 2 || cmds[0][0] != "cwebp" || cmds[1][0] != "ffmpeg" {
		t.Fatalf("unexpected encoders: %v", cmds)
	}
	want := []string{"cwebp", "-quiet", "-q", "85", "in.png", "-o", "out.webp"}
	for i := range want {
		if cmds[0][i] != want[i] {
			t.Errorf("cwebp arg %d = %q, want %q", i, cmds[0][i], want[i])
		}
	}
}

func TestOptionalStepsNotRequested(t *testing.T) {
	tests := []struct {
		name          string
		keepPanelOpen bool
		step          func(s *Session) StepResult
		wantName      string
	}{
		{
			name:          "panel close when the panel stays open",
			keepPanelOpen: true,
			step:          (*Session).closePanel,
			wantName:      StepPanelClose,
		},
		{
			name:          "title without a title",
			keepPanelOpen: true,
			step:          func(s *Session) StepResult { return s.injectTitle("") },
			wantName:      StepTitle,
		},
		{
			name:          "pan and zoom when the panel is closed",
			keepPanelOpen: false,
			step:          (*Session).adjustViewport,
			wantName:      StepPanZoom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewConfig()
			cfg.KeepPanelOpen = tt.keepPanelOpen
			s := &Session{cfg: cfg, logger: slog.New(slog.DiscardHandler)}

			got := tt.step(s)
			if got.Name != tt.wantName {
				t.Errorf("name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Status != StepSkipped {
				t.Errorf("status = %v, want skipped", got.Status)
			}
			if got.Err != nil {
				t.Errorf("err = %v, want nil for a step that was not requested", got.Err)
			}
		})
	}
}

func TestSanitizeFilenameKeepsRunesWhole(t *testing.T) {
	id := strings.Repeat("a", maxFilenameBytes-1) + "日本"
	got := sanitizeFilename(id)
	if !utf8.ValidString(got) {
		t.Fatalf("sanitizeFilename() produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("a", maxFilenameBytes-1); got != want {
		t.Errorf("sanitizeFilename() = %q, want %q", got, want)
	}

	short := "図表_1"
	if got := sanitizeFilename(short); got != short {
		t.Errorf("sanitizeFilename(%q) = %q", short, got)
	}
}

func TestFinishWebPRemovesIntermediateOnFailure(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	dir := t.TempDir()
	pngPath := filepath.Join(dir, "42.png")
	if err := os.WriteFile(pngPath, []byte("not really a png"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := &Session{cfg: config.NewConfig(), logger: slog.New(slog.DiscardHandler)}

	if err := s.finishWebP(context.Background(), pngPath, filepath.Join(dir, "42.webp")); err == nil {
		t.Fatal("expected conversion error without any encoder on PATH")
	}
	if _, err := os.Stat(pngPath); !os.IsNotExist(err) {
		t.Errorf("intermediate png still present: %v", err)
	}
}
