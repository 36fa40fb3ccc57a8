package prompt

import (
	"bytes"
	"strings"
	"testing"

	"templateshot/internal/config"
)

func TestParseYesNo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"y", false, true},
		{" YES ", false, true},
		{"true", false, true},
		{"1", false, true},
		{"n", true, false},
		{"No", true, false},
		{"false", true, false},
		{"0", true, false},
		{"", true, true},
		{"", false, false},
		{"maybe", true, true},
	}
	for _, tt := range tests {
		if got := ParseYesNo(tt.in, tt.def); got != tt.want {
			t.Errorf("ParseYesNo(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestSetupAppliesAnswers(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("1920\n1080\nwebp\nn\n")
	var out bytes.Buffer
	cfg := config.NewConfig()

	if err := Setup(New(in, &out), cfg); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if cfg.Width != 1920 || cfg.Height != 1080 {
		t.Errorf("viewport = %dx%d, want 1920x1080", cfg.Width, cfg.Height)
	}
	if cfg.Format != config.FormatWebP {
		t.Errorf("format = %q, want webp", cfg.Format)
	}
	if cfg.KeepPanelOpen {
		t.Error("expected KeepPanelOpen to be false")
	}
	if !strings.Contains(out.String(), "Screenshot width (default 1280): ") {
		t.Errorf("unexpected prompts: %q", out.String())
	}
}

func TestSetupFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	// Invalid number, negative number, unknown format, then end of input.
	in := strings.NewReader("wide\n-5\ngif\n")
	cfg := config.NewConfig()

	if err := Setup(New(in, &bytes.Buffer{}), cfg); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if cfg.Width != config.DefaultWidth || cfg.Height != config.DefaultHeight {
		t.Errorf("viewport = %dx%d, want defaults", cfg.Width, cfg.Height)
	}
	if cfg.Format != config.FormatPNG {
		t.Errorf("format = %q, want png", cfg.Format)
	}
	if !cfg.KeepPanelOpen {
		t.Error("expected KeepPanelOpen default to be kept")
	}
}

func TestWaitForEnter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := New(strings.NewReader("\n"), &out)
	if err := p.WaitForEnter("Log in manually, then press Enter to continue..."); err != nil {
		t.Fatalf("WaitForEnter() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "Log in manually") {
		t.Errorf("unexpected output %q", out.String())
	}
}
