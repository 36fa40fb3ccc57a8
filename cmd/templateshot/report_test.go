package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"templateshot/internal/report"
)

func TestReportCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	manifest := &report.Manifest{
		RunID:      "abc123",
		StartedAt:  started,
		FinishedAt: started.Add(4 * time.Second),
		InputFile:  "templates.txt",
		OutputDir:  dir,
		Format:     "png",
		Width:      1280,
		Height:     720,
		Counts:     report.Counts{Success: 1, Errors: 1},
		Items: []report.Item{
			{Index: 1, Source: "id:1", Outcome: report.OutcomeSuccess, File: "1.png"},
			{Index: 2, Source: "id:2", Outcome: report.OutcomeError, Error: "navigate: timeout"},
		},
	}
	manifestPath := filepath.Join(dir, "run.json")
	if err := report.WriteManifest(manifestPath, manifest); err != nil {
		t.Fatal(err)
	}
	cfgPath := writeFile(t, dir, "config.yaml", "output: "+dir+"\n")

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "report", manifestPath, "--config", cfgPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "# Template Capture Report") {
			t.Errorf("missing report title:\n%s", out)
		}
		if !strings.Contains(out, "abc123") {
			t.Errorf("missing run ID:\n%s", out)
		}
	})

	t.Run("default manifest of output dir to file", func(t *testing.T) {
		t.Parallel()

		target := filepath.Join(t.TempDir(), "nested", "summary.md")
		if _, err := execute(t, "report", "--config", cfgPath, "-f", target); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(target)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "navigate: timeout") {
			t.Errorf("failure missing from report:\n%s", data)
		}
	})

	t.Run("output directory flag is not accepted", func(t *testing.T) {
		t.Parallel()

		target := filepath.Join(t.TempDir(), "summary.md")
		if _, err := execute(t, "report", "--config", cfgPath, "-o", target); err == nil {
			t.Fatal("expected unknown flag error")
		}
		if _, err := os.Stat(target); !os.IsNotExist(err) {
			t.Errorf("report written despite rejected flag: %v", err)
		}
	})

	t.Run("missing manifest", func(t *testing.T) {
		t.Parallel()

		if _, err := execute(t, "report", filepath.Join(dir, "absent.json"), "--config", cfgPath); err == nil {
			t.Fatal("expected error")
		}
	})
}
