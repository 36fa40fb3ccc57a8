package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"templateshot/internal/capturelog"
	"templateshot/internal/config"
	"templateshot/internal/prompt"
	"templateshot/internal/report"
	"templateshot/internal/resolver"
	"templateshot/internal/runner"
	"templateshot/internal/templatelist"
)

const loginPrompt = "Log in manually, then press Enter to continue..."

// NewCaptureCmd creates the capture command.
func NewCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture [templates-file]",
		Short: "Capture a screenshot for every template reference",
		Long: `Capture resolves every reference of the templates file and saves one
screenshot per template into the output directory.

A browser window opens on the login page first. Log in, then press Enter;
the login is kept in the browser profile for later runs.

Examples:
  # Ask for viewport, format and panel preference, then capture
  templateshot capture templates.txt

  # Non-interactive capture reusing an existing login
  templateshot capture --no-prompt --skip-login --format webp --width 1920 --height 1080

Templates file example:
  # comments and blank lines are ignored
  design thinking, My Canvas
  id:98765
  https://creately.com/d/abc123/view`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCaptureCmd,
	}

	addSiteFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Output directory (default: "+config.DefaultOutputDir+")")
	cmd.Flags().String("profile", "", "Browser profile directory (default: XDG data dir)")
	cmd.Flags().String("login-url", "", "Login page opened before capturing")
	cmd.Flags().Int("width", config.DefaultWidth, "Viewport width")
	cmd.Flags().Int("height", config.DefaultHeight, "Viewport height")
	cmd.Flags().StringP("format", "f", string(config.DefaultFormat), "Image format: png, jpeg or webp")
	cmd.Flags().IntP("quality", "q", config.DefaultQuality, "Image quality for jpeg and webp (1-100)")
	cmd.Flags().Bool("keep-panel", true, "Keep the template panel open and pan the canvas instead")
	cmd.Flags().Bool("headless", false, "Run the browser without a window")
	cmd.Flags().Bool("no-install", false, "Do not install the playwright driver and chromium")
	cmd.Flags().Bool("skip-login", false, "Skip the login page and confirmation")
	cmd.Flags().Bool("no-prompt", false, "Do not ask for viewport, format and panel preference")

	return cmd
}

func runCaptureCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	refs, err := templatelist.Load(cfg.InputFile)
	if err != nil {
		return err
	}

	p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
	if cfg.Interactive {
		if err := prompt.Setup(p, cfg); err != nil {
			return fmt.Errorf("read answers: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errConfigValidation, err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, stopping after the current item")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCapture(ctx, cfg, refs, p, logger, cmd.OutOrStdout())
}

// runCapture opens the browser session, waits for the manual login and
// processes refs. Run artifacts are written even when the run is interrupted.
func runCapture(ctx context.Context, cfg *config.Config, refs []string, p *prompt.Prompter, logger *slog.Logger, out io.Writer) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	captureLog, err := capturelog.Open(cfg.LogPath())
	if err != nil {
		return err
	}
	defer captureLog.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.EventLogPath()), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	eventFile, err := os.OpenFile(cfg.EventLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // output dir chosen by operator
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer eventFile.Close()
	events := capturelog.NewEventLogger(eventFile)

	logger.Info("starting capture",
		"references", len(refs),
		"output", cfg.OutputDir,
		"format", cfg.Format,
		"width", cfg.Width,
		"height", cfg.Height,
		"keepPanelOpen", cfg.KeepPanelOpen,
	)

	session, err := runner.OpenSession(cfg, events)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("close browser", "error", err)
		}
	}()

	if !cfg.SkipLogin {
		if err := session.Login(ctx); err != nil {
			return err
		}
		if err := waitForLogin(ctx, p); err != nil {
			return fmt.Errorf("wait for login: %w", err)
		}
	}

	search := resolver.NewSearchClient(cfg.SearchEndpoint,
		resolver.WithRateLimit(cfg.SearchRate),
		resolver.WithLangCode(cfg.LangCode),
	)
	r := runner.New(resolver.New(cfg.DemoBase, search), session, captureLog,
		runner.WithEvents(events),
		runner.WithOutput(out),
	)

	startedAt := time.Now()
	result, runErr := r.Run(ctx, refs)

	manifest := newManifest(cfg, startedAt, result)
	if err := writeRunReports(cfg, manifest); err != nil {
		logger.Warn("write run reports", "error", err)
	}

	if errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("capture interrupted after %d of %d references", len(result.Items), len(refs))
	}
	return runErr
}

// waitForLogin blocks until the operator presses Enter or ctx is done.
// A pending read is abandoned on cancellation.
func waitForLogin(ctx context.Context, p *prompt.Prompter) error {
	done := make(chan error, 1)
	go func() { done <- p.WaitForEnter(loginPrompt) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newManifest(cfg *config.Config, startedAt time.Time, result runner.Result) *report.Manifest {
	return &report.Manifest{
		RunID:      fmt.Sprintf("%x", startedAt.UnixNano()),
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(result.Elapsed),
		InputFile:  cfg.InputFile,
		OutputDir:  cfg.OutputDir,
		Format:     string(cfg.Format),
		Width:      cfg.Width,
		Height:     cfg.Height,
		ProfileDir: cfg.ProfileDir,
		LogPath:    cfg.LogPath(),
		Counts:     result.Counts,
		Items:      result.Items,
	}
}

// writeRunReports writes run.json and summary.md into the output directory.
func writeRunReports(cfg *config.Config, manifest *report.Manifest) error {
	if err := report.WriteManifest(cfg.ManifestPath(), manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	f, err := os.Create(cfg.SummaryPath())
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	defer f.Close()
	if err := report.NewMarkdownWriter(f).Write(manifest); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
