package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"templateshot/internal/capturelog"
	"templateshot/internal/config"
	"templateshot/internal/resolver"

	"github.com/playwright-community/playwright-go"
)

// setTitleScript replaces the workspace title shown in the viewer.
const setTitleScript = `(el, text) => { el.textContent = text; }`

// Session is one persistent browser context reused for every capture.
type Session struct {
	cfg     *config.Config
	logger  *slog.Logger
	pw      *playwright.Playwright
	browser playwright.BrowserContext
	page    playwright.Page
}

// OpenSession starts playwright and launches chromium on the persistent
// profile in cfg.ProfileDir.
func OpenSession(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := capturelog.Scope(logger, "runner")

	if cfg.InstallBrowsers {
		log.Info("installing playwright browsers")
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	if err := os.MkdirAll(cfg.ProfileDir, 0o755); err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	browser, err := pw.Chromium.LaunchPersistentContext(cfg.ProfileDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     []string{fmt.Sprintf("--window-size=%d,%d", cfg.Width, cfg.Height)},
		Viewport: &playwright.Size{Width: cfg.Width, Height: cfg.Height},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch context: %w", err)
	}

	var page playwright.Page
	if pages := browser.Pages(); len(pages) > 0 {
		page = pages[0]
	} else if page, err = browser.NewPage(); err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("new page: %w", err)
	}

	log.Info("browser ready", "profile", cfg.ProfileDir, "width", cfg.Width, "height", cfg.Height, "headless", cfg.Headless)
	return &Session{cfg: cfg, logger: logger, pw: pw, browser: browser, page: page}, nil
}

// Login opens the login page so the operator can sign in by hand.
func (s *Session) Login(_ context.Context) error {
	capturelog.Scope(s.logger, "browser").Info("opening login page", "url", s.cfg.LoginURL)
	if err := s.gotoURL(s.cfg.LoginURL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	return nil
}

// Close closes the browser context and stops playwright.
func (s *Session) Close() error {
	var firstErr error
	if err := s.browser.Close(); err != nil {
		firstErr = fmt.Errorf("close context: %w", err)
	}
	if err := s.pw.Stop(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("stop playwright: %w", err)
	}
	return firstErr
}

// Capture navigates to target, runs the optional UI steps and saves a
// screenshot. Only navigation, load and screenshot failures are returned;
// optional steps are reported through Capture.Steps.
func (s *Session) Capture(ctx context.Context, target resolver.Target) (Capture, error) {
	browserLog := capturelog.Scope(s.logger, "browser")
	browserLog.Info("navigating", "url", target.URL)

	if err := s.safeGoto(target.URL); err != nil {
		return Capture{}, fmt.Errorf("navigate: %w", err)
	}
	if err := s.settle(); err != nil {
		return Capture{}, err
	}
	if err := ctx.Err(); err != nil {
		return Capture{}, err
	}

	steps := []StepResult{
		s.closePanel(),
		s.injectTitle(target.Title),
		s.adjustViewport(),
	}
	stepLog := capturelog.Scope(s.logger, "step")
	for _, st := range steps {
		switch st.Status {
		case StepFailed:
			stepLog.Warn("step failed; continuing", "step", st.Name, "error", st.Err.Error())
		case StepSkipped:
			if st.Err != nil {
				stepLog.Debug("step skipped", "step", st.Name, "error", st.Err.Error())
			}
		default:
			stepLog.Debug("step done", "step", st.Name)
		}
	}

	file, err := s.screenshot(ctx, target)
	if err != nil {
		return Capture{Steps: steps}, err
	}
	capturelog.Scope(s.logger, "artifact").Info("screenshot saved", "file", file)
	return Capture{File: file, Steps: steps}, nil
}

func (s *Session) gotoURL(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(millis(s.cfg.Timeouts.Navigation)),
	})
	return err
}

// safeGoto navigates to url and ignores errors raised because the page
// started another navigation on its own.
func (s *Session) safeGoto(url string) error {
	err := s.gotoURL(url)
	if isBenignNavigationError(err) {
		capturelog.Scope(s.logger, "browser").Debug("navigation superseded by page redirect", "url", url)
		return nil
	}
	return err
}

// settle waits for DOM-ready and load, then best-effort for network idle,
// then a fixed delay.
func (s *Session) settle() error {
	navTimeout := playwright.Float(millis(s.cfg.Timeouts.Navigation))
	if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: navTimeout,
	}); err != nil {
		return fmt.Errorf("wait for DOM: %w", err)
	}
	if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: navTimeout,
	}); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}
	if s.cfg.Timeouts.NetworkIdle > 0 {
		if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
			State:   playwright.LoadStateNetworkidle,
			Timeout: playwright.Float(millis(s.cfg.Timeouts.NetworkIdle)),
		}); err != nil {
			capturelog.Scope(s.logger, "browser").Debug("network never went idle", "error", err.Error())
		}
	}
	s.pause(s.cfg.Timeouts.Settle)
	return nil
}

func (s *Session) waitVisible(loc playwright.Locator) error {
	return loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(millis(s.cfg.Timeouts.Element)),
	})
}

// closePanel dismisses the template panel unless it should stay open.
func (s *Session) closePanel() StepResult {
	if s.cfg.KeepPanelOpen {
		return stepNotRequested(StepPanelClose)
	}
	button := s.page.Locator(s.cfg.Selectors.PanelClose)
	if err := s.waitVisible(button); err != nil {
		return stepFromError(StepPanelClose, err)
	}
	if err := button.Click(); err != nil {
		return stepFromError(StepPanelClose, err)
	}
	s.pause(500 * time.Millisecond)
	return stepDone(StepPanelClose)
}

// injectTitle overwrites the workspace title with title.
func (s *Session) injectTitle(title string) StepResult {
	if title == "" {
		return stepNotRequested(StepTitle)
	}
	label := s.page.Locator(s.cfg.Selectors.Title)
	if err := s.waitVisible(label); err != nil {
		return stepFromError(StepTitle, err)
	}
	if _, err := label.Evaluate(setTitleScript, title); err != nil {
		return stepFromError(StepTitle, err)
	}
	s.pause(time.Second)
	return stepDone(StepTitle)
}

// adjustViewport zooms to fit and drags the canvas right so the diagram is
// not hidden behind the open template panel.
func (s *Session) adjustViewport() StepResult {
	if !s.cfg.KeepPanelOpen {
		return stepNotRequested(StepPanZoom)
	}

	zoom := s.page.Locator(s.cfg.Selectors.Zoom)
	if err := s.waitVisible(zoom); err != nil {
		return stepFromError(StepPanZoom, err)
	}
	if err := zoom.Hover(); err != nil {
		return stepFromError(StepPanZoom, err)
	}
	if err := zoom.Locator("button").First().Click(); err != nil {
		return stepFromError(StepPanZoom, err)
	}
	s.pause(300 * time.Millisecond)

	pan := s.page.Locator(s.cfg.Selectors.Pan)
	if err := s.waitVisible(pan); err != nil {
		return stepFromError(StepPanZoom, err)
	}
	if err := pan.Click(); err != nil {
		return stepFromError(StepPanZoom, err)
	}

	startX, startY, endX, endY := dragPath(s.viewport(), s.cfg.PanOffset)
	mouse := s.page.Mouse()
	if err := mouse.Move(startX, startY); err != nil {
		return stepFromError(StepPanZoom, err)
	}
	if err := mouse.Down(); err != nil {
		return stepFromError(StepPanZoom, err)
	}
	if err := mouse.Move(endX, endY, playwright.MouseMoveOptions{Steps: playwright.Int(10)}); err != nil {
		_ = mouse.Up()
		return stepFromError(StepPanZoom, err)
	}
	if err := mouse.Up(); err != nil {
		return stepFromError(StepPanZoom, err)
	}
	s.pause(time.Second)
	return stepDone(StepPanZoom)
}

func (s *Session) viewport() playwright.Size {
	if size := s.page.ViewportSize(); size != nil && size.Width > 0 && size.Height > 0 {
		return *size
	}
	return playwright.Size{Width: s.cfg.Width, Height: s.cfg.Height}
}

// dragPath returns a horizontal drag starting at the viewport centre.
func dragPath(viewport playwright.Size, offset int) (startX, startY, endX, endY float64) {
	startX = float64(viewport.Width / 2)
	startY = float64(viewport.Height / 2)
	return startX, startY, startX + float64(offset), startY
}

// screenshot captures the viewport and returns the saved file name.
func (s *Session) screenshot(ctx context.Context, target resolver.Target) (string, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	stem, filename := outputName(target, s.cfg.Format)
	shotPath := capturePath(s.cfg.OutputDir, stem, s.cfg.Format)

	if _, err := s.page.Screenshot(screenshotOptions(shotPath, s.cfg.Format, s.cfg.Quality)); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	if !s.cfg.Format.Native() {
		if err := s.finishWebP(ctx, shotPath, filepath.Join(s.cfg.OutputDir, filename)); err != nil {
			return "", err
		}
	}
	return filename, nil
}

// finishWebP converts the intermediate png and removes it, whether or not
// the conversion succeeded.
func (s *Session) finishWebP(ctx context.Context, pngPath, webpPath string) error {
	convErr := convertToWebP(ctx, pngPath, webpPath, s.cfg.Quality)
	if err := os.Remove(pngPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		capturelog.Scope(s.logger, "artifact").Warn("remove intermediate png", "error", err.Error())
	}
	return convErr
}

func screenshotOptions(path string, format config.Format, quality int) playwright.PageScreenshotOptions {
	opts := playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(false),
		Type:     playwright.ScreenshotTypePng,
	}
	if format == config.FormatJPEG {
		opts.Type = playwright.ScreenshotTypeJpeg
		opts.Quality = playwright.Int(quality)
	}
	return opts
}

func (s *Session) pause(d time.Duration) {
	if d > 0 {
		s.page.WaitForTimeout(millis(d))
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
