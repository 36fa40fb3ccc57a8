package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName is used for XDG directory paths.
const AppName = "templateshot"

// Defaults for a capture run.
const (
	DefaultInputFile  = "templates.txt"
	DefaultOutputDir  = "screenshots"
	DefaultLogFile    = "capture-log.txt"
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultFormat     = FormatPNG
	DefaultQuality    = 80
	DefaultLangCode   = "en"
	DefaultSearchRate = 2.0
	DefaultPanOffset  = 100

	DefaultLoginURL       = "https://creately.com/login/"
	DefaultDemoBase       = "https://creately.com/demo-start/?tempId="
	DefaultSearchEndpoint = "https://community-api.creately.com/community/search/all/"

	DefaultNavigationTimeout  = 120 * time.Second
	DefaultNetworkIdleTimeout = 45 * time.Second
	DefaultElementTimeout     = 15 * time.Second
	DefaultSettleDelay        = 3 * time.Second
)

// Default selectors for the template viewer.
const (
	DefaultPanelCloseSelector = "#fab-container-btn"
	DefaultTitleSelector      = "#workspace-title-label > div > div"

	toolbarSelector = "body > app-root > ng-component > div.container-fluid > div.diagram-container.row > " +
		"div.fx-pointer-events-none.fx-center-vertical.fx-cover.diagram-inner-container > div.base-right-content-area > " +
		"div > div > div.diagram-viewport-floating-controls > div.diagram-viewport-floating-controls-right-area > " +
		"div > diagram-toolbar > div"

	DefaultZoomSelector = toolbarSelector + " > div.dt-block.dt-zoom"
	DefaultPanSelector  = toolbarSelector + " > div:nth-child(3) > div:nth-child(2) > button"
)

// Selectors locates the viewer controls touched by the optional steps.
type Selectors struct {
	PanelClose string `yaml:"panelClose"`
	Title      string `yaml:"title"`
	Zoom       string `yaml:"zoom"`
	Pan        string `yaml:"pan"`
}

// Timeouts bounds every wait of a capture.
type Timeouts struct {
	Navigation  time.Duration `yaml:"navigation"`
	NetworkIdle time.Duration `yaml:"networkIdle"`
	Element     time.Duration `yaml:"element"`
	Settle      time.Duration `yaml:"settle"`
}

// Config holds all options of a capture run.
type Config struct {
	// InputFile is the newline-delimited list of template references.
	InputFile string

	// OutputDir receives screenshots, the capture log and run reports.
	OutputDir string

	// LogFile is the append-only capture log name inside OutputDir.
	LogFile string

	// ProfileDir is the persistent browser profile. Login state survives
	// between runs through it.
	ProfileDir string

	Width   int
	Height  int
	Format  Format
	Quality int // jpeg and webp only

	// KeepPanelOpen leaves the template panel visible and instead shifts
	// the canvas with the pan tool.
	KeepPanelOpen bool

	Headless bool

	// InstallBrowsers downloads the playwright driver and chromium before launch.
	InstallBrowsers bool

	// SkipLogin skips the login page and the confirmation prompt.
	SkipLogin bool

	// Interactive enables the startup questions.
	Interactive bool

	LoginURL       string
	DemoBase       string
	SearchEndpoint string
	LangCode       string

	// SearchRate caps search API calls per second; 0 disables the cap.
	SearchRate float64

	// PanOffset is the horizontal drag distance in pixels.
	PanOffset int

	Selectors Selectors
	Timeouts  Timeouts

	Verbose bool
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		InputFile:       DefaultInputFile,
		OutputDir:       DefaultOutputDir,
		LogFile:         DefaultLogFile,
		ProfileDir:      XDGProfileDir(),
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Format:          DefaultFormat,
		Quality:         DefaultQuality,
		KeepPanelOpen:   true,
		InstallBrowsers: true,
		Interactive:     true,
		LoginURL:        DefaultLoginURL,
		DemoBase:        DefaultDemoBase,
		SearchEndpoint:  DefaultSearchEndpoint,
		LangCode:        DefaultLangCode,
		SearchRate:      DefaultSearchRate,
		PanOffset:       DefaultPanOffset,
		Selectors: Selectors{
			PanelClose: DefaultPanelCloseSelector,
			Title:      DefaultTitleSelector,
			Zoom:       DefaultZoomSelector,
			Pan:        DefaultPanSelector,
		},
		Timeouts: Timeouts{
			Navigation:  DefaultNavigationTimeout,
			NetworkIdle: DefaultNetworkIdleTimeout,
			Element:     DefaultElementTimeout,
			Settle:      DefaultSettleDelay,
		},
	}
}

// XDGProfileDir returns the default browser profile location,
// e.g. ~/.local/share/templateshot/browser-data on Linux.
func XDGProfileDir() string {
	return filepath.Join(xdg.DataHome, AppName, "browser-data")
}

// XDGConfigDir returns the XDG config directory for templateshot.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// LogPath returns the capture log location.
func (c *Config) LogPath() string {
	return filepath.Join(c.OutputDir, c.LogFile)
}

// ManifestPath returns the run manifest location.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.OutputDir, "run.json")
}

// SummaryPath returns the Markdown summary location.
func (c *Config) SummaryPath() string {
	return filepath.Join(c.OutputDir, "summary.md")
}

// EventLogPath returns the NDJSON event log location.
func (c *Config) EventLogPath() string {
	return filepath.Join(c.OutputDir, "logs", "runner.ndjson")
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return ErrNoInput
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.Width <= 0 || c.Height <= 0 {
		return ErrInvalidViewport
	}
	if _, err := ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if c.Quality < 1 || c.Quality > 100 {
		return ErrInvalidQuality
	}
	if c.Timeouts.Navigation <= 0 || c.Timeouts.NetworkIdle < 0 ||
		c.Timeouts.Element < 0 || c.Timeouts.Settle < 0 {
		return ErrInvalidTimeout
	}
	if c.DemoBase == "" || c.SearchEndpoint == "" {
		return ErrNoTargetSite
	}
	return nil
}
