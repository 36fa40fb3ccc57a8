package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name searched for.
const DefaultConfigFile = ".templateshot.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML representation of a configuration file. Zero values
// leave the corresponding default untouched.
type File struct {
	Input          string    `yaml:"input"`
	Output         string    `yaml:"output"`
	LogFile        string    `yaml:"logFile"`
	Profile        string    `yaml:"profile"`
	Width          int       `yaml:"width"`
	Height         int       `yaml:"height"`
	Format         string    `yaml:"format"`
	Quality        int       `yaml:"quality"`
	KeepPanelOpen  *bool     `yaml:"keepPanelOpen"`
	Headless       *bool     `yaml:"headless"`
	Install        *bool     `yaml:"installBrowsers"`
	LoginURL       string    `yaml:"loginURL"`
	DemoBase       string    `yaml:"demoBase"`
	SearchEndpoint string    `yaml:"searchEndpoint"`
	LangCode       string    `yaml:"langCode"`
	SearchRate     *float64  `yaml:"searchRate"`
	PanOffset      int       `yaml:"panOffset"`
	Selectors      Selectors `yaml:"selectors"`
	Timeouts       Timeouts  `yaml:"timeouts"`
}

// LoadConfigFile reads a YAML configuration file. A missing file yields
// ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindConfigFile returns the first existing configuration file among
// configPath (when given), the current directory, the XDG config
// directory and the home directory. It returns "" when none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), DefaultConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Apply overlays the non-zero fields of f onto c.
func (c *Config) Apply(f *File) error {
	if f == nil {
		return nil
	}
	setString(&c.InputFile, f.Input)
	setString(&c.OutputDir, f.Output)
	setString(&c.LogFile, f.LogFile)
	setString(&c.ProfileDir, f.Profile)
	setInt(&c.Width, f.Width)
	setInt(&c.Height, f.Height)
	setInt(&c.Quality, f.Quality)
	setInt(&c.PanOffset, f.PanOffset)
	if f.Format != "" {
		format, err := ParseFormat(f.Format)
		if err != nil {
			return err
		}
		c.Format = format
	}
	if f.KeepPanelOpen != nil {
		c.KeepPanelOpen = *f.KeepPanelOpen
	}
	if f.Headless != nil {
		c.Headless = *f.Headless
	}
	if f.Install != nil {
		c.InstallBrowsers = *f.Install
	}
	if f.SearchRate != nil {
		c.SearchRate = *f.SearchRate
	}
	setString(&c.LoginURL, f.LoginURL)
	setString(&c.DemoBase, f.DemoBase)
	setString(&c.SearchEndpoint, f.SearchEndpoint)
	setString(&c.LangCode, f.LangCode)

	setString(&c.Selectors.PanelClose, f.Selectors.PanelClose)
	setString(&c.Selectors.Title, f.Selectors.Title)
	setString(&c.Selectors.Zoom, f.Selectors.Zoom)
	setString(&c.Selectors.Pan, f.Selectors.Pan)

	setDuration(&c.Timeouts.Navigation, f.Timeouts.Navigation)
	setDuration(&c.Timeouts.NetworkIdle, f.Timeouts.NetworkIdle)
	setDuration(&c.Timeouts.Element, f.Timeouts.Element)
	setDuration(&c.Timeouts.Settle, f.Timeouts.Settle)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
