package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"templateshot/internal/config"
)

// addSiteFlags registers the flags shared by commands that resolve references.
func addSiteFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Templates file (default: "+config.DefaultInputFile+")")
	cmd.Flags().String("demo-base", "", "Template viewer URL prefix the template ID is appended to")
	cmd.Flags().String("search-endpoint", "", "Template search API endpoint")
	cmd.Flags().String("lang", "", "Search language code")
	cmd.Flags().Float64("search-rate", config.DefaultSearchRate, "Maximum search requests per second (0 = unlimited)")
}

// buildConfig layers the configuration file and the flags of cmd over the
// defaults. A positional argument overrides the input file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, _ := cmd.Flags().GetString("config")
	if path := config.FindConfigFile(configPath); path != "" {
		f, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := cfg.Apply(f); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	cfg.Verbose, _ = cmd.Flags().GetBool("verbose")

	stringFlag(cmd, "input", &cfg.InputFile)
	stringFlag(cmd, "output", &cfg.OutputDir)
	stringFlag(cmd, "profile", &cfg.ProfileDir)
	stringFlag(cmd, "demo-base", &cfg.DemoBase)
	stringFlag(cmd, "search-endpoint", &cfg.SearchEndpoint)
	stringFlag(cmd, "lang", &cfg.LangCode)
	stringFlag(cmd, "login-url", &cfg.LoginURL)
	intFlag(cmd, "width", &cfg.Width)
	intFlag(cmd, "height", &cfg.Height)
	intFlag(cmd, "quality", &cfg.Quality)
	boolFlag(cmd, "keep-panel", &cfg.KeepPanelOpen)
	boolFlag(cmd, "headless", &cfg.Headless)
	boolFlag(cmd, "skip-login", &cfg.SkipLogin)
	if changed(cmd, "search-rate") {
		cfg.SearchRate, _ = cmd.Flags().GetFloat64("search-rate")
	}
	if changed(cmd, "no-install") {
		noInstall, _ := cmd.Flags().GetBool("no-install")
		cfg.InstallBrowsers = !noInstall
	}
	if changed(cmd, "no-prompt") {
		noPrompt, _ := cmd.Flags().GetBool("no-prompt")
		cfg.Interactive = !noPrompt
	}
	if changed(cmd, "format") {
		raw, _ := cmd.Flags().GetString("format")
		format, err := config.ParseFormat(raw)
		if err != nil {
			return nil, err
		}
		cfg.Format = format
	}

	if len(args) > 0 {
		cfg.InputFile = args[0]
	}
	return cfg, nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func stringFlag(cmd *cobra.Command, name string, dst *string) {
	if changed(cmd, name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

func intFlag(cmd *cobra.Command, name string, dst *int) {
	if changed(cmd, name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

func boolFlag(cmd *cobra.Command, name string, dst *bool) {
	if changed(cmd, name) {
		*dst, _ = cmd.Flags().GetBool(name)
	}
}

// errConfigValidation prefixes validation failures.
var errConfigValidation = errors.New("configuration error")
