package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"templateshot/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [run.json]",
		Short: "Render a capture run as Markdown",
		Long: `Report renders the run manifest written by capture as a Markdown
summary. Without an argument the manifest of the configured output
directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReportCmd,
	}
	cmd.Flags().StringP("file", "f", "", "Write the report to this file instead of stdout")
	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	path := cfg.ManifestPath()
	if len(args) > 0 {
		path = args[0]
	}

	manifest, err := report.LoadManifest(path)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	out := cmd.OutOrStdout()
	target, _ := cmd.Flags().GetString("file")
	if target != "" {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		f, err := os.Create(target) //nolint:gosec // operator-supplied path
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return report.NewMarkdownWriter(out).Write(manifest)
}
