package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"templateshot/internal/config"
	"templateshot/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve captured screenshots, the capture log and the run manifest",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringP("output", "o", "", "Output directory to serve (default: "+config.DefaultOutputDir+")")
	cmd.Flags().IntP("port", "p", 8787, "Port to listen on")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	port, _ := cmd.Flags().GetInt("port")

	mode := gin.ReleaseMode
	if cfg.Verbose {
		mode = gin.DebugMode
	}
	r := server.NewRouter(server.Options{OutputDir: cfg.OutputDir, LogFile: cfg.LogFile, Mode: mode})

	addr := fmt.Sprintf(":%d", port)
	setupLogger(true).Info("serving captures", "addr", addr, "dir", cfg.OutputDir)
	return r.Run(addr)
}
