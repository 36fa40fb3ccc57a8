// Package server exposes the artifacts of the latest capture run over HTTP:
// the run manifest, the capture log and the screenshot files.
package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"templateshot/internal/report"
)

// Options configures the router.
type Options struct {
	OutputDir string
	LogFile   string // capture log name inside OutputDir
	Mode      string // gin mode: debug, release or test
}

// NewRouter returns a gin engine serving the artifacts under opts.OutputDir.
//
//	GET /health        liveness probe
//	GET /v1/run        run.json manifest
//	GET /v1/log        capture log as plain text
//	GET /captures/*    screenshot files
func NewRouter(opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(withCORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	v1 := r.Group("/v1")
	v1.GET("/run", runHandler(opts.OutputDir))
	v1.GET("/log", logHandler(filepath.Join(opts.OutputDir, opts.LogFile)))

	r.GET("/captures/*file", captureHandler(opts.OutputDir))
	return r
}

func runHandler(outputDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		manifest, err := report.LoadManifest(filepath.Join(outputDir, "run.json"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no run recorded"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for i := range manifest.Items {
			if f := manifest.Items[i].File; f != "" {
				manifest.Items[i].File = "/captures/" + f
			}
		}
		c.JSON(http.StatusOK, manifest)
	}
}

func logHandler(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no capture log"})
			return
		}
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.File(path)
	}
}

var imageTypes = map[string]bool{".png": true, ".jpeg": true, ".jpg": true, ".webp": true}

// captureHandler serves image files directly inside outputDir.
func captureHandler(outputDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimPrefix(c.Param("file"), "/")
		if name == "" || name != filepath.Base(name) || !imageTypes[strings.ToLower(filepath.Ext(name))] {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		path := filepath.Join(outputDir, name)
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(path)
	}
}

func withCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET,OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
