package report

import (
	"encoding/json"
	"os"
	"time"
)

// Item outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeNoTemplate = "no-template"
	OutcomeError      = "error"
)

// Step is the result of one optional UI step.
type Step struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Item describes one processed reference.
type Item struct {
	Index      int    `json:"index"`
	Source     string `json:"source"`
	URL        string `json:"url,omitempty"`
	TemplateID string `json:"template_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Outcome    string `json:"outcome"`
	File       string `json:"file,omitempty"`
	Error      string `json:"error,omitempty"`
	ElapsedMS  int64  `json:"elapsed_ms"`
	Steps      []Step `json:"steps,omitempty"`
}

// Counts are the per-outcome totals of a run.
type Counts struct {
	Success    int `json:"success"`
	NoTemplate int `json:"no_template"`
	Errors     int `json:"errors"`
}

// Total returns the number of processed references.
func (c Counts) Total() int {
	return c.Success + c.NoTemplate + c.Errors
}

// Manifest is persisted to run.json.
type Manifest struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	InputFile  string    `json:"input_file"`
	OutputDir  string    `json:"output_dir"`
	Format     string    `json:"format"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	ProfileDir string    `json:"profile_dir"`
	LogPath    string    `json:"log_path"`
	Counts     Counts    `json:"counts"`
	Items      []Item    `json:"items"`
}

// Duration returns the wall time of the run.
func (m *Manifest) Duration() time.Duration {
	return m.FinishedAt.Sub(m.StartedAt)
}

// Failed returns the items that ended in an error.
func (m *Manifest) Failed() []Item {
	var out []Item
	for _, it := range m.Items {
		if it.Outcome == OutcomeError {
			out = append(out, it)
		}
	}
	return out
}

// WriteManifest writes manifest as indented JSON to path.
func WriteManifest(path string, manifest *Manifest) error {
	file, err := os.Create(path) //nolint:gosec // output dir chosen by operator
	if err != nil {
		return err
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(manifest)
}

// LoadManifest reads a manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
