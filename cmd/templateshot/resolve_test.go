package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"templateshot/internal/templatelist"
)

func TestResolveCmd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("term") == "nothing here" {
			_ = json.NewEncoder(w).Encode(map[string]any{"diagrams": []any{}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"diagrams": []map[string]any{{"id": "srch01"}},
		})
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	input := writeFile(t, dir, "templates.txt", strings.Join([]string{
		"# resolved without a browser",
		"design thinking, My Canvas",
		"id:42",
		"https://creately.com/demo-start/?tempId=xyz",
		"nothing here",
	}, "\n"))
	cfgPath := writeFile(t, dir, "config.yaml", "output: "+dir+"\n")

	out, err := execute(t, "resolve", input,
		"--config", cfgPath,
		"--search-endpoint", srv.URL,
		"--search-rate", "0",
		"--demo-base", "https://example.test/start?tempId=",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"https://example.test/start?tempId=srch01",
		"My Canvas",
		"https://example.test/start?tempId=42",
		"https://creately.com/demo-start/?tempId=xyz",
		"NO_TEMPLATE_FOUND",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "resolved without a browser") {
		t.Errorf("comment line was resolved:\n%s", out)
	}
}

func TestResolveCmdSearchFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	input := writeFile(t, dir, "templates.txt", "flowchart\n")
	cfgPath := writeFile(t, dir, "config.yaml", "output: "+dir+"\n")

	out, err := execute(t, "resolve", input, "--config", cfgPath,
		"--search-endpoint", srv.URL, "--search-rate", "0")
	if err != nil {
		t.Fatalf("a failed lookup must not abort the command: %v", err)
	}
	if !strings.Contains(out, "ERROR: search API failed (502) for term: flowchart") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestResolveCmdMissingInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "output: "+dir+"\n")

	_, err := execute(t, "resolve", dir+"/absent.txt", "--config", cfgPath)
	if !errors.Is(err, templatelist.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
