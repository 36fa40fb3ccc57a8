// Package templatelist reads the newline-delimited list of template
// references that drives a capture run.
package templatelist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrNotFound is returned when the input file does not exist.
	ErrNotFound = errors.New("templates file not found")

	// ErrEmpty is returned when the input holds no usable references.
	ErrEmpty = errors.New("no template references found")
)

// Parse returns the trimmed references in r, skipping blank lines and
// lines starting with '#'. Order is preserved.
func Parse(r io.Reader) ([]string, error) {
	var refs []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}

// Load reads the references file at path. A missing file yields
// ErrNotFound and a file without references yields ErrEmpty.
func Load(path string) ([]string, error) {
	file, err := os.Open(path) //nolint:gosec // operator-supplied input path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer file.Close()

	refs, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmpty, path)
	}
	return refs, nil
}
