package config

import (
	"fmt"
	"strings"
)

// Format is the image format of saved screenshots.
type Format string

// Supported formats. WebP is captured as PNG and converted afterwards.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// ParseFormat normalizes s into a Format. "jpg" is accepted for jpeg.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension without the leading dot.
func (f Format) Ext() string {
	return string(f)
}

// Native reports whether the browser can write the format directly.
func (f Format) Native() bool {
	return f == FormatPNG || f == FormatJPEG
}
