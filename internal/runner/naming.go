package runner

import (
	"path/filepath"
	"regexp"
	"unicode/utf8"

	"templateshot/internal/config"
	"templateshot/internal/resolver"
)

// maxFilenameBytes caps a file name stem. Cuts never split a rune.
const maxFilenameBytes = 100

var illegalFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\s]`)

// sanitizeFilename replaces characters that are illegal in file names and
// caps the length.
func sanitizeFilename(name string) string {
	sanitized := illegalFilenameChars.ReplaceAllString(name, "_")
	if len(sanitized) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(sanitized[cut]) {
			cut--
		}
		sanitized = sanitized[:cut]
	}
	if sanitized == "" {
		return resolver.DefaultTemplateID
	}
	return sanitized
}

// outputName returns the screenshot file name for target. The template ID
// from the URL query wins over the resolved ID.
func outputName(target resolver.Target, format config.Format) (stem, filename string) {
	id := resolver.TemplateIDFromURL(target.URL, target.TemplateID)
	stem = sanitizeFilename(id)
	return stem, stem + "." + format.Ext()
}

// capturePath returns where the browser writes the screenshot. Formats the
// browser cannot encode are captured as PNG first.
func capturePath(outputDir, stem string, format config.Format) string {
	if format.Native() {
		return filepath.Join(outputDir, stem+"."+format.Ext())
	}
	return filepath.Join(outputDir, stem+"."+config.FormatPNG.Ext())
}
