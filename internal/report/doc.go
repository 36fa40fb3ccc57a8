// Package report persists and renders the result of a capture run.
//
// A run is described by a Manifest stored as run.json in the output
// directory. MarkdownWriter renders a Manifest as a GitHub-flavoured
// Markdown summary.
package report
