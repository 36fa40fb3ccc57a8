package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
)

// MarkdownWriter renders manifests as Markdown.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to w.
func NewMarkdownWriter(w io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: w}
}

// Write renders m.
func (w *MarkdownWriter) Write(m *Manifest) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, m)
	w.writeItems(md, m)
	w.writeFailures(md, m)

	return md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, m *Manifest) {
	md.H1("Template Capture Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + m.RunID + "`"},
			{"Started", m.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", m.Duration().Round(time.Millisecond).String()},
			{"Input", "`" + m.InputFile + "`"},
			{"Format", m.Format},
			{"Viewport", strconv.Itoa(m.Width) + "x" + strconv.Itoa(m.Height)},
		},
	})
	md.PlainText("")

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"✅ Success", strconv.Itoa(m.Counts.Success)},
			{"🔍 No template", strconv.Itoa(m.Counts.NoTemplate)},
			{"❌ Error", strconv.Itoa(m.Counts.Errors)},
			{"**Total**", "**" + strconv.Itoa(m.Counts.Total()) + "**"},
		},
	})
	md.PlainText("")

	if m.Counts.Errors > 0 {
		md.Warningf("%d of %d references failed to capture.", m.Counts.Errors, m.Counts.Total())
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeItems(md *markdown.Markdown, m *Manifest) {
	if len(m.Items) == 0 {
		return
	}
	md.H2("Items")
	md.PlainText("")

	rows := make([][]string, 0, len(m.Items))
	for _, it := range m.Items {
		file := it.File
		if file != "" {
			file = "`" + file + "`"
		}
		rows = append(rows, []string{
			strconv.Itoa(it.Index),
			escapeCell(it.Source),
			escapeCell(it.Title),
			it.Outcome,
			file,
			strconv.FormatInt(it.ElapsedMS, 10) + "ms",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Source", "Title", "Outcome", "File", "Elapsed"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, m *Manifest) {
	failed := m.Failed()
	if len(failed) == 0 {
		return
	}
	md.H2("Failures")
	md.PlainText("")

	lines := make([]string, 0, len(failed))
	for _, it := range failed {
		lines = append(lines, it.Source+": "+it.Error)
	}
	md.BulletList(lines...)
	md.PlainText("")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
