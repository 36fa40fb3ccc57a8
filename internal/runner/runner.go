// Package runner drives a capture run: it resolves each template reference,
// captures it in a persistent browser session and records the outcome.
//
// Items are processed strictly one at a time. A failure of one item never
// stops the run; only context cancellation does.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"templateshot/internal/capturelog"
	"templateshot/internal/report"
	"templateshot/internal/resolver"
)

// Resolver resolves one raw reference line.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (resolver.Target, error)
}

// Capturer captures a resolved target. Session is the browser-backed
// implementation.
type Capturer interface {
	Capture(ctx context.Context, target resolver.Target) (Capture, error)
}

// Capture is the artifact of a successful capture.
type Capture struct {
	File  string // file name inside the output directory
	Steps []StepResult
}

// Result holds the per-outcome counters and items of a run.
type Result struct {
	Counts  report.Counts
	Items   []report.Item
	Elapsed time.Duration
}

// Runner processes references sequentially.
type Runner struct {
	resolver Resolver
	capturer Capturer
	log      *capturelog.Log
	events   *slog.Logger
	out      io.Writer
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithEvents sets the structured event logger.
func WithEvents(logger *slog.Logger) Option {
	return func(r *Runner) { r.events = logger }
}

// WithOutput sets where progress lines are printed.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// New returns a Runner.
func New(res Resolver, capturer Capturer, log *capturelog.Log, opts ...Option) *Runner {
	r := &Runner{
		resolver: res,
		capturer: capturer,
		log:      log,
		events:   slog.New(slog.DiscardHandler),
		out:      io.Discard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes refs in order and prints a summary. The returned error is
// non-nil only when ctx was cancelled; the partial result is still returned.
func (r *Runner) Run(ctx context.Context, refs []string) (Result, error) {
	runStart := r.now()
	var res Result

	for i, raw := range refs {
		if err := ctx.Err(); err != nil {
			res.Elapsed = r.now().Sub(runStart)
			r.printSummary(res)
			return res, err
		}
		item := r.process(ctx, i+1, len(refs), raw)
		switch item.Outcome {
		case report.OutcomeSuccess:
			res.Counts.Success++
		case report.OutcomeNoTemplate:
			res.Counts.NoTemplate++
		default:
			res.Counts.Errors++
		}
		res.Items = append(res.Items, item)
	}

	res.Elapsed = r.now().Sub(runStart)
	r.printSummary(res)
	return res, nil
}

func (r *Runner) process(ctx context.Context, index, total int, raw string) report.Item {
	itemStart := r.now()
	elapsed := func() int64 { return r.now().Sub(itemStart).Milliseconds() }

	target, err := r.resolver.Resolve(ctx, raw)
	fmt.Fprintf(r.out, "[%d/%d] %s\n", index, total, label(target))

	item := report.Item{
		Index:      index,
		Source:     target.Source,
		URL:        target.URL,
		TemplateID: target.TemplateID,
		Title:      target.Title,
	}

	if err != nil {
		capturelog.Scope(r.events, "resolve").Warn("resolution failed", "reference", raw, "error", err.Error())
		return r.fail(item, err, elapsed())
	}

	if !target.Found() {
		if logErr := r.log.RecordNoTemplate(target.Source); logErr != nil {
			capturelog.Scope(r.events, "runner").Error("write capture log", "error", logErr.Error())
		}
		item.Outcome = report.OutcomeNoTemplate
		item.ElapsedMS = elapsed()
		fmt.Fprintf(r.out, "  status: no-template (%dms)\n", item.ElapsedMS)
		capturelog.Scope(r.events, "resolve").Info("no template found", "reference", raw)
		return item
	}

	capturelog.Scope(r.events, "resolve").Info("resolved", "reference", raw, "url", target.URL, "template_id", target.TemplateID)

	capture, err := r.capturer.Capture(ctx, target)
	item.Steps = stepRecords(capture.Steps)
	if err != nil {
		return r.fail(item, err, elapsed())
	}

	if logErr := r.log.RecordFile(target.Source, capture.File); logErr != nil {
		capturelog.Scope(r.events, "runner").Error("write capture log", "error", logErr.Error())
	}
	item.Outcome = report.OutcomeSuccess
	item.File = capture.File
	item.ElapsedMS = elapsed()
	fmt.Fprintf(r.out, "  status: success (%dms)\n", item.ElapsedMS)
	return item
}

func (r *Runner) fail(item report.Item, err error, elapsedMS int64) report.Item {
	if logErr := r.log.RecordError(item.Source, err); logErr != nil {
		capturelog.Scope(r.events, "runner").Error("write capture log", "error", logErr.Error())
	}
	item.Outcome = report.OutcomeError
	item.Error = err.Error()
	item.ElapsedMS = elapsedMS
	fmt.Fprintf(r.out, "  status: error (%dms) %s\n", elapsedMS, err)
	capturelog.Scope(r.events, "runner").Warn("item failed", "source", item.Source, "error", err.Error())
	return item
}

func (r *Runner) printSummary(res Result) {
	fmt.Fprintf(r.out, "Summary: %d success, %d no-template, %d errors, %dms total\n",
		res.Counts.Success, res.Counts.NoTemplate, res.Counts.Errors, res.Elapsed.Milliseconds())
}

// label names an item in progress output.
func label(t resolver.Target) string {
	switch {
	case t.Title != "":
		return t.Title
	case t.Source != "":
		return t.Source
	default:
		return "unknown"
	}
}

func stepRecords(steps []StepResult) []report.Step {
	if len(steps) == 0 {
		return nil
	}
	out := make([]report.Step, 0, len(steps))
	for _, st := range steps {
		rec := report.Step{Name: st.Name, Status: st.Status.String()}
		if st.Err != nil {
			rec.Error = st.Err.Error()
		}
		out = append(out, rec)
	}
	return out
}
