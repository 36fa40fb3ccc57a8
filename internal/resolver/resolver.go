package resolver

import (
	"context"
)

// Target is the outcome of resolving one reference.
type Target struct {
	Source     string // label recorded in the capture log
	URL        string // empty when nothing was found
	TemplateID string
	Title      string
}

// Found reports whether the reference resolved to a navigable URL.
func (t Target) Found() bool {
	return t.URL != ""
}

// Searcher looks up the first template ID matching a search term.
type Searcher interface {
	FirstID(ctx context.Context, term string) (string, error)
}

// Resolver maps references to template URLs.
type Resolver struct {
	demoBase string
	searcher Searcher
}

// New returns a Resolver building URLs from demoBase and using searcher for
// free-text references.
func New(demoBase string, searcher Searcher) *Resolver {
	return &Resolver{demoBase: demoBase, searcher: searcher}
}

// Resolve resolves one raw input line. A reference that matches nothing
// returns a Target whose Found method reports false and a nil error; an
// error is returned only when the search lookup itself fails.
func (r *Resolver) Resolve(ctx context.Context, raw string) (Target, error) {
	ref := ParseReference(raw)

	switch ref.Kind {
	case KindURL:
		return Target{
			Source:     ref.Value,
			URL:        ref.Value,
			TemplateID: TemplateIDFromURL(ref.Value, ""),
			Title:      ref.Title,
		}, nil

	case KindID:
		if ref.Value == "" {
			return Target{Title: ref.Title}, nil
		}
		return r.target(ref.Value, ref.Value, ref.Title), nil

	case KindSearch:
		title := ref.Title
		if title == "" {
			title = ref.Value
		}
		id, err := r.searcher.FirstID(ctx, ref.Value)
		if err != nil {
			return Target{Source: ref.Value, Title: title}, err
		}
		if id == "" {
			return Target{Source: ref.Value, Title: title}, nil
		}
		return r.target(ref.Value, id, title), nil

	default:
		return Target{Title: ref.Title}, nil
	}
}

func (r *Resolver) target(source, id, title string) Target {
	u := r.demoBase + id
	return Target{
		Source:     source,
		URL:        u,
		TemplateID: TemplateIDFromURL(u, id),
		Title:      title,
	}
}
