package resolver

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultTemplateID names the output file when a URL carries no template ID.
const DefaultTemplateID = "page"

var httpPrefix = regexp.MustCompile(`(?i)^https?://`)

// Kind is the resolution strategy selected for a reference.
type Kind int

const (
	// KindEmpty is a reference with nothing before the title separator.
	KindEmpty Kind = iota
	// KindURL is a literal http(s) URL.
	KindURL
	// KindID is an "id:<value>" reference.
	KindID
	// KindSearch is a free-text search term.
	KindSearch
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindID:
		return "id"
	case KindSearch:
		return "search"
	default:
		return "empty"
	}
}

// Reference is one input line split into its reference and title parts.
type Reference struct {
	Kind  Kind
	Value string // URL, template ID, or search term
	Title string
}

// ParseReference splits raw at the first comma. The left side selects the
// strategy, the right side is the title.
func ParseReference(raw string) Reference {
	trimmed := strings.TrimSpace(raw)
	first, title, _ := strings.Cut(trimmed, ",")
	first = strings.TrimSpace(first)
	ref := Reference{Value: first, Title: strings.TrimSpace(title)}

	switch {
	case first == "":
		ref.Kind = KindEmpty
	case httpPrefix.MatchString(first):
		ref.Kind = KindURL
	case len(first) >= 3 && strings.EqualFold(first[:3], "id:"):
		ref.Kind = KindID
		ref.Value = strings.TrimSpace(first[3:])
	default:
		ref.Kind = KindSearch
	}
	return ref
}

// TemplateIDFromURL extracts the template ID from the tempId or templateId
// query parameter. It falls back to fallback, then to DefaultTemplateID.
// An unparsable URL always yields DefaultTemplateID.
func TemplateIDFromURL(rawURL, fallback string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return DefaultTemplateID
	}
	query := parsed.Query()
	for _, key := range []string{"tempId", "templateId"} {
		if v := query.Get(key); v != "" {
			return v
		}
	}
	if fallback != "" {
		return fallback
	}
	return DefaultTemplateID
}
