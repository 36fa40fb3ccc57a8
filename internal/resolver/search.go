package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// SearchClient queries the community search API for templates.
type SearchClient struct {
	endpoint string
	langCode string
	client   *http.Client
	limiter  *rate.Limiter
}

// SearchOption configures a SearchClient.
type SearchOption func(*SearchClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) SearchOption {
	return func(s *SearchClient) { s.client = c }
}

// WithRateLimit limits search calls to perSecond requests per second.
// A non-positive value disables throttling.
func WithRateLimit(perSecond float64) SearchOption {
	return func(s *SearchClient) {
		if perSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLangCode sets the langCode query parameter.
func WithLangCode(code string) SearchOption {
	return func(s *SearchClient) { s.langCode = code }
}

// NewSearchClient returns a client for the search endpoint.
func NewSearchClient(endpoint string, opts ...SearchOption) *SearchClient {
	s := &SearchClient{
		endpoint: endpoint,
		langCode: "en",
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type searchResponse struct {
	Diagrams []struct {
		ID templateID `json:"id"`
	} `json:"diagrams"`
}

// templateID accepts both string and numeric IDs.
type templateID string

func (t *templateID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = templateID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = templateID(n.String())
	return nil
}

// FirstID returns the ID of the first template matching term, or an empty
// string when the search has no results.
func (s *SearchClient) FirstID(ctx context.Context, term string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSearch, err)
	}

	query, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: parse endpoint: %w", ErrSearch, err)
	}
	params := query.Query()
	params.Set("limit", strconv.Itoa(1))
	params.Set("offset", strconv.Itoa(0))
	params.Set("langCode", s.langCode)
	params.Set("term", term)
	query.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, query.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSearch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSearch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{StatusCode: resp.StatusCode, Term: term}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrSearch, err)
	}
	if len(body.Diagrams) == 0 {
		return "", nil
	}
	return string(body.Diagrams[0].ID), nil
}
