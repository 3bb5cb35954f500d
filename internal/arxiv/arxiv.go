// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv queries the arXiv export API and returns candidate papers.
// The client is thin plumbing: query in, candidates out. Relevance
// pre-filtering belongs to the index; re-ranking belongs to the caller.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

// ErrUnavailable wraps any index failure: network errors, non-200
// responses, and malformed feeds. The whole run fails when the index
// does — there is nothing to rank without candidates.
var ErrUnavailable = errors.New("search index unavailable")

// Client queries the arXiv API.
type Client struct {
	HTTP *http.Client
	Cfg  types.SearchConfig
}

// New returns a Client with a timeout-bounded HTTP client.
func New(cfg types.SearchConfig) *Client {
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		Cfg:  cfg,
	}
}

// Search queries arXiv with the raw query text plus the category filter
// and applies the date range client-side (the export API has no direct
// date parameter). Candidates come back in the index's relevance order.
func (c *Client) Search(ctx context.Context, q types.Query, limit int) ([]types.Candidate, error) {
	if limit <= 0 {
		limit = 20
	}

	searchQuery := buildQuery(q)
	if searchQuery == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	// The query uses "+" as the API's term separator, so it is built
	// pre-encoded rather than passed through url.Values.
	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		apiBase, searchQuery, limit)

	feed, err := c.fetchFeed(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var candidates []types.Candidate
	for _, entry := range feed.Entries {
		cand, ok := entryToCandidate(entry)
		if !ok {
			continue
		}
		if !inDateRange(cand.Published, q.DateFrom, q.DateTo) {
			continue
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// FetchByID retrieves a single paper by its arXiv identifier.
func (c *Client) FetchByID(ctx context.Context, id string) (types.Candidate, error) {
	reqURL := fmt.Sprintf("%s?id_list=%s&max_results=1", apiBase, url.QueryEscape(id))

	feed, err := c.fetchFeed(ctx, reqURL)
	if err != nil {
		return types.Candidate{}, err
	}
	for _, entry := range feed.Entries {
		if cand, ok := entryToCandidate(entry); ok {
			return cand, nil
		}
	}
	return types.Candidate{}, fmt.Errorf("paper %q not found", id)
}

func (c *Client) fetchFeed(ctx context.Context, reqURL string) (*feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: arXiv API returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: parsing arXiv response: %v", ErrUnavailable, err)
	}
	return &f, nil
}

// buildQuery constructs the search_query parameter from the query text
// and optional category filter.
func buildQuery(q types.Query) string {
	var parts []string
	if q.Category != "" {
		parts = append(parts, "cat:"+q.Category)
	}
	if q.Text != "" {
		terms := strings.Fields(q.Text)
		parts = append(parts, "all:"+strings.Join(terms, "+"))
	}
	return strings.Join(parts, "+AND+")
}

func inDateRange(published, from, to time.Time) bool {
	if published.IsZero() {
		return from.IsZero() && to.IsZero()
	}
	if !from.IsZero() && published.Before(from) {
		return false
	}
	if !to.IsZero() && published.After(to.Add(24*time.Hour)) {
		return false
	}
	return true
}

func entryToCandidate(entry feedEntry) (types.Candidate, bool) {
	id := extractID(entry.ID)
	if id == "" {
		return types.Candidate{}, false
	}

	cand := types.Candidate{
		ID:       id,
		Title:    collapseWhitespace(entry.Title),
		Abstract: collapseWhitespace(entry.Summary),
	}

	for _, a := range entry.Authors {
		cand.Authors = append(cand.Authors, strings.TrimSpace(a.Name))
	}
	for _, cat := range entry.Categories {
		if cat.Term != "" {
			cand.Categories = append(cand.Categories, cat.Term)
		}
	}
	for _, l := range entry.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			cand.PDFURL = l.Href
		}
	}
	if cand.PDFURL == "" {
		cand.PDFURL = "https://arxiv.org/pdf/" + id
	}

	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		cand.Published = t
	}
	return cand, true
}

// collapseWhitespace trims the field and folds the feed's hard line
// breaks into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// arXiv Atom feed XML structures.
type feed struct {
	Entries []feedEntry `xml:"entry"`
}

type feedEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []feedAuthor   `xml:"author"`
	Categories []feedCategory `xml:"category"`
	Links      []feedLink     `xml:"link"`
}

type feedAuthor struct {
	Name string `xml:"name"`
}

type feedCategory struct {
	Term string `xml:"term,attr"`
}

type feedLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// extractID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
