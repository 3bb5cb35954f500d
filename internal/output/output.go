// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders finished paper results for the console, as a
// Markdown report, or as machine-readable JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// Format selects a rendering of the result set.
type Format string

const (
	FormatConsole  Format = "console"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a format string from CLI or config input.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatConsole, FormatMarkdown, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("invalid output format %q (want console, markdown, or json)", s)
}

// Render writes results to w in the given format.
func Render(w io.Writer, format Format, query string, results []types.PaperResult) error {
	switch format {
	case FormatConsole:
		RenderConsole(w, results)
		return nil
	case FormatMarkdown:
		RenderMarkdown(w, query, results)
		return nil
	case FormatJSON:
		return RenderJSON(w, results)
	}
	return fmt.Errorf("invalid output format %q", format)
}

// RenderConsole writes a human-readable report: a numbered block per
// paper with score, metadata, matched terms, and the summary or
// abstract.
func RenderConsole(w io.Writer, results []types.PaperResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	for i, r := range results {
		fmt.Fprintf(w, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(w, "   id: %s  score: %.2f", r.ID, r.Score)
		if !r.Published.IsZero() {
			fmt.Fprintf(w, "  published: %s", r.Published.Format("2006-01-02"))
		}
		fmt.Fprintln(w)
		if len(r.Authors) > 0 {
			fmt.Fprintf(w, "   authors: %s\n", formatAuthors(r.Authors))
		}
		if len(r.MatchedTerms) > 0 {
			fmt.Fprintf(w, "   matched: %s\n", strings.Join(r.MatchedTerms, ", "))
		}
		if r.Summary != "" {
			fmt.Fprintf(w, "   summary (%s):\n%s\n", sourceLabel(r.ContentSource), indent(r.Summary, "      "))
		} else if r.Abstract != "" {
			fmt.Fprintf(w, "   abstract:\n%s\n", indent(snippet(r.Abstract, 400), "      "))
		}
		if r.Error != "" {
			fmt.Fprintf(w, "   warning: %s\n", r.Error)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d results\n", len(results))
}

// RenderMarkdown writes a self-contained Markdown report.
func RenderMarkdown(w io.Writer, query string, results []types.PaperResult) {
	fmt.Fprintf(w, "# Paper scout results\n\n")
	fmt.Fprintf(w, "Query: `%s`  \nGenerated: %s  \nResults: %d\n\n",
		query, time.Now().Format("2006-01-02"), len(results))

	for i, r := range results {
		fmt.Fprintf(w, "## %d. %s\n\n", i+1, r.Title)
		fmt.Fprintf(w, "- **arXiv ID**: [%s](https://arxiv.org/abs/%s)\n", r.ID, r.ID)
		if len(r.Authors) > 0 {
			fmt.Fprintf(w, "- **Authors**: %s\n", strings.Join(r.Authors, ", "))
		}
		if !r.Published.IsZero() {
			fmt.Fprintf(w, "- **Published**: %s\n", r.Published.Format("2006-01-02"))
		}
		if len(r.Categories) > 0 {
			fmt.Fprintf(w, "- **Categories**: %s\n", strings.Join(r.Categories, ", "))
		}
		fmt.Fprintf(w, "- **Relevance score**: %.2f\n", r.Score)
		if len(r.MatchedTerms) > 0 {
			fmt.Fprintf(w, "- **Matched terms**: %s\n", strings.Join(r.MatchedTerms, ", "))
		}
		fmt.Fprintln(w)

		if r.Summary != "" {
			fmt.Fprintf(w, "### Summary (%s)\n\n%s\n\n", sourceLabel(r.ContentSource), r.Summary)
		}
		if r.Abstract != "" {
			fmt.Fprintf(w, "### Abstract\n\n%s\n\n", r.Abstract)
		}
		if r.Error != "" {
			fmt.Fprintf(w, "> Warning: %s\n\n", r.Error)
		}
	}
}

// RenderJSON writes results as indented JSON to w.
func RenderJSON(w io.Writer, results []types.PaperResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func sourceLabel(src types.ContentSource) string {
	if src == types.SourceFullText {
		return "from full text"
	}
	return "from abstract"
}

func formatAuthors(authors []string) string {
	if len(authors) <= 3 {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:3], ", ") + " et al."
}

func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
