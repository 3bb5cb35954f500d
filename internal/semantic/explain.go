// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package semantic

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// FormatReport writes a human-readable rendering of an expansion report.
func FormatReport(w io.Writer, r types.ExplanationReport) {
	fmt.Fprintf(w, "Query: %q\n", r.Query)
	fmt.Fprintf(w, "Mode:  %s\n", r.Mode)
	fmt.Fprintf(w, "Terms: %s\n", strings.Join(r.Original, ", "))

	if len(r.Additions) == 0 {
		fmt.Fprintln(w, "\nNo expansions found.")
		return
	}

	for _, a := range r.Additions {
		fmt.Fprintf(w, "\n%s\n", a.Term)
		writeTier(w, "tier 1 (synonyms)", a.Tier1)
		writeTier(w, "tier 2 (related)", a.Tier2)
		writeTier(w, "tier 3 (broader)", a.Tier3)
	}
}

func writeTier(w io.Writer, label string, terms []string) {
	if len(terms) == 0 {
		return
	}
	fmt.Fprintf(w, "  %-18s %s\n", label+":", strings.Join(terms, ", "))
}
