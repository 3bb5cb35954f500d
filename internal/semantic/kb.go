// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package semantic

import (
	_ "embed"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed kb.yaml
var kbRaw []byte

// Entry holds the tiered expansion lists for one knowledge-base term.
type Entry struct {
	Tier1 []string `yaml:"tier1"`
	Tier2 []string `yaml:"tier2"`
	Tier3 []string `yaml:"tier3"`
}

// kbFile is the on-disk shape of the embedded knowledge base.
type kbFile struct {
	Terms map[string]Entry `yaml:"terms"`
}

// kb is the term knowledge base, parsed once at process start from the
// embedded YAML and treated as read-only afterwards.
var kb = mustParseKB(kbRaw)

func mustParseKB(raw []byte) map[string]Entry {
	var f kbFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		panic(fmt.Sprintf("semantic: malformed embedded knowledge base: %v", err))
	}
	terms := make(map[string]Entry, len(f.Terms))
	for k, v := range f.Terms {
		terms[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return terms
}

// stopWords are filtered out during tokenization. Taken from common
// academic query noise; short tokens survive only when the knowledge
// base knows them as abbreviations.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "that": {},
	"the": {}, "to": {}, "was": {}, "will": {}, "with": {}, "using": {},
	"based": {}, "approach": {}, "method": {},
}
