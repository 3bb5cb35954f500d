// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize builds summary prompts and talks to the local LLM.
package summarize

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// ErrEmptyContent means there is nothing to summarize: the content was
// empty or whitespace-only.
var ErrEmptyContent = errors.New("content is empty")

// ErrUnknownSummaryType means the requested summary type is not one of
// the recognized templates. This is a configuration error and surfaces
// before any model call.
var ErrUnknownSummaryType = errors.New("unknown summary type")

// truncationMarker is appended when content exceeds the budget.
const truncationMarker = "\n\n[content truncated]"

// promptTmpl renders the instruction, the paper title, and the (possibly
// truncated) content into the final prompt.
var promptTmpl = template.Must(template.New("summary").Parse(`{{.Instruction}}

Text to summarize:

Title: {{.Title}}

{{.Content}}`))

// instructions holds the per-type prompt instruction. The set is fixed;
// anything else is a configuration error.
var instructions = map[types.SummaryType]string{
	types.SummaryGeneral: `Summarize this academic paper in approximately 200-300 words. Focus on:
1. The main research question or problem
2. The approach or methodology used
3. Key findings or results
4. Significance and implications`,

	types.SummaryKeyFindings: `Extract and summarize the key findings from this academic paper. Focus only on:
1. Main results and discoveries
2. Important data or evidence presented
3. Conclusions drawn by the authors`,

	types.SummaryMethods: `Summarize the methodology and approach used in this academic paper. Focus on:
1. Research methods employed
2. Experimental design or theoretical approach
3. Data sources and analysis techniques
4. Any novel methodological contributions`,

	types.SummaryImplications: `Analyze the implications and significance of this academic paper. Focus on:
1. Broader impact on the field
2. Practical applications
3. Future research directions suggested
4. How this work advances current knowledge`,
}

// Request is a fully rendered summarization request, ready for the model.
type Request struct {
	// Prompt is the rendered instruction plus content.
	Prompt string

	// Model is the target model identifier.
	Model string

	// Type records which template was used.
	Type types.SummaryType

	// Truncated reports whether the content was cut to the budget.
	Truncated bool
}

// BuildRequest renders the prompt for one paper. Content longer than
// maxChars keeps its leading portion and gains a truncation marker, so
// the result is deterministic and bounded. An unknown summary type fails
// with ErrUnknownSummaryType; empty or whitespace-only content fails
// with ErrEmptyContent. Both checks run before any model call.
func BuildRequest(title, content string, st types.SummaryType, model string, maxChars int) (Request, error) {
	instruction, ok := instructions[st]
	if !ok {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownSummaryType, st)
	}
	if strings.TrimSpace(content) == "" {
		return Request{}, ErrEmptyContent
	}

	truncated := false
	if maxChars > 0 && len(content) > maxChars {
		content = content[:maxChars] + truncationMarker
		truncated = true
	}

	var buf bytes.Buffer
	data := struct {
		Instruction string
		Title       string
		Content     string
	}{
		Instruction: instruction,
		Title:       title,
		Content:     content,
	}
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return Request{}, fmt.Errorf("rendering prompt: %w", err)
	}

	return Request{
		Prompt:    buf.String(),
		Model:     model,
		Type:      st,
		Truncated: truncated,
	}, nil
}
