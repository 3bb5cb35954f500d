// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/paper-scout/pkg/types"
)

func TestBuildRequestRendersPrompt(t *testing.T) {
	req, err := BuildRequest("A Great Paper", "We prove things.", types.SummaryGeneral, "llama3.2:3b", 8000)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}

	if req.Model != "llama3.2:3b" {
		t.Errorf("Model = %q", req.Model)
	}
	if req.Type != types.SummaryGeneral {
		t.Errorf("Type = %q", req.Type)
	}
	if req.Truncated {
		t.Error("short content reported as truncated")
	}
	for _, want := range []string{"Title: A Great Paper", "We prove things.", "research question"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, req.Prompt)
		}
	}
}

func TestBuildRequestPerTypeInstructions(t *testing.T) {
	tests := []struct {
		st   types.SummaryType
		want string
	}{
		{types.SummaryGeneral, "main research question"},
		{types.SummaryKeyFindings, "key findings"},
		{types.SummaryMethods, "methodology"},
		{types.SummaryImplications, "implications"},
	}
	for _, tt := range tests {
		t.Run(string(tt.st), func(t *testing.T) {
			req, err := BuildRequest("T", "content", tt.st, "m", 0)
			if err != nil {
				t.Fatalf("BuildRequest: %v", err)
			}
			if !strings.Contains(req.Prompt, tt.want) {
				t.Errorf("prompt for %s missing %q", tt.st, tt.want)
			}
		})
	}
}

func TestBuildRequestUnknownType(t *testing.T) {
	_, err := BuildRequest("T", "content", types.SummaryType("bogus"), "m", 0)
	if !errors.Is(err, ErrUnknownSummaryType) {
		t.Errorf("err = %v, want ErrUnknownSummaryType", err)
	}
}

func TestBuildRequestEmptyContent(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t "} {
		_, err := BuildRequest("T", content, types.SummaryGeneral, "m", 0)
		if !errors.Is(err, ErrEmptyContent) {
			t.Errorf("content %q: err = %v, want ErrEmptyContent", content, err)
		}
	}
}

func TestBuildRequestTruncation(t *testing.T) {
	long := strings.Repeat("abcdefghij", 100)
	req, err := BuildRequest("T", long, types.SummaryGeneral, "m", 50)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if !req.Truncated {
		t.Error("long content not reported as truncated")
	}
	if !strings.Contains(req.Prompt, long[:50]+truncationMarker) {
		t.Error("prompt does not keep the leading portion plus marker")
	}
	if strings.Contains(req.Prompt, long[:51]) {
		t.Error("prompt contains content beyond the budget")
	}

	// Deterministic: same inputs, same prompt.
	again, err := BuildRequest("T", long, types.SummaryGeneral, "m", 50)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req.Prompt != again.Prompt {
		t.Error("truncation not deterministic")
	}
}
