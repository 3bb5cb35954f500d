// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the index search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the number of papers kept after ranking (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PoolMultiplier controls how many candidates are fetched from the
	// index relative to MaxResults, so ranking has material to reorder
	// (default 3).
	PoolMultiplier int `json:"pool_multiplier" yaml:"pool_multiplier"`
}

// ExpansionConfig holds the tier weights for query expansion. The exact
// values are policy defaults, not protocol constants, and can be overridden
// from the config file.
type ExpansionConfig struct {
	// OriginalWeight is assigned to terms taken from the raw query (default 1.0).
	OriginalWeight float64 `json:"original_weight" yaml:"original_weight"`

	// Tier1Weight is assigned to direct synonyms and abbreviations (default 0.7).
	Tier1Weight float64 `json:"tier1_weight" yaml:"tier1_weight"`

	// Tier2Weight is assigned to common related terms (default 0.4).
	Tier2Weight float64 `json:"tier2_weight" yaml:"tier2_weight"`

	// Tier3Weight is assigned to broader domain concepts (default 0.2).
	Tier3Weight float64 `json:"tier3_weight" yaml:"tier3_weight"`

	// Tier3Cap limits tier-3 additions per original term (default 5).
	Tier3Cap int `json:"tier3_cap" yaml:"tier3_cap"`
}

// DefaultExpansionConfig returns the standard tier weights.
func DefaultExpansionConfig() ExpansionConfig {
	return ExpansionConfig{
		OriginalWeight: 1.0,
		Tier1Weight:    0.7,
		Tier2Weight:    0.4,
		Tier3Weight:    0.2,
		Tier3Cap:       5,
	}
}

// PDFConfig holds settings for PDF download and text extraction.
type PDFConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDir is where PDFs are stored. Empty means a per-run
	// directory under the system temp dir.
	DownloadDir string `json:"download_dir" yaml:"download_dir"`
}

// SummaryConfig holds settings for the summarization stage.
type SummaryConfig struct {
	// OllamaURL is the base URL of the local Ollama server
	// (default "http://localhost:11434").
	OllamaURL string `json:"ollama_url" yaml:"ollama_url"`

	// Model is the Ollama model identifier (default "llama3.2:3b").
	Model string `json:"model" yaml:"model"`

	// MaxContentChars bounds the content passed to the model; longer
	// content is truncated with a marker (default 8000).
	MaxContentChars int `json:"max_content_chars" yaml:"max_content_chars"`

	// MaxTokens bounds the generated summary length (default 300).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// TopP is the nucleus sampling parameter (default 0.9).
	TopP float64 `json:"top_p" yaml:"top_p"`

	// Timeout bounds a single generation call (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultSummaryConfig returns the standard summarization settings.
func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{
		OllamaURL:       "http://localhost:11434",
		Model:           "llama3.2:3b",
		MaxContentChars: 8000,
		MaxTokens:       300,
		Temperature:     0.7,
		TopP:            0.9,
		Timeout:         120 * time.Second,
	}
}

// LibraryConfig holds settings for the local result store.
type LibraryConfig struct {
	// Dir is the directory holding the SQLite database (default "library").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Expansion ExpansionConfig `json:"expansion" yaml:"expansion"`
	PDF       PDFConfig       `json:"pdf" yaml:"pdf"`
	Summary   SummaryConfig   `json:"summary" yaml:"summary"`
	Library   LibraryConfig   `json:"library" yaml:"library"`
}
