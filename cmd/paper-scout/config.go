// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/pkg/types"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "paper-scout/0.1"
	defaultLibraryDir = "library"
)

// loadPipelineConfig builds the stage configuration from viper, which has
// already merged the config file and PAPER_SCOUT_* environment variables.
// Flags override individual values at the call sites.
func loadPipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   defaultTimeout,
				UserAgent: defaultUserAgent,
			},
			MaxResults:     10,
			PoolMultiplier: 3,
		},
		Expansion: types.DefaultExpansionConfig(),
		PDF: types.PDFConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   defaultTimeout,
				UserAgent: defaultUserAgent,
			},
		},
		Summary: types.DefaultSummaryConfig(),
		Library: types.LibraryConfig{Dir: defaultLibraryDir},
	}

	if v := viper.GetDuration("search.timeout"); v > 0 {
		cfg.Search.Timeout = v
	}
	if v := viper.GetInt("search.max_results"); v > 0 {
		cfg.Search.MaxResults = v
	}
	if v := viper.GetInt("search.pool_multiplier"); v > 0 {
		cfg.Search.PoolMultiplier = v
	}

	if v := viper.GetFloat64("expansion.original_weight"); v > 0 {
		cfg.Expansion.OriginalWeight = v
	}
	if v := viper.GetFloat64("expansion.tier1_weight"); v > 0 {
		cfg.Expansion.Tier1Weight = v
	}
	if v := viper.GetFloat64("expansion.tier2_weight"); v > 0 {
		cfg.Expansion.Tier2Weight = v
	}
	if v := viper.GetFloat64("expansion.tier3_weight"); v > 0 {
		cfg.Expansion.Tier3Weight = v
	}
	if v := viper.GetInt("expansion.tier3_cap"); v > 0 {
		cfg.Expansion.Tier3Cap = v
	}

	if v := viper.GetString("pdf.download_dir"); v != "" {
		cfg.PDF.DownloadDir = v
	}
	if v := viper.GetDuration("pdf.timeout"); v > 0 {
		cfg.PDF.Timeout = v
	}

	if v := viper.GetString("summary.ollama_url"); v != "" {
		cfg.Summary.OllamaURL = v
	}
	if v := viper.GetString("summary.model"); v != "" {
		cfg.Summary.Model = v
	}
	if v := viper.GetInt("summary.max_content_chars"); v > 0 {
		cfg.Summary.MaxContentChars = v
	}
	if v := viper.GetInt("summary.max_tokens"); v > 0 {
		cfg.Summary.MaxTokens = v
	}
	if v := viper.GetFloat64("summary.temperature"); v > 0 {
		cfg.Summary.Temperature = v
	}
	if v := viper.GetFloat64("summary.top_p"); v > 0 {
		cfg.Summary.TopP = v
	}
	if v := viper.GetDuration("summary.timeout"); v > 0 {
		cfg.Summary.Timeout = v
	}

	if v := viper.GetString("library.dir"); v != "" {
		cfg.Library.Dir = v
	}
	if v := viper.GetInt("library.max_results"); v > 0 {
		cfg.Library.MaxResults = v
	}

	return cfg
}

// parseDateRange parses optional --from/--to flags into the query.
func parseDateRange(q *types.Query, from, to string) error {
	var err error
	if from != "" {
		q.DateFrom, err = time.Parse("2006-01-02", from)
		if err != nil {
			return fmt.Errorf("invalid --from date %q (want YYYY-MM-DD): %w", from, err)
		}
	}
	if to != "" {
		q.DateTo, err = time.Parse("2006-01-02", to)
		if err != nil {
			return fmt.Errorf("invalid --to date %q (want YYYY-MM-DD): %w", to, err)
		}
	}
	return nil
}
