// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-scout/internal/arxiv"
	"github.com/pdiddy/paper-scout/internal/library"
	"github.com/pdiddy/paper-scout/internal/output"
	"github.com/pdiddy/paper-scout/internal/pdftext"
	"github.com/pdiddy/paper-scout/internal/pipeline"
	"github.com/pdiddy/paper-scout/internal/semantic"
	"github.com/pdiddy/paper-scout/internal/summarize"
	"github.com/pdiddy/paper-scout/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search arXiv, rank results, and optionally summarize them",
	Long: `Search queries arXiv for papers matching the query, ranks candidates by
weighted term relevance, and prints the top results. With --semantic the
query is first expanded with domain synonyms; with --full-text each paper's
PDF is downloaded and its text extracted (falling back to the abstract when
that fails); with --summarize each paper is summarized by a local Ollama
model. Finished summaries are saved to the library and reused on later runs.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("category", "", "arXiv category filter (e.g. cs.LG)")
	searchCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	searchCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (default 10)")
	searchCmd.Flags().Bool("semantic", false, "expand the query with domain synonyms")
	searchCmd.Flags().String("mode", "moderate", "expansion breadth: conservative, moderate, or aggressive")
	searchCmd.Flags().Bool("full-text", false, "download PDFs and summarize from full text")
	searchCmd.Flags().Bool("summarize", false, "summarize each paper with the local model")
	searchCmd.Flags().String("summary-type", "general", "summary style: general, key_findings, methods, or implications")
	searchCmd.Flags().String("model", "", "Ollama model (default from config)")
	searchCmd.Flags().String("output", "console", "output format: console, markdown, or json")
	searchCmd.Flags().String("output-file", "", "write output to a file instead of stdout")
	searchCmd.Flags().String("download-dir", "", "directory for downloaded PDFs (default: per-run temp dir)")
	searchCmd.Flags().Bool("cleanup", false, "delete each paper's PDF after summarization")
	searchCmd.Flags().Bool("no-library", false, "skip library lookup and save")
	searchCmd.Flags().Bool("progress", false, "show a progress bar on stderr")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}
	queryText := strings.Join(args, " ")

	cfg := loadPipelineConfig()

	category, _ := cmd.Flags().GetString("category")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	q := types.Query{Text: queryText, Category: category}
	if err := parseDateRange(&q, from, to); err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}

	opts, err := searchOptions(cmd, cfg)
	if err != nil {
		return err
	}

	formatStr, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	if dir, _ := cmd.Flags().GetString("download-dir"); dir != "" {
		cfg.PDF.DownloadDir = dir
	}

	orch := &pipeline.Orchestrator{
		Index:    arxiv.New(cfg.Search),
		Expander: semantic.New(cfg.Expansion),
		Cfg:      cfg,
		Progress: os.Stderr,
	}

	if opts.FullText {
		resolver, err := pdftext.NewResolver(cfg.PDF)
		if err != nil {
			return err
		}
		orch.Text = resolver
	}

	if opts.Summarize {
		orch.LLM = summarize.NewClient(cfg.Summary)

		if noLibrary, _ := cmd.Flags().GetBool("no-library"); !noLibrary {
			store, err := library.Open(cfg.Library)
			if err != nil {
				return err
			}
			defer store.Close()
			orch.Cache = store
		}
	}

	if showProgress, _ := cmd.Flags().GetBool("progress"); showProgress {
		var bar *progressbar.ProgressBar
		orch.Progress = nil
		orch.OnPaper = func(i, n int, r types.PaperResult) {
			if bar == nil {
				bar = progressbar.NewOptions(n,
					progressbar.OptionSetDescription("papers"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
				)
			}
			bar.Add(1)
		}
	}

	// Ctrl-C stops between papers; finished results are still printed.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, runErr := orch.Run(ctx, q, opts)
	if runErr != nil && len(results) == 0 {
		return runErr
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "warning: run stopped early: %v\n", runErr)
	}

	out := os.Stdout
	if outFile, _ := cmd.Flags().GetString("output-file"); outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return output.Render(out, format, queryText, results)
}

func searchOptions(cmd *cobra.Command, cfg types.PipelineConfig) (pipeline.Options, error) {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = cfg.Search.MaxResults
	}

	opts := pipeline.Options{MaxResults: maxResults}

	opts.SemanticSearch, _ = cmd.Flags().GetBool("semantic")
	if opts.SemanticSearch {
		modeStr, _ := cmd.Flags().GetString("mode")
		mode, err := types.ParseExpansionMode(modeStr)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Mode = mode
	}

	opts.FullText, _ = cmd.Flags().GetBool("full-text")
	opts.Cleanup, _ = cmd.Flags().GetBool("cleanup")

	opts.Summarize, _ = cmd.Flags().GetBool("summarize")
	if opts.Summarize {
		typeStr, _ := cmd.Flags().GetString("summary-type")
		st, err := types.ParseSummaryType(typeStr)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.SummaryType = st

		opts.Model, _ = cmd.Flags().GetString("model")
		if opts.Model == "" {
			opts.Model = cfg.Summary.Model
		}
	}

	return opts, nil
}
