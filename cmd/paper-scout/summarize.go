// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-scout/internal/arxiv"
	"github.com/pdiddy/paper-scout/internal/pdftext"
	"github.com/pdiddy/paper-scout/internal/summarize"
	"github.com/pdiddy/paper-scout/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [arxiv-id]",
	Short: "Summarize a single paper by arXiv ID",
	Long: `Summarize fetches one paper's metadata from arXiv and produces a summary
with the local Ollama model. With --full-text the PDF is downloaded and its
text used as the summary input; otherwise the abstract is used.`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().Bool("full-text", false, "summarize from PDF full text instead of the abstract")
	summarizeCmd.Flags().String("summary-type", "general", "summary style: general, key_findings, methods, or implications")
	summarizeCmd.Flags().String("model", "", "Ollama model (default from config)")
	summarizeCmd.Flags().Bool("cleanup", false, "delete the downloaded PDF afterwards")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one arXiv ID")
	}
	id := args[0]

	typeStr, _ := cmd.Flags().GetString("summary-type")
	st, err := types.ParseSummaryType(typeStr)
	if err != nil {
		return err
	}

	cfg := loadPipelineConfig()

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = cfg.Summary.Model
	}

	ctx := cmd.Context()

	cand, err := arxiv.New(cfg.Search).FetchByID(ctx, id)
	if err != nil {
		return err
	}

	content := cand.Abstract
	source := types.SourceAbstract

	if fullText, _ := cmd.Flags().GetBool("full-text"); fullText {
		resolver, err := pdftext.NewResolver(cfg.PDF)
		if err != nil {
			return err
		}
		if doCleanup, _ := cmd.Flags().GetBool("cleanup"); doCleanup {
			defer resolver.Remove(cand.ID)
		}

		text, err := resolver.FullText(ctx, cand)
		if err != nil {
			fmt.Fprintf(os.Stderr, "full text unavailable, using abstract: %v\n", err)
		} else {
			content = text
			source = types.SourceFullText
		}
	}

	req, err := summarize.BuildRequest(cand.Title, content, st, model, cfg.Summary.MaxContentChars)
	if err != nil {
		return err
	}

	summary, err := summarize.NewClient(cfg.Summary).Generate(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n%s\n\n", cand.Title, cand.ID)
	if source == types.SourceFullText {
		fmt.Println("Summary (from full text):")
	} else {
		fmt.Println("Summary (from abstract):")
	}
	fmt.Println(summary)
	return nil
}
