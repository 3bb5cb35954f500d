// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-scout/internal/semantic"
	"github.com/pdiddy/paper-scout/pkg/types"
)

var explainCmd = &cobra.Command{
	Use:   "explain [query...]",
	Short: "Show how a query would be expanded, without searching",
	Long: `Explain prints the expansion a query would receive at the given mode:
which terms were recognized, and which synonyms each tier contributes.
No network calls are made.`,
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().String("mode", "moderate", "expansion breadth: conservative, moderate, or aggressive")
	explainCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a query to explain")
	}

	modeStr, _ := cmd.Flags().GetString("mode")
	mode, err := types.ParseExpansionMode(modeStr)
	if err != nil {
		return err
	}

	cfg := loadPipelineConfig()
	expander := semantic.New(cfg.Expansion)

	report, err := expander.Explain(types.Query{Text: strings.Join(args, " ")}, mode)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	semantic.FormatReport(os.Stdout, report)
	return nil
}
