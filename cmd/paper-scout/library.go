// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-scout/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse previously summarized papers",
	Long: `Library manages the local store of finished results. Use subcommands to
search stored summaries with full-text search or list recent entries.`,
}

var librarySearchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Full-text search over stored titles, abstracts, and summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("provide a search query")
		}

		store, err := library.Open(loadPipelineConfig().Library)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := store.Query(cmd.Context(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}

		jsonOut, _ := cmd.Flags().GetBool("json")
		return printEntries(entries, jsonOut)
	},
}

var libraryRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently saved results",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := library.Open(loadPipelineConfig().Library)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		jsonOut, _ := cmd.Flags().GetBool("json")
		return printEntries(entries, jsonOut)
	},
}

func printEntries(entries []library.Entry, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	for i, e := range entries {
		fmt.Printf("%d. %s\n", i+1, e.Title)
		fmt.Printf("   id: %s  type: %s  model: %s  saved: %s\n",
			e.ID, e.SummaryType, e.Model, e.SavedAt.Format("2006-01-02"))
		if e.Summary != "" {
			summary := e.Summary
			if len(summary) > 300 {
				summary = summary[:297] + "..."
			}
			fmt.Printf("   %s\n", summary)
		}
		fmt.Println()
	}
	fmt.Printf("%d entries\n", len(entries))
	return nil
}

func init() {
	libraryCmd.PersistentFlags().Int("limit", 0, "maximum entries (0 = use default)")
	libraryCmd.PersistentFlags().Bool("json", false, "output entries as JSON")

	libraryCmd.AddCommand(librarySearchCmd)
	libraryCmd.AddCommand(libraryRecentCmd)
	rootCmd.AddCommand(libraryCmd)
}
