// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-scout CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the paper-scout CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-scout",
	Short: "Search, rank, and summarize academic papers from the command line",
	Long: `paper-scout searches arXiv for papers matching a research question,
expands the query with domain synonyms, ranks candidates by term relevance,
and optionally retrieves PDF full text and produces summaries with a local
Ollama model.

Results can be rendered for the console, as Markdown, or as JSON, and are
stored in a local library so repeated runs reuse finished summaries.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-scout.yaml or ~/.config/paper-scout/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-scout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-scout"))
		}
	}

	viper.SetEnvPrefix("PAPER_SCOUT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
