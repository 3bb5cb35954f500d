// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-scout/internal/summarize"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage local Ollama models",
	Long: `Models talks to the local Ollama server: list installed models or pull
one before summarizing with it.`,
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models installed on the Ollama server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := summarize.NewClient(loadPipelineConfig().Summary)
		models, err := client.ListModels(cmd.Context())
		if err != nil {
			return err
		}
		if len(models) == 0 {
			fmt.Println("No models installed.")
			return nil
		}
		for _, m := range models {
			fmt.Println(m)
		}
		return nil
	},
}

var modelsPullCmd = &cobra.Command{
	Use:   "pull [model]",
	Short: "Pull a model onto the Ollama server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("provide exactly one model name")
		}
		name := args[0]

		client := summarize.NewClient(loadPipelineConfig().Summary)

		ok, err := client.HasModel(cmd.Context(), name)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("model %s already installed\n", name)
			return nil
		}

		fmt.Printf("pulling %s...\n", name)
		if err := client.Pull(cmd.Context(), name); err != nil {
			return err
		}
		fmt.Printf("pulled %s\n", name)
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsPullCmd)
	rootCmd.AddCommand(modelsCmd)
}
