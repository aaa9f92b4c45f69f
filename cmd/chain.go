package cmd

import (
	"context"
	"fmt"

	"github.com/reportflow/reportflow/internal/utils"
	"github.com/reportflow/reportflow/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	chainWorkflowsDir string
	chainNames        []string
	stopOnFailure     bool
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Run several workflows in sequence",
	Long: `Execute an ordered list of workflows. Each workflow keeps its own
result cache; with --stop-on-failure the chain halts at the first failed
workflow.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(chainNames) < 2 {
			return fmt.Errorf("chain requires at least two workflow names")
		}

		registry := workflow.DefaultRegistry()
		orch, err := workflow.NewOrchestrator(chainWorkflowsDir, registry)
		if err != nil {
			return fmt.Errorf("failed to discover workflows: %w", err)
		}

		results, err := orch.ExecuteChain(context.Background(), chainNames, stopOnFailure)
		if err != nil {
			return fmt.Errorf("chain execution failed: %w", err)
		}

		failed := 0
		for _, result := range results {
			printResult(result)
			if !result.Succeeded() {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d workflows failed", failed, len(results))
		}
		utils.LogSuccess("Chain of %d workflows completed", len(results))
		return nil
	},
}

func init() {
	chainCmd.Flags().StringVarP(&chainWorkflowsDir, "workflows", "d", "workflows", "Directory containing workflow definition files")
	chainCmd.Flags().StringSliceVarP(&chainNames, "names", "n", nil, "Ordered workflow names to run (required)")
	chainCmd.Flags().BoolVar(&stopOnFailure, "stop-on-failure", true, "Stop the chain at the first failed workflow")
	_ = chainCmd.MarkFlagRequired("names")
	rootCmd.AddCommand(chainCmd)
}
