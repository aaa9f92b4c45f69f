package cmd

import (
	"context"
	"fmt"

	"github.com/reportflow/reportflow/internal/utils"
	"github.com/reportflow/reportflow/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	workflowsDir string
	workflowName string
	clearCache   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a data-report workflow",
	Long:  `Execute a workflow discovered from the workflows directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := workflow.DefaultRegistry()

		orch, err := workflow.NewOrchestrator(workflowsDir, registry)
		if err != nil {
			return fmt.Errorf("failed to discover workflows: %w", err)
		}

		if clearCache {
			orch.ClearCache(workflowName)
		}

		result, err := orch.Execute(context.Background(), workflowName)
		if err != nil {
			return fmt.Errorf("workflow execution failed: %w", err)
		}

		printResult(result)

		if !result.Succeeded() {
			return fmt.Errorf("workflow %s failed: %s", result.Workflow, result.Message)
		}
		return nil
	},
}

// printResult logs the per-module outcomes and the cache summary of a run
func printResult(result *workflow.ExecutionResult) {
	utils.LogInfo("Workflow %s finished with status %s (%s)",
		result.Workflow, result.Status, result.ExecutionID)

	for name, modResult := range result.Results {
		switch {
		case modResult.Succeeded():
			utils.LogSuccess("  %s: %s", name, modResult.Message)
		default:
			utils.LogWarning("  %s [%s]: %s", name, modResult.Status, modResult.Message)
			for _, e := range modResult.Errors {
				utils.LogVerbose("    %s", e)
			}
		}
	}

	utils.LogInfo("Cache: %d of %d modules served from cache",
		result.Context.CachedModules, result.Context.TotalModules)
}

func init() {
	runCmd.Flags().StringVarP(&workflowsDir, "workflows", "d", "workflows", "Directory containing workflow definition files")
	runCmd.Flags().StringVarP(&workflowName, "workflow", "w", "", "Name of the workflow to run (required)")
	runCmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Clear the workflow's result cache before running")
	_ = runCmd.MarkFlagRequired("workflow")
	rootCmd.AddCommand(runCmd)
}
