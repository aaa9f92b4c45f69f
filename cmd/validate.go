package cmd

import (
	"fmt"
	"sort"

	"github.com/reportflow/reportflow/internal/depgraph"
	"github.com/reportflow/reportflow/internal/utils"
	"github.com/reportflow/reportflow/internal/validator"
	"github.com/reportflow/reportflow/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	validateWorkflowsDir string
	validateConfigsDir   string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate workflow definitions and module dependencies",
	Long: `Discover workflow definitions, report the ones that load, and sweep
the module registry for dependency cycles and unresolvable dependencies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validator.ValidateEnvVars(); err != nil {
			return err
		}
		if err := validator.ValidateDirectories(validateWorkflowsDir, validateConfigsDir); err != nil {
			return err
		}

		registry := workflow.RegistryWithConfigs(validateConfigsDir)

		utils.LogInfo("Discovering workflows in %s...", validateWorkflowsDir)
		orch, err := workflow.NewOrchestrator(validateWorkflowsDir, registry)
		if err != nil {
			return fmt.Errorf("workflow discovery failed: %w", err)
		}
		for _, name := range orch.Workflows() {
			utils.LogSuccess("Workflow %s: OK", name)
		}

		graph := depgraph.New(registry)
		if graph.HasCircularDependencies() {
			return fmt.Errorf("module registry contains circular dependencies")
		}
		utils.LogSuccess("Dependency cycles: none")

		issues := graph.ValidateAll()
		if len(issues) > 0 {
			names := make([]string, 0, len(issues))
			for name := range issues {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				for _, issue := range issues[name] {
					utils.LogWarning("Module %s: %s", name, issue)
				}
			}
		} else {
			utils.LogSuccess("Module dependencies: OK")
		}

		utils.LogSuccess("Validation completed")
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateWorkflowsDir, "workflows", "d", "workflows", "Directory containing workflow definition files")
	validateCmd.Flags().StringVarP(&validateConfigsDir, "configs", "c", "configs", "Directory containing module configuration files")
	rootCmd.AddCommand(validateCmd)
}
