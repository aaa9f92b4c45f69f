package cmd

import (
	"os"

	"github.com/reportflow/reportflow/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// verbosityLevel is the command-line flag for setting the log level
	verbosityLevel string
)

var rootCmd = &cobra.Command{
	Use:   "reportflow",
	Short: "A workflow orchestrator for data-report pipelines",
	Long: `ReportFlow coordinates pipelines of data-processing modules defined
in YAML workflows, resolving inter-module dependencies, caching results,
and self-healing missing data artifacts.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// The flag wins over the REPORTFLOW_LOG_LEVEL environment variable
		level := verbosityLevel
		if !cmd.Flags().Changed("log-level") {
			if env := os.Getenv("REPORTFLOW_LOG_LEVEL"); env != "" {
				level = env
			}
		}
		utils.SetLogLevel(utils.LogLevelFromString(level))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize global flags
	rootCmd.PersistentFlags().StringVarP(&verbosityLevel, "log-level", "l", "normal",
		"Set the logging verbosity level: quiet, normal, verbose, debug")
}
