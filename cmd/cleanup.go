package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/reportflow/reportflow/internal/utils"

	"github.com/spf13/cobra"
)

var (
	outputDir     string
	keepLatest    int
	olderThanDays int
	cleanupDryRun bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Clean up old workflow output directories",
	Long:  `Remove old workflow run folders based on age or count.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputDir == "" {
			return fmt.Errorf("output directory is required")
		}
		if keepLatest <= 0 && olderThanDays <= 0 {
			return fmt.Errorf("either --keep-latest or --older-than must be set")
		}

		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return fmt.Errorf("failed to read output directory: %w", err)
		}

		type runDir struct {
			name    string
			modTime time.Time
		}

		var runDirs []runDir
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				utils.LogWarning("Skipping %s: %v", entry.Name(), err)
				continue
			}
			runDirs = append(runDirs, runDir{name: entry.Name(), modTime: info.ModTime()})
		}

		if len(runDirs) == 0 {
			utils.LogInfo("No workflow run directories found")
			return nil
		}

		// Oldest first
		sort.Slice(runDirs, func(i, j int) bool {
			return runDirs[i].modTime.Before(runDirs[j].modTime)
		})

		toDelete := make(map[string]bool)

		if keepLatest > 0 && len(runDirs) > keepLatest {
			for _, dir := range runDirs[:len(runDirs)-keepLatest] {
				toDelete[dir.name] = true
			}
		}

		if olderThanDays > 0 {
			cutoff := time.Now().AddDate(0, 0, -olderThanDays)
			for _, dir := range runDirs {
				if dir.modTime.Before(cutoff) {
					toDelete[dir.name] = true
				}
			}
		}

		if len(toDelete) == 0 {
			utils.LogInfo("Nothing to clean up")
			return nil
		}

		names := make([]string, 0, len(toDelete))
		for name := range toDelete {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(outputDir, name)
			if cleanupDryRun {
				utils.LogInfo("Would remove %s", path)
				continue
			}
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", path, err)
			}
			utils.LogInfo("Removed %s", path)
		}

		return nil
	},
}

func init() {
	cleanupCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory containing workflow run folders (required)")
	cleanupCmd.Flags().IntVarP(&keepLatest, "keep-latest", "k", 0, "Keep only the N most recent run folders")
	cleanupCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Remove run folders older than N days")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Show what would be removed without deleting")
	_ = cleanupCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(cleanupCmd)
}
