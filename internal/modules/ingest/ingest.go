// Package ingest implements the dataset ingestion module: it normalizes a
// raw CSV file into a clean tabular artifact and records it in a change log.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reportflow/reportflow/internal/config"
	"github.com/reportflow/reportflow/internal/depdata"
	"github.com/reportflow/reportflow/internal/mod"
	"github.com/reportflow/reportflow/internal/utils"
)

// Config holds the ingestion module configuration
type Config struct {
	Input        string            `yaml:"input"`        // Path to the raw CSV file
	Output       string            `yaml:"output"`       // Output directory for the normalized artifact
	ChangeLog    string            `yaml:"changeLog"`    // Change-log pointer file to record the artifact in
	Dependencies map[string]string `yaml:"dependencies"` // Extra declared dependencies (optional)
}

// Module normalizes raw CSV data into the dataset artifact
type Module struct {
	cfg Config
}

// New constructs the ingest module from its configuration file
func New(configPath string) (mod.Module, error) {
	var cfg Config
	if err := config.LoadYAML(configPath, &cfg); err != nil {
		return nil, err
	}

	if cfg.Input == "" {
		return nil, &utils.ValidationError{Field: "input", Message: "input path is required"}
	}
	if err := utils.ValidateOutputPath(cfg.Output); err != nil {
		return nil, err
	}
	if cfg.ChangeLog == "" {
		cfg.ChangeLog = filepath.Join(cfg.Output, "dataset.changelog.yaml")
	}

	return &Module{cfg: cfg}, nil
}

// Name returns the module name
func (m *Module) Name() string {
	return "ingest"
}

// Dependencies returns the module's declared dependencies. Ingestion reads
// only its configured raw input, so by default there are none.
func (m *Module) Dependencies() map[string]string {
	deps := make(map[string]string, len(m.cfg.Dependencies))
	for k, v := range m.cfg.Dependencies {
		deps[k] = v
	}
	return deps
}

// Execute reads the raw CSV, drops empty rows, trims cell whitespace, and
// writes the normalized dataset artifact
func (m *Module) Execute(ctx context.Context, rc *mod.RunContext) (*mod.Result, error) {
	if err := utils.ValidateInputPath(m.cfg.Input); err != nil {
		return nil, err
	}

	rows, err := readCSV(m.cfg.Input)
	if err != nil {
		return nil, err
	}

	normalized := normalizeRows(rows)
	if len(normalized) == 0 {
		return nil, fmt.Errorf("input %s contains no usable rows", m.cfg.Input)
	}

	artifactPath := filepath.Join(m.cfg.Output, "dataset.csv")
	if err := writeCSV(artifactPath, normalized); err != nil {
		return nil, err
	}

	if err := depdata.Record(m.cfg.ChangeLog, artifactPath); err != nil {
		return nil, err
	}

	utils.LogVerbose("Ingested %d rows from %s", len(normalized), m.cfg.Input)

	return &mod.Result{
		Status:  mod.StatusSuccess,
		Message: fmt.Sprintf("ingested %d rows", len(normalized)),
		Data: map[string]interface{}{
			"rows":     len(normalized),
			"artifact": artifactPath,
		},
		ContextUpdates: map[string]interface{}{
			"ingest.artifact": artifactPath,
			"ingest.rows":     len(normalized),
		},
	}, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			utils.LogWarning("Failed to close input file: %v", err)
		}
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV input: %w", err)
	}
	return rows, nil
}

// normalizeRows trims cell whitespace and drops rows with no content
func normalizeRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		empty := true
		cleaned := make([]string, len(row))
		for i, cell := range row {
			cleaned[i] = strings.TrimSpace(cell)
			if cleaned[i] != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, cleaned)
		}
	}
	return out
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			utils.LogWarning("Failed to close artifact file: %v", err)
		}
	}()

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
