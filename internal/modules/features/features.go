// Package features implements the statistical feature extraction module: it
// summarizes the numeric columns of the ingested dataset artifact into a
// structured YAML artifact.
package features

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reportflow/reportflow/internal/config"
	"github.com/reportflow/reportflow/internal/depdata"
	"github.com/reportflow/reportflow/internal/mod"
	"github.com/reportflow/reportflow/internal/utils"
)

// Config holds the feature extraction module configuration
type Config struct {
	Output           string            `yaml:"output"`           // Output directory for the features artifact
	ChangeLog        string            `yaml:"changeLog"`        // Change-log pointer file for the features artifact
	DatasetChangeLog string            `yaml:"datasetChangeLog"` // Fallback pointer to the dataset artifact
	Dependencies     map[string]string `yaml:"dependencies"`     // Declared dependencies (default: dataset -> ingest)
}

// ColumnStats summarizes one numeric column
type ColumnStats struct {
	Name  string  `yaml:"name"`
	Count int     `yaml:"count"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Mean  float64 `yaml:"mean"`
}

// Module extracts per-column statistics from the dataset artifact
type Module struct {
	cfg Config
}

// New constructs the features module from its configuration file
func New(configPath string) (mod.Module, error) {
	var cfg Config
	if err := config.LoadYAML(configPath, &cfg); err != nil {
		return nil, err
	}

	if err := utils.ValidateOutputPath(cfg.Output); err != nil {
		return nil, err
	}
	if cfg.ChangeLog == "" {
		cfg.ChangeLog = filepath.Join(cfg.Output, "features.changelog.yaml")
	}
	if cfg.Dependencies == nil {
		cfg.Dependencies = map[string]string{"dataset": "ingest"}
	}

	return &Module{cfg: cfg}, nil
}

// Name returns the module name
func (m *Module) Name() string {
	return "features"
}

// Dependencies returns the module's declared dependencies
func (m *Module) Dependencies() map[string]string {
	deps := make(map[string]string, len(m.cfg.Dependencies))
	for k, v := range m.cfg.Dependencies {
		deps[k] = v
	}
	return deps
}

// Execute locates the dataset artifact, computes numeric column statistics,
// and writes the features artifact
func (m *Module) Execute(ctx context.Context, rc *mod.RunContext) (*mod.Result, error) {
	datasetPath, err := m.locateDataset(rc)
	if err != nil {
		return nil, err
	}

	data, err := depdata.LoadArtifact(datasetPath, depdata.FileTypeTabular)
	if err != nil {
		return nil, err
	}
	rows := data.([][]string)
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", datasetPath)
	}

	stats := extractStats(rows)
	if len(stats) == 0 {
		return nil, fmt.Errorf("dataset %s has no numeric columns", datasetPath)
	}

	artifactPath := filepath.Join(m.cfg.Output, "features.yaml")
	if err := writeStats(artifactPath, stats); err != nil {
		return nil, err
	}

	if err := depdata.Record(m.cfg.ChangeLog, artifactPath); err != nil {
		return nil, err
	}

	utils.LogVerbose("Extracted statistics for %d columns from %s", len(stats), datasetPath)

	return &mod.Result{
		Status:  mod.StatusSuccess,
		Message: fmt.Sprintf("extracted statistics for %d columns", len(stats)),
		Data:    stats,
		ContextUpdates: map[string]interface{}{
			"features.artifact": artifactPath,
			"features.columns":  len(stats),
		},
	}, nil
}

// locateDataset prefers the artifact published into the run context by the
// ingest module, falling back to the dataset change log
func (m *Module) locateDataset(rc *mod.RunContext) (string, error) {
	if path := rc.GetString("ingest.artifact"); path != "" {
		return path, nil
	}

	if m.cfg.DatasetChangeLog != "" {
		path, err := depdata.Resolve(m.cfg.DatasetChangeLog)
		if err != nil {
			return "", err
		}
		if path != "" {
			utils.LogVerbose("Resolved dataset artifact from change log: %s", path)
			return path, nil
		}
	}

	return "", fmt.Errorf("no dataset artifact available: not in run context and no change-log entry")
}

// extractStats computes count/min/max/mean for every column whose data
// cells all parse as numbers. The first row is the header.
func extractStats(rows [][]string) []ColumnStats {
	header := rows[0]
	stats := make([]ColumnStats, 0, len(header))

	for col, name := range header {
		values := make([]float64, 0, len(rows)-1)
		numeric := true
		for _, row := range rows[1:] {
			if col >= len(row) || row[col] == "" {
				continue
			}
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				numeric = false
				break
			}
			values = append(values, v)
		}
		if !numeric || len(values) == 0 {
			continue
		}

		s := ColumnStats{Name: name, Count: len(values), Min: values[0], Max: values[0]}
		sum := 0.0
		for _, v := range values {
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
			sum += v
		}
		s.Mean = sum / float64(len(values))
		stats = append(stats, s)
	}

	return stats
}

func writeStats(path string, stats []ColumnStats) error {
	out, err := yaml.Marshal(map[string]interface{}{"columns": stats})
	if err != nil {
		return fmt.Errorf("failed to marshal features artifact: %w", err)
	}
	return utils.WriteTextFile(path, string(out))
}
