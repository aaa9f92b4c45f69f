// Package report implements the report rendering module: it turns the
// features artifact into a plain-text summary report.
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reportflow/reportflow/internal/config"
	"github.com/reportflow/reportflow/internal/depdata"
	"github.com/reportflow/reportflow/internal/mod"
	"github.com/reportflow/reportflow/internal/utils"
)

const reportTemplate = `{{.Title}}
{{.Rule}}
Generated: {{.Generated}}

{{range .Columns -}}
{{.Name}}: count={{.Count}} min={{printf "%.4g" .Min}} max={{printf "%.4g" .Max}} mean={{printf "%.4g" .Mean}}
{{end}}`

// Config holds the report module configuration
type Config struct {
	Output            string            `yaml:"output"`            // Output directory for the rendered report
	Title             string            `yaml:"title"`             // Report title
	FeaturesChangeLog string            `yaml:"featuresChangeLog"` // Fallback pointer to the features artifact
	Dependencies      map[string]string `yaml:"dependencies"`      // Declared dependencies (default: features -> features)
}

// columnStats mirrors the features artifact's column records
type columnStats struct {
	Name  string  `yaml:"name"`
	Count int     `yaml:"count"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Mean  float64 `yaml:"mean"`
}

// Module renders the plain-text summary report
type Module struct {
	cfg  Config
	tmpl *template.Template
}

// New constructs the report module from its configuration file
func New(configPath string) (mod.Module, error) {
	var cfg Config
	if err := config.LoadYAML(configPath, &cfg); err != nil {
		return nil, err
	}

	if err := utils.ValidateOutputPath(cfg.Output); err != nil {
		return nil, err
	}
	if cfg.Title == "" {
		cfg.Title = "Data Summary Report"
	}
	if cfg.Dependencies == nil {
		cfg.Dependencies = map[string]string{"features": "features"}
	}

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	return &Module{cfg: cfg, tmpl: tmpl}, nil
}

// Name returns the module name
func (m *Module) Name() string {
	return "report"
}

// Dependencies returns the module's declared dependencies
func (m *Module) Dependencies() map[string]string {
	deps := make(map[string]string, len(m.cfg.Dependencies))
	for k, v := range m.cfg.Dependencies {
		deps[k] = v
	}
	return deps
}

// Execute loads the features artifact and renders the report
func (m *Module) Execute(ctx context.Context, rc *mod.RunContext) (*mod.Result, error) {
	featuresPath, err := m.locateFeatures(rc)
	if err != nil {
		return nil, err
	}

	columns, err := loadColumns(featuresPath)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("features artifact %s contains no columns", featuresPath)
	}

	var sb strings.Builder
	err = m.tmpl.Execute(&sb, map[string]interface{}{
		"Title":     m.cfg.Title,
		"Rule":      strings.Repeat("=", len(m.cfg.Title)),
		"Generated": time.Now().Format(time.RFC3339),
		"Columns":   columns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	reportPath := filepath.Join(m.cfg.Output, "report.txt")
	if err := utils.WriteTextFile(reportPath, sb.String()); err != nil {
		return nil, err
	}

	return &mod.Result{
		Status:  mod.StatusSuccess,
		Message: fmt.Sprintf("rendered report with %d columns", len(columns)),
		Data: map[string]interface{}{
			"report":  reportPath,
			"columns": len(columns),
		},
		ContextUpdates: map[string]interface{}{
			"report.artifact": reportPath,
		},
	}, nil
}

// locateFeatures prefers the artifact published into the run context by the
// features module, falling back to the features change log
func (m *Module) locateFeatures(rc *mod.RunContext) (string, error) {
	if path := rc.GetString("features.artifact"); path != "" {
		return path, nil
	}

	if m.cfg.FeaturesChangeLog != "" {
		path, err := depdata.Resolve(m.cfg.FeaturesChangeLog)
		if err != nil {
			return "", err
		}
		if path != "" {
			return path, nil
		}
	}

	return "", fmt.Errorf("no features artifact available: not in run context and no change-log entry")
}

func loadColumns(path string) ([]columnStats, error) {
	content, err := utils.ReadTextFile(path)
	if err != nil {
		return nil, err
	}

	var artifact struct {
		Columns []columnStats `yaml:"columns"`
	}
	if err := yaml.Unmarshal([]byte(content), &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse features artifact %s: %w", path, err)
	}
	return artifact.Columns, nil
}
