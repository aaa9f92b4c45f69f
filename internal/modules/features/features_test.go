package features

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reportflow/reportflow/internal/depdata"
	"github.com/reportflow/reportflow/internal/mod"
)

func writeConfig(t *testing.T, dir, output, datasetChangeLog string) string {
	t.Helper()
	path := filepath.Join(dir, "features.yaml")
	content := fmt.Sprintf("output: %s\n", output)
	if datasetChangeLog != "" {
		content += fmt.Sprintf("datasetChangeLog: %s\n", datasetChangeLog)
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeDataset(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "dataset.csv")
	data := "region,units,price\nnorth,10,2.5\nsouth,20,3.5\neast,30,1.0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestNew_DefaultDependencies(t *testing.T) {
	dir := t.TempDir()
	m, err := New(writeConfig(t, dir, filepath.Join(dir, "out"), ""))
	require.NoError(t, err)

	assert.Equal(t, "features", m.Name())
	assert.Equal(t, map[string]string{"dataset": "ingest"}, m.Dependencies())
}

func TestExecute_FromRunContext(t *testing.T) {
	dir := t.TempDir()
	datasetPath := writeDataset(t, dir)
	outDir := filepath.Join(dir, "out")

	m, err := New(writeConfig(t, dir, outDir, ""))
	require.NoError(t, err)

	rc := mod.NewRunContext()
	rc.Values["ingest.artifact"] = datasetPath

	result, err := m.Execute(context.Background(), rc)
	require.NoError(t, err)
	assert.Equal(t, mod.StatusSuccess, result.Status)
	assert.Equal(t, 2, result.ContextUpdates["features.columns"], "region column is not numeric")

	artifact := result.ContextUpdates["features.artifact"].(string)
	data, err := os.ReadFile(artifact)
	require.NoError(t, err)

	var parsed struct {
		Columns []ColumnStats `yaml:"columns"`
	}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Len(t, parsed.Columns, 2)

	units := parsed.Columns[0]
	assert.Equal(t, "units", units.Name)
	assert.Equal(t, 3, units.Count)
	assert.Equal(t, 10.0, units.Min)
	assert.Equal(t, 30.0, units.Max)
	assert.InDelta(t, 20.0, units.Mean, 0.001)
}

func TestExecute_FallsBackToChangeLog(t *testing.T) {
	dir := t.TempDir()
	datasetPath := writeDataset(t, dir)
	changeLog := filepath.Join(dir, "dataset.changelog.yaml")
	require.NoError(t, depdata.Record(changeLog, datasetPath))

	m, err := New(writeConfig(t, dir, filepath.Join(dir, "out"), changeLog))
	require.NoError(t, err)

	result, err := m.Execute(context.Background(), mod.NewRunContext())
	require.NoError(t, err)
	assert.Equal(t, mod.StatusSuccess, result.Status)
}

func TestExecute_NoDatasetAnywhere(t *testing.T) {
	dir := t.TempDir()
	m, err := New(writeConfig(t, dir, filepath.Join(dir, "out"), ""))
	require.NoError(t, err)

	_, err = m.Execute(context.Background(), mod.NewRunContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dataset artifact")
}

func TestExecute_NoNumericColumns(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.WriteFile(datasetPath, []byte("a,b\nx,y\n"), 0644))

	m, err := New(writeConfig(t, dir, filepath.Join(dir, "out"), ""))
	require.NoError(t, err)

	rc := mod.NewRunContext()
	rc.Values["ingest.artifact"] = datasetPath

	_, err = m.Execute(context.Background(), rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no numeric columns")
}
