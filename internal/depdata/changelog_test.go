package depdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_MissingPointerFile(t *testing.T) {
	path, err := Resolve(filepath.Join(t.TempDir(), "nope.changelog.yaml"))
	require.NoError(t, err)
	assert.Empty(t, path, "missing pointer file resolves to no artifact")
}

func TestRecordAndResolve(t *testing.T) {
	changeLog := filepath.Join(t.TempDir(), "logs", "dataset.changelog.yaml")

	require.NoError(t, Record(changeLog, "/data/dataset_v1.csv"))
	require.NoError(t, Record(changeLog, "/data/dataset_v2.csv"))

	path, err := Resolve(changeLog)
	require.NoError(t, err)
	assert.Equal(t, "/data/dataset_v2.csv", path, "latest entry wins")
}

func TestResolve_MalformedPointerFile(t *testing.T) {
	changeLog := filepath.Join(t.TempDir(), "bad.changelog.yaml")
	require.NoError(t, os.WriteFile(changeLog, []byte("entries: {not: a list}"), 0644))

	_, err := Resolve(changeLog)
	assert.Error(t, err)
}

func TestResolve_EmptyEntries(t *testing.T) {
	changeLog := filepath.Join(t.TempDir(), "empty.changelog.yaml")
	require.NoError(t, os.WriteFile(changeLog, []byte("entries: []"), 0644))

	path, err := Resolve(changeLog)
	require.NoError(t, err)
	assert.Empty(t, path)
}
