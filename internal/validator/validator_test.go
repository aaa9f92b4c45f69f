package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEnvVars(t *testing.T) {
	t.Run("unset vars pass", func(t *testing.T) {
		t.Setenv("REPORTFLOW_LOG_LEVEL", "")
		t.Setenv("REPORTFLOW_WORKSPACE", "")
		assert.NoError(t, ValidateEnvVars())
	})

	t.Run("valid log level", func(t *testing.T) {
		t.Setenv("REPORTFLOW_LOG_LEVEL", "verbose")
		t.Setenv("REPORTFLOW_WORKSPACE", "")
		assert.NoError(t, ValidateEnvVars())
	})

	t.Run("unknown log level", func(t *testing.T) {
		t.Setenv("REPORTFLOW_LOG_LEVEL", "chatty")
		err := ValidateEnvVars()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REPORTFLOW_LOG_LEVEL")
	})

	t.Run("workspace must be a directory", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		t.Setenv("REPORTFLOW_LOG_LEVEL", "")
		t.Setenv("REPORTFLOW_WORKSPACE", file)
		assert.Error(t, ValidateEnvVars())

		t.Setenv("REPORTFLOW_WORKSPACE", dir)
		assert.NoError(t, ValidateEnvVars())
	})
}

func TestValidateDirectories(t *testing.T) {
	dir := t.TempDir()
	workflows := filepath.Join(dir, "workflows")
	configs := filepath.Join(dir, "configs")
	require.NoError(t, os.Mkdir(workflows, 0755))
	require.NoError(t, os.Mkdir(configs, 0755))

	assert.NoError(t, ValidateDirectories(workflows, configs))

	err := ValidateDirectories(workflows, filepath.Join(dir, "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent")
}
