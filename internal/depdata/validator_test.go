package depdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// publishArtifact writes an artifact file and records it in a change log,
// returning the change-log path
func publishArtifact(t *testing.T, dir, name, content string) string {
	t.Helper()
	artifact := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(artifact, []byte(content), 0644))

	changeLog := filepath.Join(dir, name+".changelog.yaml")
	require.NoError(t, Record(changeLog, artifact))
	return changeLog
}

func TestValidateDependencies_Available(t *testing.T) {
	dir := t.TempDir()
	changeLog := publishArtifact(t, dir, "dataset.csv", "a,b\n1,2\n")

	v := NewValidator()
	results, err := v.ValidateDependencies(context.Background(), []Dependency{
		{Name: "dataset", ChangeLogPath: changeLog, Required: true, FileType: FileTypeTabular},
	}, false, false)

	require.NoError(t, err)
	require.Contains(t, results, "dataset")
	assert.Equal(t, StatusAvailable, results["dataset"].Status)
	assert.NotEmpty(t, results["dataset"].Path)
	assert.Nil(t, results["dataset"].Data, "data is not loaded unless requested")
}

func TestValidateDependencies_RequiredMissingFailsFast(t *testing.T) {
	dir := t.TempDir()
	okLog := publishArtifact(t, dir, "first.csv", "x\n1\n")

	v := NewValidator()
	results, err := v.ValidateDependencies(context.Background(), []Dependency{
		{Name: "first", ChangeLogPath: okLog, Required: true, FileType: FileTypeTabular},
		{Name: "second", ChangeLogPath: filepath.Join(dir, "nope.yaml"), Required: true},
		{Name: "third", ChangeLogPath: okLog, Required: true, FileType: FileTypeTabular},
	}, false, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")

	// Validation halted at the failing required dependency
	assert.Contains(t, results, "first")
	assert.Contains(t, results, "second")
	assert.NotContains(t, results, "third")
	assert.Equal(t, StatusMissing, results["second"].Status)
}

func TestValidateDependencies_OptionalMissingContinues(t *testing.T) {
	dir := t.TempDir()
	okLog := publishArtifact(t, dir, "present.csv", "x\n1\n")

	v := NewValidator()
	results, err := v.ValidateDependencies(context.Background(), []Dependency{
		{Name: "absent", ChangeLogPath: filepath.Join(dir, "nope.yaml"), Required: false},
		{Name: "present", ChangeLogPath: okLog, Required: true, FileType: FileTypeTabular},
	}, false, false)

	require.NoError(t, err)
	assert.Equal(t, StatusMissing, results["absent"].Status)
	assert.Equal(t, StatusAvailable, results["present"].Status)
}

func TestValidateDependencies_StalePointerTargetIsMissing(t *testing.T) {
	dir := t.TempDir()
	changeLog := filepath.Join(dir, "dataset.changelog.yaml")
	require.NoError(t, Record(changeLog, filepath.Join(dir, "deleted.csv")))

	v := NewValidator()
	results, err := v.ValidateDependencies(context.Background(), []Dependency{
		{Name: "dataset", ChangeLogPath: changeLog, Required: false},
	}, false, false)

	require.NoError(t, err)
	assert.Equal(t, StatusMissing, results["dataset"].Status)
}

func TestValidateDependencies_HealingRegeneratesArtifact(t *testing.T) {
	dir := t.TempDir()
	changeLog := filepath.Join(dir, "dataset.changelog.yaml")

	healCalls := 0
	heal := func(ctx context.Context) (*HealResult, error) {
		healCalls++
		artifact := filepath.Join(dir, "regenerated.csv")
		if err := os.WriteFile(artifact, []byte("x\n1\n"), 0644); err != nil {
			return nil, err
		}
		if err := Record(changeLog, artifact); err != nil {
			return nil, err
		}
		return &HealResult{Status: HealSuccess, Message: "regenerated"}, nil
	}

	v := NewValidator()
	results, err := v.ValidateDependencies(context.Background(), []Dependency{
		{Name: "dataset", ChangeLogPath: changeLog, HealingAgent: heal, Required: true, FileType: FileTypeTabular},
	}, true, false)

	require.NoError(t, err)
	assert.Equal(t, 1, healCalls)
	assert.Equal(t, StatusAvailable, results["dataset"].Status)
	assert.Equal(t, filepath.Join(dir, "regenerated.csv"), results["dataset"].Path)
}

func TestValidateDependencies_HealingWithoutArtifactFails(t *testing.T) {
	dir := t.TempDir()
	changeLog := filepath.Join(dir, "dataset.changelog.yaml")

	// Agent reports success but never publishes anything
	heal := func(ctx context.Context) (*HealResult, error) {
		return &HealResult{Status: HealSuccess}, nil
	}

	v := NewValidator()
	results, err := v.ValidateDependencies(context.Background(), []Dependency{
		{Name: "dataset", ChangeLogPath: changeLog, HealingAgent: heal, Required: true},
	}, true, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resolvable artifact")
	assert.Equal(t, StatusHealingFailed, results["dataset"].Status)
}

func TestValidateDependencies_HealingDisabledByFlag(t *testing.T) {
	dir := t.TempDir()
	changeLog := filepath.Join(dir, "dataset.changelog.yaml")

	healCalls := 0
	heal := func(ctx context.Context) (*HealResult, error) {
		healCalls++
		return &HealResult{Status: HealSuccess}, nil
	}

	v := NewValidator()
	results, err := v.ValidateDependencies(context.Background(), []Dependency{
		{Name: "dataset", ChangeLogPath: changeLog, HealingAgent: heal, Required: false},
	}, false, false)

	require.NoError(t, err)
	assert.Zero(t, healCalls)
	assert.Equal(t, StatusMissing, results["dataset"].Status)
}

func TestValidateDependencies_DirectHealingCycle(t *testing.T) {
	dir := t.TempDir()
	changeLog := filepath.Join(dir, "dataset.changelog.yaml")

	v := NewValidator()
	var dep Dependency
	dep = Dependency{
		Name:          "dataset",
		ChangeLogPath: changeLog,
		Required:      true,
		HealingAgent: func(ctx context.Context) (*HealResult, error) {
			// Healing re-validates the dependency it is healing
			_, err := v.ValidateDependencies(ctx, []Dependency{dep}, true, false)
			if err != nil {
				return nil, err
			}
			return &HealResult{Status: HealSuccess}, nil
		},
	}

	_, err := v.ValidateDependencies(context.Background(), []Dependency{dep}, true, false)
	require.Error(t, err)

	var circErr *CircularHealError
	require.ErrorAs(t, err, &circErr)
	assert.Equal(t, []string{"dataset", "dataset"}, circErr.Path)
	assert.Contains(t, circErr.Error(), "dataset -> dataset")
}

func TestValidateDependencies_TransitiveHealingCycle(t *testing.T) {
	dir := t.TempDir()
	v := NewValidator()

	var depA, depB Dependency

	depA = Dependency{
		Name:          "a",
		ChangeLogPath: filepath.Join(dir, "a.changelog.yaml"),
		Required:      true,
		HealingAgent: func(ctx context.Context) (*HealResult, error) {
			_, err := v.ValidateDependencies(ctx, []Dependency{depB}, true, false)
			if err != nil {
				return nil, err
			}
			return &HealResult{Status: HealSuccess}, nil
		},
	}
	depB = Dependency{
		Name:          "b",
		ChangeLogPath: filepath.Join(dir, "b.changelog.yaml"),
		Required:      true,
		HealingAgent: func(ctx context.Context) (*HealResult, error) {
			_, err := v.ValidateDependencies(ctx, []Dependency{depA}, true, false)
			if err != nil {
				return nil, err
			}
			return &HealResult{Status: HealSuccess}, nil
		},
	}

	_, err := v.ValidateDependencies(context.Background(), []Dependency{depA}, true, false)
	require.Error(t, err)

	var circErr *CircularHealError
	require.ErrorAs(t, err, &circErr)
	assert.Equal(t, []string{"a", "b", "a"}, circErr.Path)
}

func TestValidateDependencies_LoadData(t *testing.T) {
	dir := t.TempDir()
	changeLog := publishArtifact(t, dir, "dataset.csv", "a,b\n1,2\n3,4\n")

	v := NewValidator()
	results, err := v.ValidateDependencies(context.Background(), []Dependency{
		{Name: "dataset", ChangeLogPath: changeLog, Required: true, FileType: FileTypeTabular},
	}, false, true)

	require.NoError(t, err)
	rows, ok := results["dataset"].Data.([][]string)
	require.True(t, ok)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b"}, rows[0])
}

func TestValidateDependencies_ContentValidatorRejects(t *testing.T) {
	dir := t.TempDir()
	changeLog := publishArtifact(t, dir, "dataset.csv", "a,b\n")

	v := NewValidator()
	results, err := v.ValidateDependencies(context.Background(), []Dependency{
		{
			Name:          "dataset",
			ChangeLogPath: changeLog,
			Required:      true,
			FileType:      FileTypeTabular,
			ContentValidator: func(data interface{}) error {
				rows := data.([][]string)
				if len(rows) < 2 {
					return fmt.Errorf("expected at least one data row")
				}
				return nil
			},
		},
	}, false, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "content validation failed")
	assert.Equal(t, StatusMissing, results["dataset"].Status)
	assert.Nil(t, results["dataset"].Data)
}

func TestValidateDependencies_CustomLoadFn(t *testing.T) {
	dir := t.TempDir()
	changeLog := publishArtifact(t, dir, "dataset.csv", "payload")

	v := NewValidator()
	results, err := v.ValidateDependencies(context.Background(), []Dependency{
		{
			Name:          "dataset",
			ChangeLogPath: changeLog,
			Required:      true,
			LoadFn: func(path string) (interface{}, error) {
				return "custom:" + filepath.Base(path), nil
			},
		},
	}, false, true)

	require.NoError(t, err)
	assert.Equal(t, "custom:dataset.csv", results["dataset"].Data)
}

func TestRunHealer(t *testing.T) {
	t.Run("success passes through", func(t *testing.T) {
		result, err := RunHealer(context.Background(), "dataset", func(ctx context.Context) (*HealResult, error) {
			return &HealResult{Status: HealSuccess, Message: "ok"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, HealSuccess, result.Status)
	})

	t.Run("failed status becomes an error", func(t *testing.T) {
		_, err := RunHealer(context.Background(), "dataset", func(ctx context.Context) (*HealResult, error) {
			return &HealResult{Status: HealFailed, Message: "source offline"}, nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source offline")
	})

	t.Run("agent error is wrapped", func(t *testing.T) {
		_, err := RunHealer(context.Background(), "dataset", func(ctx context.Context) (*HealResult, error) {
			return nil, fmt.Errorf("boom")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}
