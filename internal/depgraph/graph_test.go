package depgraph

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportflow/reportflow/internal/mod"
)

type stubModule struct {
	name string
	deps map[string]string
}

func (m *stubModule) Name() string                    { return m.name }
func (m *stubModule) Dependencies() map[string]string { return m.deps }
func (m *stubModule) Execute(ctx context.Context, rc *mod.RunContext) (*mod.Result, error) {
	return &mod.Result{Status: mod.StatusSuccess}, nil
}

func register(t *testing.T, registry *mod.Registry, name string, deps map[string]string) {
	t.Helper()
	err := registry.Register(name, "", func(configPath string) (mod.Module, error) {
		return &stubModule{name: name, deps: deps}, nil
	})
	require.NoError(t, err)
}

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestExecutionOrder_DependenciesFirst(t *testing.T) {
	registry := mod.NewRegistry()
	register(t, registry, "report", map[string]string{"features": "features", "dataset": "ingest"})
	register(t, registry, "features", map[string]string{"dataset": "ingest"})
	register(t, registry, "ingest", nil)

	graph := New(registry)
	order, err := graph.ExecutionOrder("report")
	require.NoError(t, err)

	assert.Len(t, order, 3)
	assert.Less(t, indexOf(order, "ingest"), indexOf(order, "features"))
	assert.Less(t, indexOf(order, "features"), indexOf(order, "report"))
	assert.Equal(t, "report", order[len(order)-1])

	// No duplicates even with the diamond through ingest
	seen := make(map[string]int)
	for _, name := range order {
		seen[name]++
	}
	for name, count := range seen {
		assert.Equal(t, 1, count, "module %s appears %d times", name, count)
	}
}

func TestExecutionOrder_CycleDetection(t *testing.T) {
	registry := mod.NewRegistry()
	register(t, registry, "a", map[string]string{"dep": "b"})
	register(t, registry, "b", map[string]string{"dep": "a"})

	graph := New(registry)
	_, err := graph.ExecutionOrder("a")
	require.Error(t, err)

	var circErr *CircularError
	require.ErrorAs(t, err, &circErr)
	assert.Equal(t, []string{"a", "b", "a"}, circErr.Path)
	assert.Contains(t, err.Error(), "a -> b -> a")
}

func TestExecutionOrder_SelfCycle(t *testing.T) {
	registry := mod.NewRegistry()
	register(t, registry, "a", map[string]string{"dep": "a"})

	graph := New(registry)
	_, err := graph.ExecutionOrder("a")

	var circErr *CircularError
	require.ErrorAs(t, err, &circErr)
	assert.Contains(t, err.Error(), "a -> a")
}

func TestExecutionOrder_UnregisteredDependencyIsDeadEnd(t *testing.T) {
	registry := mod.NewRegistry()
	register(t, registry, "features", map[string]string{"dataset": "ingest"})

	graph := New(registry)
	order, err := graph.ExecutionOrder("features")
	require.NoError(t, err)

	// ingest is not registered: traversal stops there without error
	assert.Equal(t, []string{"features"}, order)
}

func TestExecutionOrder_ConstructionFailure(t *testing.T) {
	registry := mod.NewRegistry()
	err := registry.Register("broken", "", func(configPath string) (mod.Module, error) {
		return nil, fmt.Errorf("bad config")
	})
	require.NoError(t, err)
	register(t, registry, "top", map[string]string{"dep": "broken"})

	graph := New(registry)
	_, err = graph.ExecutionOrder("top")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	var circErr *CircularError
	assert.False(t, errors.As(err, &circErr))
}

func TestAllDependencies(t *testing.T) {
	registry := mod.NewRegistry()
	register(t, registry, "report", map[string]string{"features": "features"})
	register(t, registry, "features", map[string]string{"dataset": "ingest"})
	register(t, registry, "ingest", nil)

	graph := New(registry)
	deps, err := graph.AllDependencies("report")
	require.NoError(t, err)

	assert.Len(t, deps, 2)
	assert.Contains(t, deps, "ingest")
	assert.Contains(t, deps, "features")
	assert.NotContains(t, deps, "report")
}

func TestHasCircularDependencies(t *testing.T) {
	registry := mod.NewRegistry()
	register(t, registry, "a", map[string]string{"dep": "b"})
	register(t, registry, "b", nil)

	graph := New(registry)
	assert.False(t, graph.HasCircularDependencies())

	cyclic := mod.NewRegistry()
	register(t, cyclic, "a", map[string]string{"dep": "b"})
	register(t, cyclic, "b", map[string]string{"dep": "a"})

	assert.True(t, New(cyclic).HasCircularDependencies())
}

func TestValidateAll(t *testing.T) {
	registry := mod.NewRegistry()
	register(t, registry, "ok", nil)
	register(t, registry, "dangling", map[string]string{"dataset": "missing"})

	graph := New(registry)
	issues := graph.ValidateAll()

	assert.NotContains(t, issues, "ok")
	require.Contains(t, issues, "dangling")
	assert.Contains(t, issues["dangling"][0], "missing")
}
