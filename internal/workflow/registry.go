package workflow

import (
	"path/filepath"

	"github.com/reportflow/reportflow/internal/mod"
	"github.com/reportflow/reportflow/internal/modules/features"
	"github.com/reportflow/reportflow/internal/modules/ingest"
	"github.com/reportflow/reportflow/internal/modules/report"
	"github.com/reportflow/reportflow/internal/utils"
)

// DefaultRegistry creates a registry with all built-in modules registered.
// Each module's default config lives at configs/<name>.yaml; workflow
// entries override the config path per reference.
func DefaultRegistry() *mod.Registry {
	return RegistryWithConfigs("configs")
}

// RegistryWithConfigs creates the built-in registry with default module
// config paths rooted at configDir
func RegistryWithConfigs(configDir string) *mod.Registry {
	registry := mod.NewRegistry()

	register := func(name string, constructor mod.Constructor) {
		configPath := filepath.Join(configDir, name+".yaml")
		if err := registry.Register(name, configPath, constructor); err != nil {
			utils.LogError("Failed to register %s module: %v", name, err)
		}
	}

	register("ingest", ingest.New)
	register("features", features.New)
	register("report", report.New)

	return registry
}
