package depdata

import (
	"encoding/csv"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reportflow/reportflow/internal/utils"
)

// LoadArtifact loads an artifact using the default loader for its file type:
// tabular artifacts parse as CSV records, structured artifacts parse as
// YAML, and binary artifacts return raw bytes.
func LoadArtifact(path string, fileType FileType) (interface{}, error) {
	switch fileType {
	case FileTypeTabular:
		return loadTabular(path)
	case FileTypeStructured:
		return loadStructured(path)
	case FileTypeBinary:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read binary artifact %s: %w", path, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown artifact file type %q", fileType)
	}
}

func loadTabular(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tabular artifact %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			utils.LogWarning("Failed to close artifact file: %v", err)
		}
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse tabular artifact %s: %w", path, err)
	}
	return records, nil
}

func loadStructured(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read structured artifact %s: %w", path, err)
	}

	var parsed interface{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse structured artifact %s: %w", path, err)
	}
	return parsed, nil
}
