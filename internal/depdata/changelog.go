package depdata

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// changeLog is the on-disk shape of a change-log pointer file
type changeLog struct {
	Entries []changeLogEntry `yaml:"entries"`
}

// changeLogEntry records one published artifact
type changeLogEntry struct {
	Timestamp time.Time `yaml:"timestamp"`
	Path      string    `yaml:"path"`
}

// Resolve returns the most recently recorded artifact path for a change-log
// pointer file. A missing pointer file resolves to the empty path without
// error; callers treat that as "no artifact yet".
func Resolve(changeLogPath string) (string, error) {
	data, err := os.ReadFile(changeLogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read change log %s: %w", changeLogPath, err)
	}

	var log changeLog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return "", fmt.Errorf("failed to parse change log %s: %w", changeLogPath, err)
	}

	if len(log.Entries) == 0 {
		return "", nil
	}

	latest := log.Entries[0]
	for _, entry := range log.Entries[1:] {
		if entry.Timestamp.After(latest.Timestamp) {
			latest = entry
		}
	}
	return latest.Path, nil
}

// Record appends an artifact path to a change-log pointer file, creating the
// file and its directory on first use.
func Record(changeLogPath, artifactPath string) error {
	var log changeLog

	data, err := os.ReadFile(changeLogPath)
	if err == nil {
		if err := yaml.Unmarshal(data, &log); err != nil {
			return fmt.Errorf("failed to parse change log %s: %w", changeLogPath, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read change log %s: %w", changeLogPath, err)
	}

	log.Entries = append(log.Entries, changeLogEntry{
		Timestamp: time.Now(),
		Path:      artifactPath,
	})

	out, err := yaml.Marshal(&log)
	if err != nil {
		return fmt.Errorf("failed to marshal change log: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(changeLogPath), 0755); err != nil {
		return fmt.Errorf("failed to create change log directory: %w", err)
	}
	if err := os.WriteFile(changeLogPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write change log %s: %w", changeLogPath, err)
	}

	return nil
}
