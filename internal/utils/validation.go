package utils

import (
	"fmt"
	"os"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateInputPath validates that an input path exists and is a regular file
func ValidateInputPath(input string) error {
	if input == "" {
		return &ValidationError{
			Field:   "input",
			Message: "input path is required",
		}
	}

	fileInfo, err := os.Stat(input)
	if err != nil {
		return &ValidationError{
			Field:   "input",
			Message: "input path does not exist",
			Err:     err,
		}
	}

	if fileInfo.IsDir() {
		return &ValidationError{
			Field:   "input",
			Message: fmt.Sprintf("input must be a file, not a directory: %s", input),
		}
	}

	return nil
}

// ValidateOutputPath validates an output path, creating the directory if needed
func ValidateOutputPath(output string) error {
	if output == "" {
		return &ValidationError{
			Field:   "output",
			Message: "output path is required",
		}
	}

	fileInfo, err := os.Stat(output)
	if err != nil {
		if !os.IsNotExist(err) {
			return &ValidationError{
				Field:   "output",
				Message: "failed to access output path",
				Err:     err,
			}
		}
		if err := os.MkdirAll(output, 0755); err != nil {
			return &ValidationError{
				Field:   "output",
				Message: "failed to create output directory",
				Err:     err,
			}
		}
		return nil
	}

	if !fileInfo.IsDir() {
		return &ValidationError{
			Field:   "output",
			Message: fmt.Sprintf("output must be a directory, not a file: %s", output),
		}
	}

	return nil
}
