// fsutil/files.go
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExists checks if a file exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ReadFile reads an entire file into memory
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating the parent directory if necessary
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := CreateDirIfNotExists(filepath.Dir(path)); err != nil {
		return fmt.Errorf("error creating parent directory: %w", err)
	}
	return os.WriteFile(path, data, perm)
}

// CreateFile creates or truncates a file, creating the parent directory if necessary
func CreateFile(path string) (*os.File, error) {
	if err := CreateDirIfNotExists(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("error creating parent directory: %w", err)
	}
	return os.Create(path)
}

// SanitizeFileName replaces characters that are not safe in file names
func SanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "job"
	}
	return cleaned
}
