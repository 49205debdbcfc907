package jsonutil

import (
	"encoding/json"
	"fmt"

	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
	"github.com/deploymenttheory/go-job-composer/internal/common/fsutil"
)

// Marshal encodes v as two-space indented JSON with a trailing newline
func Marshal(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ReadJSONFile reads a JSON file and unmarshals its contents into v
func ReadJSONFile(path string, v interface{}) error {
	if !fsutil.FileExists(path) {
		return fmt.Errorf("%w: %s", errors.ErrFileNotFound, path)
	}

	data, err := fsutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s", errors.ErrFileReadError, err.Error())
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedFile, err.Error())
	}
	return nil
}

// WriteJSONFile writes v to a JSON file with indentation
func WriteJSONFile(path string, v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
	}
	return fsutil.WriteFile(path, data, 0644)
}
