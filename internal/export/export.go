// Package export writes generated job documents to disk, the file equivalent of
// "download as XML".
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	compression "github.com/deploymenttheory/go-job-composer/internal/common/compressionutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/cryptoutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
	"github.com/deploymenttheory/go-job-composer/internal/common/fsutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/jsonutil"
	"github.com/deploymenttheory/go-job-composer/internal/jobmodel"
	"github.com/deploymenttheory/go-job-composer/internal/jobxml"
	"github.com/deploymenttheory/go-job-composer/internal/logger"
)

// ChecksumNone disables the checksum sidecar file.
const ChecksumNone cryptoutil.HashAlgorithm = "none"

// Options control where and how a document is written.
type Options struct {
	Dir         string
	Compression compression.Format
	Checksum    cryptoutil.HashAlgorithm
	// Force writes documents that fail validation.
	Force bool
	// Manifest adds a <file>.json record of the export.
	Manifest bool
}

// Result describes one export.
type Result struct {
	ID           string
	JobID        string
	Path         string
	ChecksumPath string
	Checksum     string
	ManifestPath string
	Bytes        int64
	Validation   jobxml.ValidationResult
}

// Manifest is the JSON record written next to an export.
type Manifest struct {
	ID                string    `json:"id"`
	JobID             string    `json:"jobId"`
	File              string    `json:"file"`
	Compression       string    `json:"compression"`
	Bytes             int64     `json:"bytes"`
	ChecksumAlgorithm string    `json:"checksumAlgorithm,omitempty"`
	Checksum          string    `json:"checksum,omitempty"`
	Valid             bool      `json:"valid"`
	Errors            int       `json:"errors"`
	Warnings          int       `json:"warnings"`
	CreatedAt         time.Time `json:"createdAt"`
}

// FileName returns the export file name for a job: the job id as stem, an .xml
// extension and the compression suffix.
func FileName(jobID string, format compression.Format) string {
	return fsutil.SanitizeFileName(jobID) + ".xml" + format.Extension()
}

// Export generates the document for cfg and writes it.
func Export(cfg *jobmodel.JobConfiguration, opts Options) (*Result, error) {
	if cfg == nil || cfg.ID == "" {
		return nil, errors.ErrMissingJobID
	}
	return WriteDocument(cfg.ID, jobxml.Generate(cfg), opts)
}

// WriteDocument validates document and writes it under opts.Dir. An invalid document is
// refused unless opts.Force is set; the returned Result still carries the validation.
func WriteDocument(jobID, document string, opts Options) (*Result, error) {
	if jobID == "" {
		return nil, errors.ErrMissingJobID
	}

	result := &Result{
		ID:         uuid.NewString(),
		JobID:      jobID,
		Validation: jobxml.Validate(document),
	}

	if !result.Validation.IsValid && !opts.Force {
		return result, fmt.Errorf("%w: %d error(s)", errors.ErrInvalidDocument, len(result.Validation.Errors))
	}

	format, err := compression.ParseFormat(string(opts.Compression))
	if err != nil {
		return result, err
	}

	var hasher cryptoutil.Hasher
	if opts.Checksum != "" && opts.Checksum != ChecksumNone {
		h, err := cryptoutil.NewHasher(opts.Checksum)
		if err != nil {
			return result, err
		}
		hasher = h
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	result.Path = filepath.Join(dir, FileName(jobID, format))

	unlock := fsutil.LockPaths(result.Path)
	defer unlock()

	written, err := writeCompressed(result.Path, format, []byte(document))
	if err != nil {
		return result, err
	}
	result.Bytes = written

	if hasher != nil {
		digest, err := hasher.HashFile(result.Path)
		if err != nil {
			return result, err
		}
		result.Checksum = digest
		result.ChecksumPath = result.Path + "." + string(hasher.Algorithm())
		line := cryptoutil.ChecksumLine(digest, filepath.Base(result.Path))
		if err := fsutil.WriteFile(result.ChecksumPath, []byte(line), 0644); err != nil {
			return result, fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
		}
	}

	if opts.Manifest {
		result.ManifestPath = result.Path + ".json"
		m := Manifest{
			ID:          result.ID,
			JobID:       jobID,
			File:        filepath.Base(result.Path),
			Compression: string(format),
			Bytes:       result.Bytes,
			Checksum:    result.Checksum,
			Valid:       result.Validation.IsValid,
			Errors:      len(result.Validation.Errors),
			Warnings:    len(result.Validation.Warnings),
			CreatedAt:   time.Now().UTC(),
		}
		if hasher != nil {
			m.ChecksumAlgorithm = string(hasher.Algorithm())
		}
		if err := jsonutil.WriteJSONFile(result.ManifestPath, m); err != nil {
			return result, err
		}
	}

	logger.LogInfo("Exported job document", map[string]interface{}{
		"export_id":   result.ID,
		"job":         jobID,
		"path":        result.Path,
		"bytes":       result.Bytes,
		"compression": string(format),
		"valid":       result.Validation.IsValid,
		"warnings":    len(result.Validation.Warnings),
	})
	return result, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func writeCompressed(path string, format compression.Format, data []byte) (int64, error) {
	file, err := fsutil.CreateFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
	}

	counter := &countingWriter{w: file}
	if err := compression.Compress(format, counter, data); err != nil {
		file.Close()
		return 0, err
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
	}
	return counter.n, nil
}
