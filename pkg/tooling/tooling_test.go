package tooling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-job-composer/internal/common/cryptoutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
)

const jobYAML = `id: TEST_JOB
steps:
  - kind: batchlet
    name: step_one
    batchlet: com.example.MyBatchlet
    transitions:
      - on: COMPLETED
        action: end
`

func TestGenerateValidateReport(t *testing.T) {
	cfg, err := ParseJobConfiguration([]byte(jobYAML))
	require.NoError(t, err)

	doc := GenerateJobXML(cfg)
	assert.Contains(t, doc, `<job id="TEST_JOB"`)
	assert.Contains(t, doc, `<batchlet ref="com.example.MyBatchlet"/>`)
	assert.Contains(t, doc, `<end on="COMPLETED"/>`)

	result := ValidateJobXML(doc)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)

	report := FormatValidationReport(result)
	assert.Contains(t, report, "VALIDATION PASSED")
	assert.Contains(t, report, "WARNINGS")
}

func TestLoadAndExportJob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(jobYAML), 0644))

	cfg, err := LoadJobConfiguration(path)
	require.NoError(t, err)

	res, err := ExportJob(cfg, ExportOptions{Dir: dir, Checksum: cryptoutil.SHA256})
	require.NoError(t, err)
	assert.Equal(t, "TEST_JOB", res.JobID)
	assert.FileExists(t, res.Path)
	assert.FileExists(t, res.ChecksumPath)

	_, err = ExportJob(&JobConfiguration{ID: "BAD", Steps: []Step{&ChunkStep{Name: "c"}}}, ExportOptions{Dir: dir})
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)
}

func TestDefaultExportOptions(t *testing.T) {
	opts := DefaultExportOptions()
	assert.Equal(t, ".", opts.Dir)
	assert.Equal(t, cryptoutil.SHA256, opts.Checksum)
	assert.False(t, opts.Force)
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
	assert.NoError(t, Shutdown())
}
