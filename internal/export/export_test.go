package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	compression "github.com/deploymenttheory/go-job-composer/internal/common/compressionutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/cryptoutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
	"github.com/deploymenttheory/go-job-composer/internal/common/jsonutil"
	"github.com/deploymenttheory/go-job-composer/internal/jobmodel"
	"github.com/deploymenttheory/go-job-composer/internal/jobxml"
)

func validJob() *jobmodel.JobConfiguration {
	return &jobmodel.JobConfiguration{
		ID: "TEST_JOB",
		Steps: []jobmodel.Step{
			&jobmodel.BatchletStep{
				Name:          "step_one",
				BatchletClass: "com.example.MyBatchlet",
				Transitions:   []jobmodel.Transition{{On: "COMPLETED", Action: jobmodel.ActionEnd}},
			},
		},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "TEST_JOB.xml", FileName("TEST_JOB", compression.FormatNone))
	assert.Equal(t, "TEST_JOB.xml.xz", FileName("TEST_JOB", compression.FormatXZ))
	assert.Equal(t, "a_b.xml", FileName("a/b", compression.FormatNone))
}

func TestExportPlain(t *testing.T) {
	dir := t.TempDir()

	res, err := Export(validJob(), Options{Dir: dir, Checksum: cryptoutil.SHA256})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "TEST_JOB.xml"), res.Path)
	assert.True(t, res.Validation.IsValid)
	assert.NotEmpty(t, res.ID)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, jobxml.Generate(validJob()), string(data))
	assert.Equal(t, int64(len(data)), res.Bytes)

	sidecar, err := os.ReadFile(res.ChecksumPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "TEST_JOB.xml.sha256"), res.ChecksumPath)
	assert.Equal(t, res.Checksum+"  TEST_JOB.xml\n", string(sidecar))

	digest, err := cryptoutil.ParseChecksumLine(string(sidecar))
	require.NoError(t, err)
	hasher, err := cryptoutil.NewHasher(cryptoutil.SHA256)
	require.NoError(t, err)
	ok, err := hasher.Verify(data, digest)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExportCompressed(t *testing.T) {
	for _, format := range []compression.Format{compression.FormatGZIP, compression.FormatBZIP2, compression.FormatXZ} {
		t.Run(string(format), func(t *testing.T) {
			dir := t.TempDir()
			res, err := Export(validJob(), Options{Dir: dir, Compression: format, Checksum: cryptoutil.BLAKE2b256})
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(res.Path, format.Extension()))
			assert.True(t, strings.HasSuffix(res.ChecksumPath, ".blake2b"))

			f, err := os.Open(res.Path)
			require.NoError(t, err)
			defer f.Close()

			r, err := compression.NewReader(format, f)
			require.NoError(t, err)
			var sb strings.Builder
			_, err = io.Copy(&sb, r)
			require.NoError(t, err)
			assert.Equal(t, jobxml.Generate(validJob()), sb.String())
		})
	}
}

func TestExportRefusesInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	cfg := &jobmodel.JobConfiguration{
		ID:    "BROKEN",
		Steps: []jobmodel.Step{&jobmodel.BatchletStep{Name: "no_impl"}},
	}

	res, err := Export(cfg, Options{Dir: dir, Checksum: ChecksumNone})
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)
	require.NotNil(t, res)
	assert.False(t, res.Validation.IsValid)
	assert.NoFileExists(t, filepath.Join(dir, "BROKEN.xml"))

	res, err = Export(cfg, Options{Dir: dir, Checksum: ChecksumNone, Force: true})
	require.NoError(t, err)
	assert.FileExists(t, res.Path)
	assert.Empty(t, res.ChecksumPath)
}

func TestExportRequiresJobID(t *testing.T) {
	_, err := Export(&jobmodel.JobConfiguration{}, Options{Dir: t.TempDir()})
	assert.ErrorIs(t, err, errors.ErrMissingJobID)
}

func TestExportUnsupportedCompression(t *testing.T) {
	dir := t.TempDir()
	_, err := Export(validJob(), Options{Dir: dir, Compression: "zip"})
	assert.ErrorIs(t, err, errors.ErrUnsupportedCompression)
	assert.NoFileExists(t, filepath.Join(dir, "TEST_JOB.xml"))
}

func TestExportManifest(t *testing.T) {
	dir := t.TempDir()
	res, err := Export(validJob(), Options{Dir: dir, Compression: compression.FormatGZIP, Checksum: cryptoutil.SHA256, Manifest: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "TEST_JOB.xml.gz.json"), res.ManifestPath)

	var m Manifest
	require.NoError(t, jsonutil.ReadJSONFile(res.ManifestPath, &m))
	assert.Equal(t, res.ID, m.ID)
	assert.Equal(t, "TEST_JOB", m.JobID)
	assert.Equal(t, "TEST_JOB.xml.gz", m.File)
	assert.Equal(t, "gzip", m.Compression)
	assert.Equal(t, res.Bytes, m.Bytes)
	assert.Equal(t, "sha256", m.ChecksumAlgorithm)
	assert.Equal(t, res.Checksum, m.Checksum)
	assert.True(t, m.Valid)
	assert.Equal(t, 0, m.Errors)
	assert.Equal(t, 2, m.Warnings)
	assert.False(t, m.CreatedAt.IsZero())
}
