package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
)

func TestCompressRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat(`<step id="s"><batchlet ref="com.example.B"/></step>`+"\n", 50))

	for _, format := range []Format{FormatNone, FormatGZIP, FormatBZIP2, FormatXZ} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Compress(format, &buf, payload))

			r, err := NewReader(format, &buf)
			require.NoError(t, err)
			out, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":      FormatNone,
		"none":  FormatNone,
		"GZIP":  FormatGZIP,
		"gz":    FormatGZIP,
		"bz2":   FormatBZIP2,
		"bzip2": FormatBZIP2,
		"xz":    FormatXZ,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("zip")
	assert.ErrorIs(t, err, errors.ErrUnsupportedCompression)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "", FormatNone.Extension())
	assert.Equal(t, ".gz", FormatGZIP.Extension())
	assert.Equal(t, ".bz2", FormatBZIP2.Extension())
	assert.Equal(t, ".xz", FormatXZ.Extension())
}
