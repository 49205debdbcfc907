package compression

import (
	"fmt"
	"io"
	"strings"

	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
)

// Format is a stream compression format
type Format string

const (
	FormatNone  Format = "none"
	FormatGZIP  Format = "gzip"
	FormatBZIP2 Format = "bzip2"
	FormatXZ    Format = "xz"
)

// ParseFormat maps a user supplied name to a Format. The empty string means none.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return FormatNone, nil
	case "gzip", "gz":
		return FormatGZIP, nil
	case "bzip2", "bz2":
		return FormatBZIP2, nil
	case "xz":
		return FormatXZ, nil
	default:
		return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedCompression, name)
	}
}

// Extension returns the file extension appended for the format, including the dot
func (f Format) Extension() string {
	switch f {
	case FormatGZIP:
		return ".gz"
	case FormatBZIP2:
		return ".bz2"
	case FormatXZ:
		return ".xz"
	default:
		return ""
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with a compressing writer. Closing the returned writer flushes the
// compressed stream but does not close w.
func NewWriter(format Format, w io.Writer) (io.WriteCloser, error) {
	switch format {
	case FormatNone, "":
		return nopWriteCloser{w}, nil
	case FormatGZIP:
		return newGZIPWriter(w)
	case FormatBZIP2:
		return newBZIP2Writer(w)
	case FormatXZ:
		return newXZWriter(w)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedCompression, format)
	}
}

// NewReader wraps r with a decompressing reader for the format.
func NewReader(format Format, r io.Reader) (io.Reader, error) {
	switch format {
	case FormatNone, "":
		return r, nil
	case FormatGZIP:
		return newGZIPReader(r)
	case FormatBZIP2:
		return newBZIP2Reader(r)
	case FormatXZ:
		return newXZReader(r)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedCompression, format)
	}
}

// Compress writes data to w in the given format
func Compress(format Format, w io.Writer, data []byte) error {
	cw, err := NewWriter(format, w)
	if err != nil {
		return err
	}
	if _, err := cw.Write(data); err != nil {
		cw.Close()
		return fmt.Errorf("%w: %s", errors.ErrCompressionFailed, err.Error())
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrCompressionFailed, err.Error())
	}
	return nil
}
