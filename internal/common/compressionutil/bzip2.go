package compression

import (
	"io"

	"github.com/dsnet/compress/bzip2"
)

func newBZIP2Writer(w io.Writer) (io.WriteCloser, error) {
	return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
}

func newBZIP2Reader(r io.Reader) (io.Reader, error) {
	return bzip2.NewReader(r, nil)
}
