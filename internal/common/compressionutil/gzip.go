package compression

import (
	"compress/gzip"
	"io"
)

func newGZIPWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, gzip.BestCompression)
}

func newGZIPReader(r io.Reader) (io.Reader, error) {
	return gzip.NewReader(r)
}
