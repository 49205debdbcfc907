package compression

import (
	"io"

	"github.com/ulikunitz/xz"
)

func newXZWriter(w io.Writer) (io.WriteCloser, error) {
	return xz.NewWriter(w)
}

func newXZReader(r io.Reader) (io.Reader, error) {
	return xz.NewReader(r)
}
