//go:build !(linux || darwin || freebsd)

package blockfile

import (
	"os"

	"github.com/arloliu/blockbuf/buffer"
)

// OpenMapped reads the whole file at path into memory on platforms without mmap
// and returns a source over it.
func OpenMapped(path string) (*BufferSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	buf, err := buffer.Wrap(data)
	if err != nil {
		return nil, err
	}

	return newOwningSource(buf), nil
}
