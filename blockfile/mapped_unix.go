//go:build linux || darwin || freebsd

package blockfile

import (
	"fmt"

	"github.com/arloliu/blockbuf/buffer"
	"golang.org/x/sys/unix"
)

// OpenMapped maps the file at path read-only and returns a source over the
// mapping. Slices share the mapped memory; Close unmaps it, after which every
// slice fails with errs.ErrReleased.
func OpenMapped(path string) (*BufferSource, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer unix.Close(fd)

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return nil, fmt.Errorf("stating %s: %w", path, err)
	}

	// mmap rejects zero-length mappings
	if stat.Size == 0 {
		return NewBytesSource(nil)
	}

	data, err := unix.Mmap(fd, 0, int(stat.Size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("memory-mapping %s: %w", path, err)
	}

	buf, err := buffer.WrapNative(data, true, unix.Munmap)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}

	return newOwningSource(buf), nil
}
