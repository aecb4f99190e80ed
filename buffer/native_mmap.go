//go:build linux || darwin || freebsd

package buffer

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mapAnonymous allocates n bytes outside the Go heap with an anonymous private mapping.
func mapAnonymous(n int) (*nativeStorage, error) {
	if n == 0 {
		return &nativeStorage{sliceStorage: sliceStorage{data: []byte{}}}, nil
	}

	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", n, err)
	}

	return &nativeStorage{
		sliceStorage: sliceStorage{data: data},
		free:         unix.Munmap,
	}, nil
}
