//go:build !linux && !darwin && !freebsd

package buffer

// mapAnonymous falls back to a heap slice on platforms without anonymous mmap.
func mapAnonymous(n int) (*nativeStorage, error) {
	return &nativeStorage{sliceStorage: sliceStorage{data: make([]byte, n)}}, nil
}
