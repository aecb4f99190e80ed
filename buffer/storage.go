package buffer

import (
	"github.com/arloliu/blockbuf/format"
	"github.com/arloliu/blockbuf/internal/pool"
)

// storage is the backing region shared by a buffer and everything derived from it.
//
// Indices passed to the accessors are absolute positions within the storage;
// Buffer performs all bounds checking before calling them.
type storage interface {
	kind() format.StorageKind
	size() int
	getByte(i int) byte
	getBytes(i int, dst []byte)
	setByte(i int, v byte)
	setBytes(i int, src []byte)
	// window returns data[i:j] without copying. Used for hashing and comparison.
	window(i, j int) []byte
	// array returns the raw backing array, or nil when it is not exposed.
	array() []byte
	readOnly() bool
	released() bool
	release() error
}

// sliceStorage implements the accessors over a byte slice. Every variant embeds it
// and differs only in how the slice is obtained and released.
type sliceStorage struct {
	data []byte
	dead bool
}

func (s *sliceStorage) size() int {
	return len(s.data)
}

func (s *sliceStorage) getByte(i int) byte {
	return s.data[i]
}

func (s *sliceStorage) getBytes(i int, dst []byte) {
	copy(dst, s.data[i:i+len(dst)])
}

func (s *sliceStorage) setByte(i int, v byte) {
	s.data[i] = v
}

func (s *sliceStorage) setBytes(i int, src []byte) {
	copy(s.data[i:i+len(src)], src)
}

func (s *sliceStorage) window(i, j int) []byte {
	return s.data[i:j]
}

func (s *sliceStorage) readOnly() bool {
	return false
}

func (s *sliceStorage) released() bool {
	return s.dead
}

// heapStorage is a Go-heap slice. Releasing only drops the reference.
type heapStorage struct {
	sliceStorage
}

func newHeapStorage(data []byte) *heapStorage {
	return &heapStorage{sliceStorage{data: data}}
}

func (s *heapStorage) kind() format.StorageKind {
	return format.StorageHeap
}

func (s *heapStorage) array() []byte {
	if s.dead {
		return nil
	}

	return s.data
}

func (s *heapStorage) release() error {
	s.dead = true
	s.data = nil

	return nil
}

// pooledStorage is a slice borrowed from a ByteBufferPool and handed back on release.
type pooledStorage struct {
	sliceStorage
	bb   *pool.ByteBuffer
	from *pool.ByteBufferPool
}

func newPooledStorage(from *pool.ByteBufferPool, n int) *pooledStorage {
	bb := from.GetSized(n)

	return &pooledStorage{
		sliceStorage: sliceStorage{data: bb.B},
		bb:           bb,
		from:         from,
	}
}

func (s *pooledStorage) kind() format.StorageKind {
	return format.StoragePooled
}

func (s *pooledStorage) array() []byte {
	if s.dead {
		return nil
	}

	return s.data
}

func (s *pooledStorage) release() error {
	if s.dead {
		return nil
	}
	s.dead = true
	s.data = nil
	s.from.Put(s.bb)
	s.bb = nil

	return nil
}

// nativeStorage is memory outside the Go heap, typically an mmap region.
// The raw array is never exposed since it must not outlive release.
type nativeStorage struct {
	sliceStorage
	ro   bool
	free func([]byte) error
}

func (s *nativeStorage) kind() format.StorageKind {
	return format.StorageNative
}

func (s *nativeStorage) array() []byte {
	return nil
}

func (s *nativeStorage) readOnly() bool {
	return s.ro
}

func (s *nativeStorage) release() error {
	if s.dead {
		return nil
	}
	s.dead = true
	data := s.data
	s.data = nil

	if s.free == nil || len(data) == 0 {
		return nil
	}

	return s.free(data)
}
