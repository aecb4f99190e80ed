package buffer

import (
	"bytes"
	"io"

	"github.com/arloliu/blockbuf/endian"
	"github.com/arloliu/blockbuf/internal/hash"
)

// ReadableBuffer is the read-side contract shared by Buffer, Composite and the
// block-organized views built on top of this package.
//
// Absolute indices (GetByte, GetBytes, Region, SetReaderIndex) are relative to the
// buffer's own window, in [0, Capacity()).
type ReadableBuffer interface {
	io.ByteReader

	// ReadBytes fills dst from the read cursor, or fails without moving it.
	ReadBytes(dst []byte) error
	// SkipBytes advances the read cursor by n, or fails without moving it.
	SkipBytes(n int) error

	GetByte(index int) (byte, error)
	GetBytes(index int, dst []byte) error

	ReaderIndex() int
	SetReaderIndex(index int) error
	ReadableBytes() int
	IsReadable() bool
	Capacity() int

	// Order returns the byte order used for multi-byte values.
	Order() endian.EndianEngine

	// Region returns an independent readable buffer over [index, index+length),
	// sharing storage and leaving this buffer's cursor untouched.
	Region(index, length int) (ReadableBuffer, error)
}

// chunkSize bounds the scratch space used when comparing or hashing buffers that
// do not expose contiguous memory.
const chunkSize = 512

// Equal reports whether the readable bytes of a and b are identical.
func Equal(a, b ReadableBuffer) bool {
	n := a.ReadableBytes()
	if n != b.ReadableBytes() {
		return false
	}

	var x, y [chunkSize]byte
	ai, bi := a.ReaderIndex(), b.ReaderIndex()
	for n > 0 {
		k := min(n, chunkSize)
		if a.GetBytes(ai, x[:k]) != nil || b.GetBytes(bi, y[:k]) != nil {
			return false
		}
		if !bytes.Equal(x[:k], y[:k]) {
			return false
		}
		ai += k
		bi += k
		n -= k
	}

	return true
}

// Hash returns the xxHash64 of the readable bytes of r. It matches Buffer.Hash for
// the same content regardless of how r is segmented.
func Hash(r ReadableBuffer) uint64 {
	d := hash.NewDigest()

	var scratch [chunkSize]byte
	idx, n := r.ReaderIndex(), r.ReadableBytes()
	for n > 0 {
		k := min(n, chunkSize)
		if err := r.GetBytes(idx, scratch[:k]); err != nil {
			break
		}
		_, _ = d.Write(scratch[:k])
		idx += k
		n -= k
	}

	return d.Sum64()
}

// ReadAll copies the readable bytes of r into a new slice and advances r to its end.
func ReadAll(r ReadableBuffer) ([]byte, error) {
	out := make([]byte, r.ReadableBytes())
	if err := r.ReadBytes(out); err != nil {
		return nil, err
	}

	return out, nil
}
