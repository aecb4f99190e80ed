package blockfile

import (
	"fmt"

	"github.com/arloliu/blockbuf/errs"
)

// Layout maps between logical (payload) positions and physical positions of a
// stream made of fixed-size blocks. Byte 0 of every block is its tag, so each
// block carries S-1 payload bytes:
//
//	block:     |  0          |  1          |  2   ...
//	physical:  | T p p p p   | T p p p p   | T p ...
//	logical:   |   0 1 2 3   |   4 5 6 7   |   8 ...    (S = 5)
//
// Layout is a value type and safe to copy.
type Layout struct {
	size int64
}

// NewLayout returns the layout for blocks of blockSize bytes.
func NewLayout(blockSize int) (Layout, error) {
	if blockSize < 2 {
		return Layout{}, fmt.Errorf("%w: %d", errs.ErrInvalidBlockSize, blockSize)
	}

	return Layout{size: int64(blockSize)}, nil
}

// BlockSize returns S.
func (l Layout) BlockSize() int {
	return int(l.size)
}

// PayloadSize returns the payload bytes per block, S-1.
func (l Layout) PayloadSize() int {
	return int(l.size - 1)
}

// PhysicalOf returns the physical position of logical byte i.
func (l Layout) PhysicalOf(i int64) int64 {
	return i + i/(l.size-1) + 1
}

// BlockStartOf returns the physical position of the tag of the block holding
// logical byte i.
func (l Layout) BlockStartOf(i int64) int64 {
	return (i / (l.size - 1)) * l.size
}

// LogicalSize returns the number of payload bytes in a stream of physical bytes.
// A trailing partial block contributes everything after its tag.
func (l Layout) LogicalSize(physical int64) int64 {
	full, rem := physical/l.size, physical%l.size

	n := full * (l.size - 1)
	if rem > 1 {
		n += rem - 1
	}

	return n
}

// BlockCount returns the number of blocks, including a trailing partial one, in a
// stream of physical bytes.
func (l Layout) BlockCount(physical int64) int64 {
	return (physical + l.size - 1) / l.size
}

// Advance returns the physical position reached after consuming n payload bytes
// sequentially from physical position p, skipping every tag on the way. A tag at
// p itself is consumed only when n > 0.
func (l Layout) Advance(p int64, n int64) int64 {
	if n <= 0 {
		return p
	}

	if p%l.size == 0 {
		p++
	}

	room := l.size - p%l.size
	if n <= room {
		return p + n
	}
	n -= room
	p += room

	full, rem := n/(l.size-1), n%(l.size-1)
	p += full * l.size
	if rem > 0 {
		p += 1 + rem
	}

	return p
}
