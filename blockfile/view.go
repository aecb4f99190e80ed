package blockfile

import (
	"fmt"

	"github.com/arloliu/blockbuf/buffer"
	"github.com/arloliu/blockbuf/endian"
	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/format"
)

// View is a readable window over a range of a block stream's logical bytes, as
// returned by Reader.SliceView. It reads straight from the physical bytes handed
// out by the source and skips tags on the fly, so nothing is copied when the
// source slices without copying.
//
// A view has its own cursor. Its block type follows its own cursor and may
// differ from the parent reader's when the range spans several blocks.
type View struct {
	buf    buffer.ReadableBuffer // physical bytes from pStart
	layout Layout
	engine endian.EndianEngine

	// pStart is the physical position of buf[0] in the stream. When it falls
	// inside a block, that block's tag lies before buf and initialType stands in
	// for it.
	pStart      int64
	initialType format.BlockType

	lStart      int64 // logical position of index 0 in the stream
	length      int
	readerIndex int
}

var _ buffer.ReadableBuffer = (*View)(nil)

// physIndex returns the index within buf of logical stream byte l.
func (v *View) physIndex(l int64) int {
	return int(v.layout.PhysicalOf(l) - v.pStart)
}

// typeOf returns the type of the block holding logical stream byte l.
func (v *View) typeOf(l int64) (format.BlockType, error) {
	idx := v.layout.BlockStartOf(l) - v.pStart
	if idx < 0 {
		return v.initialType, nil
	}

	t, err := v.buf.GetByte(int(idx))
	if err != nil {
		return 0, err
	}

	bt := format.BlockType(t)
	if !bt.IsValid() {
		return 0, fmt.Errorf("%w: tag 0x%02x at physical offset %d", errs.ErrInvalidBlockType, t, v.pStart+idx)
	}

	return bt, nil
}

// BlockType returns the type of the block holding the byte under the cursor, or of
// the last byte once the view is exhausted. An empty view reports the type the
// parent had when it was sliced.
func (v *View) BlockType() format.BlockType {
	if v.length == 0 {
		return v.initialType
	}

	bt, err := v.typeOf(v.lStart + int64(min(v.readerIndex, v.length-1)))
	if err != nil {
		return 0
	}

	return bt
}

func (v *View) IsDataBlock() bool {
	return v.BlockType() == format.DataBlock
}

func (v *View) IsHeaderBlock() bool {
	return v.BlockType() == format.HeaderBlock
}

// Position returns the logical stream position of index 0.
func (v *View) Position() int64 {
	return v.lStart
}

// Order returns the byte order used for multi-byte reads.
func (v *View) Order() endian.EndianEngine {
	return v.engine
}

func (v *View) Capacity() int {
	return v.length
}

func (v *View) ReaderIndex() int {
	return v.readerIndex
}

// SetReaderIndex moves the cursor. index must lie in [0, Capacity()].
func (v *View) SetReaderIndex(index int) error {
	if index < 0 || index > v.length {
		return errs.OutOfBounds(index, 0, v.length)
	}
	v.readerIndex = index

	return nil
}

func (v *View) ReadableBytes() int {
	return v.length - v.readerIndex
}

func (v *View) IsReadable() bool {
	return v.readerIndex < v.length
}

// GetByte returns the byte at view index without moving the cursor.
func (v *View) GetByte(index int) (byte, error) {
	if index < 0 || index >= v.length {
		return 0, errs.OutOfBounds(index, 1, v.length)
	}

	return v.buf.GetByte(v.physIndex(v.lStart + int64(index)))
}

// GetBytes copies len(dst) bytes from view index on without moving the cursor.
func (v *View) GetBytes(index int, dst []byte) error {
	if index < 0 || index > v.length-len(dst) {
		return errs.OutOfBounds(index, len(dst), v.length)
	}

	payload := int64(v.layout.PayloadSize())
	l := v.lStart + int64(index)
	for len(dst) > 0 {
		k := min(int64(len(dst)), payload-l%payload)
		if err := v.buf.GetBytes(v.physIndex(l), dst[:k]); err != nil {
			return err
		}
		l += k
		dst = dst[k:]
	}

	return nil
}

func (v *View) ReadByte() (byte, error) {
	if v.readerIndex >= v.length {
		return 0, errs.NotEnough(1, 0)
	}

	b, err := v.GetByte(v.readerIndex)
	if err != nil {
		return 0, err
	}
	v.readerIndex++

	return b, nil
}

func (v *View) ReadBytes(dst []byte) error {
	if len(dst) > v.ReadableBytes() {
		return errs.NotEnough(len(dst), v.ReadableBytes())
	}

	if err := v.GetBytes(v.readerIndex, dst); err != nil {
		return err
	}
	v.readerIndex += len(dst)

	return nil
}

func (v *View) SkipBytes(n int) error {
	if n < 0 || n > v.ReadableBytes() {
		return errs.NotEnough(n, v.ReadableBytes())
	}
	v.readerIndex += n

	return nil
}

// Region returns a view over [index, index+length) sharing this view's bytes.
func (v *View) Region(index, length int) (buffer.ReadableBuffer, error) {
	r, err := v.region(index, length)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (v *View) region(index, length int) (*View, error) {
	if index < 0 || length < 0 || index > v.length-length {
		return nil, errs.OutOfBounds(index, length, v.length)
	}

	return &View{
		buf:         v.buf,
		layout:      v.layout,
		engine:      v.engine,
		pStart:      v.pStart,
		initialType: v.initialType,
		lStart:      v.lStart + int64(index),
		length:      length,
	}, nil
}

// Slice advances the cursor by n and returns a view over exactly those bytes.
func (v *View) Slice(n int) (*View, error) {
	if n < 0 || n > v.ReadableBytes() {
		return nil, errs.NotEnough(n, v.ReadableBytes())
	}

	s, err := v.region(v.readerIndex, n)
	if err != nil {
		return nil, err
	}
	v.readerIndex += n

	return s, nil
}

func (v *View) ReadUint16() (uint16, error) { return buffer.ReadUint16(v) }
func (v *View) ReadUint32() (uint32, error) { return buffer.ReadUint32(v) }
func (v *View) ReadUint64() (uint64, error) { return buffer.ReadUint64(v) }
func (v *View) ReadInt16() (int16, error) { return buffer.ReadInt16(v) }
func (v *View) ReadInt32() (int32, error) { return buffer.ReadInt32(v) }
func (v *View) ReadInt64() (int64, error) { return buffer.ReadInt64(v) }

// Equal reports whether the readable bytes of v and other are identical.
func (v *View) Equal(other buffer.ReadableBuffer) bool {
	return buffer.Equal(v, other)
}

// Hash returns the xxHash64 of the readable bytes, matching buffer.Buffer.Hash for
// the same content.
func (v *View) Hash() uint64 {
	return buffer.Hash(v)
}
