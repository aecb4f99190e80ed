package buffer

import (
	"fmt"
	"sort"

	"github.com/arloliu/blockbuf/endian"
	"github.com/arloliu/blockbuf/errs"
)

// segmentList is the append-only segment sequence shared by a composite and its slices.
type segmentList struct {
	items  []ReadableBuffer
	starts []int // starts[i] is the absolute position of items[i]
	total  int
}

// find returns the index of the segment containing absolute position pos.
func (l *segmentList) find(pos int) int {
	return sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > pos }) - 1
}

// Composite presents a sequence of readable buffers as one contiguous, read-only
// buffer. Segments are snapshots taken by Add; nothing is copied.
//
// The segment under the read cursor is cached so sequential reads do not search
// the segment list on every byte.
type Composite struct {
	segs        *segmentList
	root        bool
	offset      int // absolute position of index 0
	capacity    int
	readerIndex int
	engine      endian.EndianEngine

	// cache for the segment holding offset+readerIndex; seg is nil at the end.
	segIdx   int
	segStart int
	seg      ReadableBuffer
}

var _ ReadableBuffer = (*Composite)(nil)

// NewComposite creates a composite over the readable bytes of the given buffers.
//
// Parameters:
//   - buffers: Segments in read order; each contributes its readable bytes at the
//     time of the call and keeps sharing its storage
//
// Returns:
//   - *Composite: New composite with its read cursor at 0
//   - error: ErrInvalidArgument for a nil segment, or the error of a segment
//     whose bytes cannot be captured
//
// Example:
//
//	c, err := buffer.NewComposite(head, body)
//	if err != nil {
//	    return err
//	}
//	v, _ := c.ReadUint32() // may span head and body
func NewComposite(buffers ...ReadableBuffer) (*Composite, error) {
	c := &Composite{
		segs:   &segmentList{},
		root:   true,
		engine: endian.DefaultEngine(),
	}

	for _, b := range buffers {
		if err := c.Add(b); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Add appends a snapshot of buf's readable bytes. Moving buf's cursors afterwards
// does not affect the composite. Empty buffers are skipped.
//
// Add is only valid on a composite created by NewComposite, not on its slices.
func (c *Composite) Add(buf ReadableBuffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil segment", errs.ErrInvalidArgument)
	}
	if !c.root {
		return fmt.Errorf("%w: cannot add to a sliced composite", errs.ErrInvalidArgument)
	}

	n := buf.ReadableBytes()
	if n == 0 {
		return nil
	}

	snap, err := buf.Region(buf.ReaderIndex(), n)
	if err != nil {
		return err
	}

	l := c.segs
	l.items = append(l.items, snap)
	l.starts = append(l.starts, l.total)
	l.total += n
	c.capacity += n
	c.sync()

	return nil
}

// Segments returns the number of segments visible through this composite's window.
func (c *Composite) Segments() int {
	if c.capacity == 0 {
		return 0
	}

	first := c.segs.find(c.offset)
	last := c.segs.find(c.offset + c.capacity - 1)

	return last - first + 1
}

// sync refreshes the cached segment after the read cursor moved.
func (c *Composite) sync() {
	if c.readerIndex >= c.capacity {
		c.seg = nil
		c.segIdx = -1
		return
	}

	pos := c.offset + c.readerIndex
	if c.seg != nil && pos >= c.segStart && pos < c.segStart+c.seg.Capacity() {
		return
	}

	idx := c.segIdx + 1
	if c.seg == nil || idx >= len(c.segs.items) || c.segs.starts[idx] != pos {
		idx = c.segs.find(pos)
	}

	c.segIdx = idx
	c.segStart = c.segs.starts[idx]
	c.seg = c.segs.items[idx]
}

// Order returns the byte order used for multi-byte values.
func (c *Composite) Order() endian.EndianEngine {
	return c.engine
}

// SetOrder sets the byte order used for multi-byte values and returns c.
func (c *Composite) SetOrder(engine endian.EndianEngine) *Composite {
	if engine == nil {
		engine = endian.DefaultEngine()
	}
	c.engine = engine

	return c
}

func (c *Composite) Capacity() int {
	return c.capacity
}

func (c *Composite) ReaderIndex() int {
	return c.readerIndex
}

// SetReaderIndex moves the read cursor. index must lie in [0, Capacity()].
func (c *Composite) SetReaderIndex(index int) error {
	if index < 0 || index > c.capacity {
		return errs.OutOfBounds(index, 0, c.capacity)
	}
	c.readerIndex = index
	c.sync()

	return nil
}

// WriterIndex always equals Capacity; a composite is read-only.
func (c *Composite) WriterIndex() int {
	return c.capacity
}

func (c *Composite) ReadableBytes() int {
	return c.capacity - c.readerIndex
}

func (c *Composite) IsReadable() bool {
	return c.readerIndex < c.capacity
}

func (c *Composite) ReadByte() (byte, error) {
	if c.readerIndex >= c.capacity {
		return 0, errs.NotEnough(1, 0)
	}

	v, err := c.seg.GetByte(c.offset + c.readerIndex - c.segStart)
	if err != nil {
		return 0, err
	}
	c.readerIndex++
	c.sync()

	return v, nil
}

// ReadBytes fills dst from the read cursor, crossing segment boundaries as needed.
func (c *Composite) ReadBytes(dst []byte) error {
	if len(dst) > c.ReadableBytes() {
		return errs.NotEnough(len(dst), c.ReadableBytes())
	}

	start := c.readerIndex
	for copied := 0; copied < len(dst); {
		local := c.offset + c.readerIndex - c.segStart
		k := min(len(dst)-copied, c.seg.Capacity()-local)
		if err := c.seg.GetBytes(local, dst[copied:copied+k]); err != nil {
			c.readerIndex = start
			c.sync()

			return err
		}
		copied += k
		c.readerIndex += k
		c.sync()
	}

	return nil
}

func (c *Composite) SkipBytes(n int) error {
	if n < 0 || n > c.ReadableBytes() {
		return errs.NotEnough(n, c.ReadableBytes())
	}
	c.readerIndex += n
	c.sync()

	return nil
}

// GetByte returns the byte at index without moving the read cursor.
func (c *Composite) GetByte(index int) (byte, error) {
	if index < 0 || index >= c.capacity {
		return 0, errs.OutOfBounds(index, 1, c.capacity)
	}

	pos := c.offset + index
	if c.seg != nil && pos >= c.segStart && pos < c.segStart+c.seg.Capacity() {
		return c.seg.GetByte(pos - c.segStart)
	}

	i := c.segs.find(pos)

	return c.segs.items[i].GetByte(pos - c.segs.starts[i])
}

// GetBytes copies len(dst) bytes starting at index without moving the read cursor.
func (c *Composite) GetBytes(index int, dst []byte) error {
	if index < 0 || index > c.capacity-len(dst) {
		return errs.OutOfBounds(index, len(dst), c.capacity)
	}

	pos := c.offset + index
	for copied := 0; copied < len(dst); {
		i := c.segs.find(pos)
		seg := c.segs.items[i]
		local := pos - c.segs.starts[i]
		k := min(len(dst)-copied, seg.Capacity()-local)
		if err := seg.GetBytes(local, dst[copied:copied+k]); err != nil {
			return err
		}
		copied += k
		pos += k
	}

	return nil
}

// Region returns a composite over [index, index+length) sharing the segment list.
func (c *Composite) Region(index, length int) (ReadableBuffer, error) {
	r, err := c.region(index, length)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (c *Composite) region(index, length int) (*Composite, error) {
	if index < 0 || length < 0 || index > c.capacity-length {
		return nil, errs.OutOfBounds(index, length, c.capacity)
	}

	r := &Composite{
		segs:     c.segs,
		offset:   c.offset + index,
		capacity: length,
		engine:   c.engine,
		segIdx:   -1,
	}
	r.sync()

	return r, nil
}

// Slice advances the read cursor by n and returns a composite over exactly those
// bytes, with its own cursor starting at 0.
func (c *Composite) Slice(n int) (*Composite, error) {
	if n < 0 || n > c.ReadableBytes() {
		return nil, errs.NotEnough(n, c.ReadableBytes())
	}

	s, err := c.region(c.readerIndex, n)
	if err != nil {
		return nil, err
	}
	c.readerIndex += n
	c.sync()

	return s, nil
}

func (c *Composite) ReadUint16() (uint16, error) { return ReadUint16(c) }
func (c *Composite) ReadUint32() (uint32, error) { return ReadUint32(c) }
func (c *Composite) ReadUint64() (uint64, error) { return ReadUint64(c) }
func (c *Composite) ReadInt16() (int16, error) { return ReadInt16(c) }
func (c *Composite) ReadInt32() (int32, error) { return ReadInt32(c) }
func (c *Composite) ReadInt64() (int64, error) { return ReadInt64(c) }

// Equal reports whether the readable bytes of c and other are identical.
func (c *Composite) Equal(other ReadableBuffer) bool {
	return Equal(c, other)
}

// Hash returns the xxHash64 of the readable bytes.
func (c *Composite) Hash() uint64 {
	return Hash(c)
}
