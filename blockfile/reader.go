package blockfile

import (
	"fmt"
	"math"

	"github.com/arloliu/blockbuf/buffer"
	"github.com/arloliu/blockbuf/endian"
	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/format"
	"go.uber.org/zap"
)

// MaxSliceSize is the largest physical span, tags included, that Reader.Slice
// hands out as one view.
const MaxSliceSize = math.MaxInt32

// Reader decodes a block stream from a Source and exposes its payload as one
// contiguous logical stream. Tags are consumed on the way and remembered, so
// IsDataBlock and IsHeaderBlock describe the block of the last byte read.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	src       Source
	layout    Layout
	engine    endian.EndianEngine
	srcSize   int64
	size      int64
	physical  int64
	logical   int64
	blockType format.BlockType
	closed    bool

	sugar *zap.SugaredLogger
}

var _ Source = (*Reader)(nil)

// NewReader creates a Reader over the whole of src and positions it at logical
// offset 0. The Reader owns src and closes it on Close.
//
// Parameters:
//   - src: Source holding the physical stream, read from its first byte
//   - opts: Optional configuration; the block size must match the writer's
//
// Returns:
//   - *Reader: New reader with the tag of the first block already consumed
//   - error: ErrInvalidArgument or ErrInvalidBlockSize for bad options,
//     ErrInvalidBlockType when the first tag is neither DATA nor HEADER
//
// Example:
//
//	src, _ := blockfile.OpenMapped("data.blk")
//	r, err := blockfile.NewReader(src, blockfile.WithBlockSize(4096))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
func NewReader(src Source, opts ...Option) (*Reader, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", errs.ErrInvalidArgument)
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	layout, err := NewLayout(cfg.blockSize)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		src:       src,
		layout:    layout,
		engine:    cfg.engine,
		srcSize:   src.Size(),
		blockType: format.DataBlock,
		sugar:     cfg.logger.Sugar(),
	}
	r.size = layout.LogicalSize(r.srcSize)

	if err := r.Seek(0); err != nil {
		return nil, err
	}

	return r, nil
}

// readTag consumes the tag at the current physical position, which must be a
// block boundary. On error the source is moved back onto the tag.
func (r *Reader) readTag() error {
	t, err := r.src.ReadByte()
	if err != nil {
		return err
	}

	bt := format.BlockType(t)
	if !bt.IsValid() {
		_ = r.src.Seek(r.physical)
		return fmt.Errorf("%w: tag 0x%02x at physical offset %d", errs.ErrInvalidBlockType, t, r.physical)
	}
	r.blockType = bt
	r.physical++

	return nil
}

func (r *Reader) endOfStream(n int) error {
	return fmt.Errorf("%w: need %d bytes at %d, size %d", errs.ErrEndOfStream, n, r.logical, r.size)
}

func (r *Reader) ReadByte() (byte, error) {
	if r.closed {
		return 0, errs.ErrClosed
	}
	if r.logical >= r.size {
		return 0, r.endOfStream(1)
	}

	start := r.logical
	if r.physical%r.layout.size == 0 {
		if err := r.readTag(); err != nil {
			return 0, err
		}
	}

	v, err := r.src.ReadByte()
	if err != nil {
		return 0, r.restore(start, err)
	}
	r.physical++
	r.logical++

	return v, nil
}

// ReadBytes fills dst with the next payload bytes, skipping tags. Either all of
// dst is read or the position is unchanged.
func (r *Reader) ReadBytes(dst []byte) error {
	if r.closed {
		return errs.ErrClosed
	}
	if int64(len(dst)) > r.size-r.logical {
		return r.endOfStream(len(dst))
	}

	start := r.logical
	for len(dst) > 0 {
		if r.physical%r.layout.size == 0 {
			if err := r.readTag(); err != nil {
				return r.restore(start, err)
			}
		}

		k := min(int64(len(dst)), r.layout.size-r.physical%r.layout.size)
		if err := r.src.ReadBytes(dst[:k]); err != nil {
			return r.restore(start, err)
		}
		r.physical += k
		r.logical += k
		dst = dst[k:]
	}

	return nil
}

// restore seeks back to logical position pos after a failed multi-block read or
// scan and returns err.
func (r *Reader) restore(pos int64, err error) error {
	_ = r.seek(pos)
	return err
}

// SkipBytes advances the logical position by n.
func (r *Reader) SkipBytes(n int) error {
	if r.closed {
		return errs.ErrClosed
	}
	if n < 0 {
		return fmt.Errorf("%w: negative skip %d", errs.ErrInvalidArgument, n)
	}
	if int64(n) > r.size-r.logical {
		return r.endOfStream(n)
	}

	return r.Seek(r.logical + int64(n))
}

// Seek moves to logical position pos in [0, Size()]. When pos lies inside a block,
// the block's tag is read so BlockType reflects it.
func (r *Reader) Seek(pos int64) error {
	if r.closed {
		return errs.ErrClosed
	}
	if pos < 0 || pos > r.size {
		return fmt.Errorf("%w: seek to %d, size %d", errs.ErrOutOfBounds, pos, r.size)
	}

	prevPhysical, prevType := r.physical, r.blockType
	if err := r.seek(pos); err != nil {
		r.physical, r.blockType = prevPhysical, prevType
		_ = r.src.Seek(prevPhysical)

		return err
	}

	return nil
}

func (r *Reader) seek(pos int64) error {
	start := r.layout.BlockStartOf(pos)
	if err := r.src.Seek(start); err != nil {
		return err
	}
	r.physical = start

	// end of a stream whose last block is full
	if start >= r.srcSize {
		r.logical = pos
		return nil
	}

	if err := r.readTag(); err != nil {
		return err
	}

	target := start + 1 + pos%(r.layout.size-1)
	if target != r.physical {
		if err := r.src.Seek(target); err != nil {
			return err
		}
	}
	r.physical = target
	r.logical = pos

	return nil
}

// SeekHeader moves to the first payload byte of the next HEADER block and reports
// whether one was found. The block under the cursor counts only if none of its
// payload has been consumed yet. When no HEADER block follows, the reader is left
// at the end of the stream and SeekHeader returns false.
//
// Returns:
//   - bool: True when the reader now sits on the first byte of a HEADER block
//   - error: ErrInvalidBlockType or a source error; the position is unchanged
//
// Example:
//
//	for {
//	    ok, err := r.SeekHeader()
//	    if err != nil || !ok {
//	        break
//	    }
//	    header, _, err := blockfile.ReadFrame(r)
//	    ...
//	}
func (r *Reader) SeekHeader() (bool, error) {
	if r.closed {
		return false, errs.ErrClosed
	}

	size := r.layout.size
	blk := r.physical / size
	if r.physical%size > 1 {
		blk++
	}

	prev := r.logical
	for ; blk*size < r.srcSize; blk++ {
		if err := r.src.Seek(blk * size); err != nil {
			return false, r.restore(prev, err)
		}
		r.physical = blk * size
		if err := r.readTag(); err != nil {
			return false, r.restore(prev, err)
		}

		if r.blockType == format.HeaderBlock {
			r.logical = blk * (size - 1)
			r.sugar.Debugw("header found", "block", blk, "logical", r.logical)

			return true, nil
		}
	}

	if err := r.src.Seek(r.srcSize); err != nil {
		return false, r.restore(prev, err)
	}
	r.physical = r.srcSize
	r.logical = r.size
	r.sugar.Debugw("no header found", "size", r.size)

	return false, nil
}

// Slice returns the next n logical bytes as a *View and advances past them.
// It satisfies Source; SliceView returns the concrete type.
func (r *Reader) Slice(n int) (buffer.ReadableBuffer, error) {
	v, err := r.SliceView(n)
	if err != nil {
		return nil, err
	}

	return v, nil
}

// SliceView returns a View over the next n logical bytes and advances past them.
// The view shares the source's storage when the source can slice without copying.
//
// Parameters:
//   - n: Number of logical bytes; block tags in between are skipped, not counted
//
// Returns:
//   - *View: Read-only view with its own cursor, starting at offset 0
//   - error: ErrEndOfStream when fewer than n bytes remain, ErrInvalidArgument
//     for a negative n or a span beyond MaxSliceSize; the position is unchanged
//
// Example:
//
//	v, err := r.SliceView(16)
//	if err != nil {
//	    return err
//	}
//	ts, _ := v.ReadUint64()
func (r *Reader) SliceView(n int) (*View, error) {
	if r.closed {
		return nil, errs.ErrClosed
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative slice %d", errs.ErrInvalidArgument, n)
	}
	if int64(n) > r.size-r.logical {
		return nil, r.endOfStream(n)
	}

	start := r.physical
	end := r.layout.Advance(start, int64(n))
	span := end - start
	if span > MaxSliceSize {
		return nil, fmt.Errorf("%w: slice spans %d physical bytes, maximum %d", errs.ErrInvalidArgument, span, MaxSliceSize)
	}

	buf, err := r.src.Slice(int(span))
	if err != nil {
		return nil, err
	}

	v := &View{
		buf:         buf,
		layout:      r.layout,
		engine:      r.engine,
		pStart:      start,
		initialType: r.blockType,
		lStart:      r.logical,
		length:      n,
	}

	if n > 0 {
		bt, err := v.typeOf(r.logical + int64(n) - 1)
		if err != nil {
			_ = r.src.Seek(start)
			return nil, err
		}
		r.blockType = bt
	}
	r.physical = end
	r.logical += int64(n)

	return v, nil
}

// Size returns the number of logical bytes in the stream.
func (r *Reader) Size() int64 {
	return r.size
}

// Position returns the current logical position.
func (r *Reader) Position() int64 {
	return r.logical
}

// PhysicalPosition returns the current position in the source, tags included.
func (r *Reader) PhysicalPosition() int64 {
	return r.physical
}

// BlockSize returns the physical block size.
func (r *Reader) BlockSize() int {
	return r.layout.BlockSize()
}

func (r *Reader) IsReadable() bool {
	return !r.closed && r.logical < r.size
}

// BlockType returns the type of the block the last byte was read from.
func (r *Reader) BlockType() format.BlockType {
	return r.blockType
}

func (r *Reader) IsDataBlock() bool {
	return r.blockType == format.DataBlock
}

func (r *Reader) IsHeaderBlock() bool {
	return r.blockType == format.HeaderBlock
}

// Close closes the source. Later calls return nil and do nothing.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.sugar.Debugw("close reader", "logical", r.logical, "size", r.size)

	return r.src.Close()
}
