package blockfile

import (
	"fmt"
	"io"

	"github.com/arloliu/blockbuf/buffer"
	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/internal/pool"
)

// MemorySink collects written bytes in a growable pooled buffer.
//
// The bytes stay available after Close; Release hands the storage back to the
// pool and invalidates everything obtained from Bytes or Buffer.
type MemorySink struct {
	bb     *pool.ByteBuffer
	closed bool
}

var (
	_ Sink        = (*MemorySink)(nil)
	_ io.WriterTo = (*MemorySink)(nil)
)

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{bb: pool.GetSinkBuffer()}
}

func (s *MemorySink) check() error {
	if s.closed || s.bb == nil {
		return errs.ErrClosed
	}

	return nil
}

func (s *MemorySink) WriteByte(v byte) error {
	if err := s.check(); err != nil {
		return err
	}

	return s.bb.WriteByte(v)
}

func (s *MemorySink) WriteBytes(src []byte) error {
	if err := s.check(); err != nil {
		return err
	}
	_, _ = s.bb.Write(src)

	return nil
}

func (s *MemorySink) WriteZeroBytes(n int) error {
	if err := s.check(); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", errs.ErrInvalidArgument, n)
	}
	s.bb.WriteZeros(n)

	return nil
}

func (s *MemorySink) Position() int64 {
	if s.bb == nil {
		return 0
	}

	return int64(s.bb.Len())
}

func (s *MemorySink) Flush() error {
	return s.check()
}

// Close stops further writes. It is safe to call more than once.
func (s *MemorySink) Close() error {
	s.closed = true
	return nil
}

// Bytes returns the written bytes without copying. The slice is valid until the
// next write or Release.
func (s *MemorySink) Bytes() []byte {
	if s.bb == nil {
		return nil
	}

	return s.bb.Bytes()
}

// WriteTo writes the bytes collected so far to w, typically to persist a stream
// built in memory. It works before and after Close.
func (s *MemorySink) WriteTo(w io.Writer) (int64, error) {
	if s.bb == nil {
		return 0, errs.ErrReleased
	}

	return s.bb.WriteTo(w)
}

// Buffer wraps the written bytes in a readable buffer without copying.
func (s *MemorySink) Buffer() (*buffer.Buffer, error) {
	if s.bb == nil {
		return nil, errs.ErrReleased
	}

	return buffer.Wrap(s.bb.Bytes())
}

// Source returns a Source over the written bytes without copying.
func (s *MemorySink) Source() (*BufferSource, error) {
	buf, err := s.Buffer()
	if err != nil {
		return nil, err
	}

	return NewBufferSource(buf), nil
}

// Release closes the sink and returns its storage to the pool.
func (s *MemorySink) Release() {
	s.closed = true
	if s.bb != nil {
		pool.PutSinkBuffer(s.bb)
		s.bb = nil
	}
}

// BufferSource reads from the readable bytes of a buffer. Slices share the
// buffer's storage.
type BufferSource struct {
	buf    *buffer.Buffer
	owned  *buffer.Buffer // released on Close, nil when borrowed
	closed bool
}

var _ Source = (*BufferSource)(nil)

// NewBufferSource creates a source over buf's readable bytes. buf's own cursors
// are not moved, and Close does not release buf.
func NewBufferSource(buf *buffer.Buffer) *BufferSource {
	d := buf.Duplicate()
	view, err := d.Slice(d.ReadableBytes())
	if err != nil {
		// released buffer, reads report errs.ErrReleased
		view = d
	}

	return &BufferSource{buf: view}
}

// NewBytesSource creates a source over data without copying.
func NewBytesSource(data []byte) (*BufferSource, error) {
	if data == nil {
		data = []byte{}
	}

	buf, err := buffer.Wrap(data)
	if err != nil {
		return nil, err
	}

	return NewBufferSource(buf), nil
}

// newOwningSource creates a source that releases buf on Close.
func newOwningSource(buf *buffer.Buffer) *BufferSource {
	src := NewBufferSource(buf)
	src.owned = buf

	return src
}

func (s *BufferSource) check() error {
	if s.closed {
		return errs.ErrClosed
	}

	return nil
}

func (s *BufferSource) endOfStream(n int) error {
	return fmt.Errorf("%w: need %d bytes at %d, size %d", errs.ErrEndOfStream, n, s.buf.ReaderIndex(), s.buf.Capacity())
}

func (s *BufferSource) ReadByte() (byte, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if !s.buf.IsReadable() {
		return 0, s.endOfStream(1)
	}

	return s.buf.ReadByte()
}

func (s *BufferSource) ReadBytes(dst []byte) error {
	if err := s.check(); err != nil {
		return err
	}
	if len(dst) > s.buf.ReadableBytes() {
		return s.endOfStream(len(dst))
	}

	return s.buf.ReadBytes(dst)
}

func (s *BufferSource) SkipBytes(n int) error {
	if err := s.check(); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative skip %d", errs.ErrInvalidArgument, n)
	}
	if n > s.buf.ReadableBytes() {
		return s.endOfStream(n)
	}

	return s.buf.SkipBytes(n)
}

// Slice returns the next n bytes sharing storage with the source.
func (s *BufferSource) Slice(n int) (buffer.ReadableBuffer, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative slice %d", errs.ErrInvalidArgument, n)
	}
	if n > s.buf.ReadableBytes() {
		return nil, s.endOfStream(n)
	}

	b, err := s.buf.Slice(n)
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (s *BufferSource) Size() int64 {
	return int64(s.buf.Capacity())
}

func (s *BufferSource) Position() int64 {
	return int64(s.buf.ReaderIndex())
}

func (s *BufferSource) Seek(pos int64) error {
	if err := s.check(); err != nil {
		return err
	}
	if pos < 0 || pos > s.Size() {
		return fmt.Errorf("%w: seek to %d, size %d", errs.ErrOutOfBounds, pos, s.Size())
	}

	return s.buf.SetReaderIndex(int(pos))
}

func (s *BufferSource) IsReadable() bool {
	return !s.closed && s.buf.IsReadable()
}

// Close releases the backing buffer if the source owns it. It is safe to call
// more than once.
func (s *BufferSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.owned != nil {
		return s.owned.Release()
	}

	return nil
}
