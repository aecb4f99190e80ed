package blockfile

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/blockbuf/buffer"
	"github.com/arloliu/blockbuf/errs"
)

const fileBufferSize = 64 << 10

// FileSink appends to an *os.File through a write buffer. Position counts the
// bytes written through this sink.
type FileSink struct {
	f      *os.File
	w      *bufio.Writer
	pos    int64
	closed bool
}

var _ Sink = (*FileSink)(nil)

// NewFileSink creates a sink writing at f's current offset. Close closes f.
func NewFileSink(f *os.File) *FileSink {
	return &FileSink{f: f, w: bufio.NewWriterSize(f, fileBufferSize)}
}

// CreateFile creates or truncates the file at path and returns a sink over it.
func CreateFile(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return NewFileSink(f), nil
}

func (s *FileSink) WriteByte(v byte) error {
	if s.closed {
		return errs.ErrClosed
	}
	if err := s.w.WriteByte(v); err != nil {
		return err
	}
	s.pos++

	return nil
}

func (s *FileSink) WriteBytes(src []byte) error {
	if s.closed {
		return errs.ErrClosed
	}
	n, err := s.w.Write(src)
	s.pos += int64(n)

	return err
}

func (s *FileSink) WriteZeroBytes(n int) error {
	if s.closed {
		return errs.ErrClosed
	}
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", errs.ErrInvalidArgument, n)
	}

	var zeros [512]byte
	for n > 0 {
		k, err := s.w.Write(zeros[:min(n, len(zeros))])
		s.pos += int64(k)
		n -= k
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *FileSink) Position() int64 {
	return s.pos
}

// Flush writes buffered bytes to the file. It does not sync.
func (s *FileSink) Flush() error {
	if s.closed {
		return errs.ErrClosed
	}

	return s.w.Flush()
}

// Close flushes and closes the file. It is safe to call more than once.
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	flushErr := s.w.Flush()
	closeErr := s.f.Close()
	if flushErr != nil {
		return flushErr
	}

	return closeErr
}

// FileSource reads an *os.File through a read buffer. Slices are copied into
// heap buffers; use OpenMapped for zero-copy access.
type FileSource struct {
	f      *os.File
	r      *bufio.Reader
	size   int64
	pos    int64
	closed bool
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a source over the whole of f, positioned at 0.
// Close closes f.
func NewFileSource(f *os.File) (*FileSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	return &FileSource{
		f:    f,
		r:    bufio.NewReaderSize(f, fileBufferSize),
		size: info.Size(),
	}, nil
}

// OpenFile opens the file at path read-only and returns a source over it.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := NewFileSource(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return src, nil
}

func (s *FileSource) need(n int) error {
	if s.closed {
		return errs.ErrClosed
	}
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", errs.ErrInvalidArgument, n)
	}
	if int64(n) > s.size-s.pos {
		return fmt.Errorf("%w: need %d bytes at %d, size %d", errs.ErrEndOfStream, n, s.pos, s.size)
	}

	return nil
}

func (s *FileSource) ReadByte() (byte, error) {
	if err := s.need(1); err != nil {
		return 0, err
	}

	v, err := s.r.ReadByte()
	if err != nil {
		return 0, s.resync(err)
	}
	s.pos++

	return v, nil
}

func (s *FileSource) ReadBytes(dst []byte) error {
	if err := s.need(len(dst)); err != nil {
		return err
	}

	if _, err := io.ReadFull(s.r, dst); err != nil {
		return s.resync(err)
	}
	s.pos += int64(len(dst))

	return nil
}

func (s *FileSource) SkipBytes(n int) error {
	if err := s.need(n); err != nil {
		return err
	}

	if _, err := s.r.Discard(n); err != nil {
		return s.resync(err)
	}
	s.pos += int64(n)

	return nil
}

// Slice copies the next n bytes into a new heap buffer.
func (s *FileSource) Slice(n int) (buffer.ReadableBuffer, error) {
	if err := s.need(n); err != nil {
		return nil, err
	}

	data := make([]byte, n)
	if err := s.ReadBytes(data); err != nil {
		return nil, err
	}

	b, err := buffer.Wrap(data)
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (s *FileSource) Size() int64 {
	return s.size
}

func (s *FileSource) Position() int64 {
	return s.pos
}

func (s *FileSource) Seek(pos int64) error {
	if s.closed {
		return errs.ErrClosed
	}
	if pos < 0 || pos > s.size {
		return fmt.Errorf("%w: seek to %d, size %d", errs.ErrOutOfBounds, pos, s.size)
	}

	// short forward moves stay inside the read buffer
	if d := pos - s.pos; d >= 0 && d <= int64(s.r.Buffered()) {
		_, _ = s.r.Discard(int(d))
		s.pos = pos

		return nil
	}

	if _, err := s.f.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	s.r.Reset(s.f)
	s.pos = pos

	return nil
}

// resync realigns the file offset with pos after a failed read and returns err.
func (s *FileSource) resync(err error) error {
	if _, seekErr := s.f.Seek(s.pos, io.SeekStart); seekErr == nil {
		s.r.Reset(s.f)
	}

	return err
}

func (s *FileSource) IsReadable() bool {
	return !s.closed && s.pos < s.size
}

// Close closes the file. It is safe to call more than once.
func (s *FileSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	return s.f.Close()
}
