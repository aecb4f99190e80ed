package blockfile

import (
	"io"

	"github.com/arloliu/blockbuf/buffer"
)

// Sink is the byte destination a Writer encodes into. Writer itself is a Sink,
// so block streams can be layered.
type Sink interface {
	io.ByteWriter
	WriteBytes(src []byte) error
	WriteZeroBytes(n int) error
	// Position returns the number of bytes written so far.
	Position() int64
	Flush() error
	Close() error
}

// Source is the random-access byte origin a Reader decodes from. Reader itself
// is a Source.
//
// Reads past the end fail with errs.ErrEndOfStream without moving the position.
type Source interface {
	io.ByteReader
	ReadBytes(dst []byte) error
	SkipBytes(n int) error
	// Slice returns the next n bytes as a buffer with its own cursor and advances
	// the position by n.
	Slice(n int) (buffer.ReadableBuffer, error)
	Size() int64
	Position() int64
	// Seek moves to pos, which must lie in [0, Size()].
	Seek(pos int64) error
	IsReadable() bool
	Close() error
}
