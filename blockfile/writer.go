package blockfile

import (
	"fmt"

	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/format"
	"go.uber.org/zap"
)

// Writer encodes a logical byte stream into tagged blocks on a Sink.
//
// Every block starts with a one-byte tag naming its type. The tag is written
// lazily, right before the first payload byte of the block, so an aligned stream
// never ends with an empty block. SwitchBlockType pads the current block with
// zero payload bytes, so a block never mixes types.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	sink      Sink
	layout    Layout
	blockType format.BlockType
	physical  int64
	logical   int64
	closed    bool

	sugar *zap.SugaredLogger
}

var _ Sink = (*Writer)(nil)

// NewWriter creates a Writer that starts a fresh block stream on sink, in a DATA
// block. The Writer owns sink and closes it on Close.
//
// Parameters:
//   - sink: Destination of the physical bytes, positioned where the stream starts
//   - opts: Optional configuration (block size, byte order, logger)
//
// Returns:
//   - *Writer: New writer whose first byte opens a DATA block
//   - error: ErrInvalidArgument for a nil sink or byte order, ErrInvalidBlockSize
//     for a block size below 2
//
// Example:
//
//	w, err := blockfile.NewWriter(blockfile.NewMemorySink(), blockfile.WithBlockSize(4096))
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
func NewWriter(sink Sink, opts ...Option) (*Writer, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: nil sink", errs.ErrInvalidArgument)
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	layout, err := NewLayout(cfg.blockSize)
	if err != nil {
		return nil, err
	}

	return &Writer{
		sink:      sink,
		layout:    layout,
		blockType: format.DataBlock,
		sugar:     cfg.logger.Sugar(),
	}, nil
}

// room returns how many payload bytes fit before the next block boundary,
// writing the tag first when the writer sits on one.
func (w *Writer) room() (int64, error) {
	size := w.layout.size
	if w.physical%size == 0 {
		if err := w.sink.WriteByte(byte(w.blockType)); err != nil {
			return 0, err
		}
		w.physical++
	}

	return size - w.physical%size, nil
}

func (w *Writer) WriteByte(v byte) error {
	if w.closed {
		return errs.ErrClosed
	}

	if _, err := w.room(); err != nil {
		return err
	}
	if err := w.sink.WriteByte(v); err != nil {
		return err
	}
	w.physical++
	w.logical++

	return nil
}

// WriteBytes writes src as payload, splitting it across blocks as needed.
func (w *Writer) WriteBytes(src []byte) error {
	if w.closed {
		return errs.ErrClosed
	}

	for len(src) > 0 {
		room, err := w.room()
		if err != nil {
			return err
		}

		k := min(int64(len(src)), room)
		if err := w.sink.WriteBytes(src[:k]); err != nil {
			return err
		}
		w.physical += k
		w.logical += k
		src = src[k:]
	}

	return nil
}

// WriteZeroBytes writes n zero payload bytes.
func (w *Writer) WriteZeroBytes(n int) error {
	if w.closed {
		return errs.ErrClosed
	}
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", errs.ErrInvalidArgument, n)
	}

	rest := int64(n)
	for rest > 0 {
		room, err := w.room()
		if err != nil {
			return err
		}

		k := min(rest, room)
		if err := w.sink.WriteZeroBytes(int(k)); err != nil {
			return err
		}
		w.physical += k
		w.logical += k
		rest -= k
	}

	return nil
}

// SwitchBlockType toggles between DATA and HEADER. Inside a block, the rest of
// its payload is zero-filled first and those bytes count as logical payload.
// On a block boundary the switch costs nothing.
func (w *Writer) SwitchBlockType() error {
	if w.closed {
		return errs.ErrClosed
	}

	from := w.blockType
	pad := int64(0)
	if rem := w.physical % w.layout.size; rem != 0 {
		pad = w.layout.size - rem
		if err := w.sink.WriteZeroBytes(int(pad)); err != nil {
			return err
		}
		w.physical += pad
		w.logical += pad
	}
	w.blockType = from.Toggle()

	w.sugar.Debugw("switch block type", "from", from, "to", w.blockType, "padding", pad, "physical", w.physical)

	return nil
}

// BlockType returns the type of the block currently being written.
func (w *Writer) BlockType() format.BlockType {
	return w.blockType
}

// BlockSize returns the physical block size.
func (w *Writer) BlockSize() int {
	return w.layout.BlockSize()
}

// Position returns the number of logical bytes written, padding included.
func (w *Writer) Position() int64 {
	return w.logical
}

// PhysicalPosition returns the number of bytes written to the sink, tags included.
func (w *Writer) PhysicalPosition() int64 {
	return w.physical
}

func (w *Writer) Flush() error {
	if w.closed {
		return errs.ErrClosed
	}

	return w.sink.Flush()
}

// Close closes the sink. Later calls return nil and do nothing.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.sugar.Debugw("close writer", "logical", w.logical, "physical", w.physical, "blocks", w.layout.BlockCount(w.physical))

	return w.sink.Close()
}
