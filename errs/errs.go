// Package errs defines the sentinel errors returned by blockbuf packages.
//
// Errors carry context by wrapping one of these sentinels with fmt.Errorf("%w: ..."),
// so callers should match them with errors.Is rather than by equality.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when an access needs more bytes than are readable or
	// writeable, or addresses an index outside the valid range of a buffer or stream.
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrEndOfStream is returned when reading past the logical end of a block stream.
	ErrEndOfStream = errors.New("end of stream")

	// ErrInvalidArgument is returned for invalid construction arguments such as
	// negative capacities, nil backing storage or regions outside the storage.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidBlockSize is returned when a block size smaller than 2 is configured.
	ErrInvalidBlockSize = errors.New("invalid block size")

	// ErrInvalidBlockType is returned when a block tag read back is neither DATA nor HEADER.
	ErrInvalidBlockType = errors.New("invalid block type")

	// ErrClosed is returned when using a codec, sink or source after Close.
	ErrClosed = errors.New("closed")

	// ErrReleased is returned when accessing a buffer whose storage has been released.
	ErrReleased = errors.New("buffer released")

	// ErrReadOnly is returned when writing through a buffer over read-only memory.
	ErrReadOnly = errors.New("buffer is read-only")

	// ErrVarintOverflow is returned when a varint is longer than 10 bytes.
	ErrVarintOverflow = errors.New("varint overflows 64 bits")

	// ErrUnsupportedCompression is returned for an unknown compression type.
	ErrUnsupportedCompression = errors.New("unsupported compression type")

	// ErrIncompressible is returned by a codec that cannot represent its input
	// more compactly. Frame writers fall back to storing the payload uncompressed.
	ErrIncompressible = errors.New("incompressible input")

	// ErrInvalidFrame is returned when a frame header is malformed.
	ErrInvalidFrame = errors.New("invalid frame")
)

// OutOfBounds wraps ErrOutOfBounds with the offending index, length and capacity.
func OutOfBounds(index, length, capacity int) error {
	return fmt.Errorf("%w: index %d, length %d, capacity %d", ErrOutOfBounds, index, length, capacity)
}

// NotEnough wraps ErrOutOfBounds for a request of n bytes when only available remain.
func NotEnough(n, available int) error {
	return fmt.Errorf("%w: need %d bytes, %d available", ErrOutOfBounds, n, available)
}
