package blockfile

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/blockbuf/compress"
	"github.com/arloliu/blockbuf/encoding"
	"github.com/arloliu/blockbuf/endian"
	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/format"
	"github.com/arloliu/blockbuf/internal/hash"
)

// MaxFrameSize bounds both the raw and the stored size of a frame payload.
const MaxFrameSize = math.MaxInt32

// maxExpansion bounds the decode buffer preallocated per stored byte. LZ4 cannot
// expand a block further; the other codecs grow their output as needed.
const maxExpansion = 255

// boundedSource is implemented by readers that know how many bytes remain,
// such as Reader and every Source.
type boundedSource interface {
	Size() int64
	Position() int64
}

// FrameInfo describes one frame.
type FrameInfo struct {
	Compression format.CompressionType
	RawSize     int // payload size before compression
	StoredSize  int // payload size as stored
}

// Size returns the number of logical bytes the frame occupies.
func (f FrameInfo) Size() int {
	return 1 + encoding.UvarintSize(uint64(f.RawSize)) + encoding.UvarintSize(uint64(f.StoredSize)) + f.StoredSize + 8
}

// WriteFrame writes data as a self-describing frame:
//
//	[compression:1][raw size:uvarint][stored size:uvarint][payload][xxhash64 of raw:8]
//
// When the codec cannot shrink data, the frame is stored uncompressed and the
// returned FrameInfo says so.
//
// Parameters:
//   - w: Destination, typically a Writer or a Sink
//   - data: Raw payload, at most MaxFrameSize bytes
//   - compression: Codec to try, see compress.Types
//
// Returns:
//   - FrameInfo: The compression actually used and the raw and stored sizes
//   - error: ErrUnsupportedCompression before anything is written, or the
//     first write error from w
//
// Example:
//
//	_ = w.SwitchBlockType() // HEADER
//	info, err := blockfile.WriteFrame(w, []byte("segment 0"), format.CompressionNone)
func WriteFrame(w encoding.ByteSliceWriter, data []byte, compression format.CompressionType) (FrameInfo, error) {
	if len(data) > MaxFrameSize {
		return FrameInfo{}, fmt.Errorf("%w: frame payload of %d bytes", errs.ErrInvalidArgument, len(data))
	}

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return FrameInfo{}, err
	}

	payload, err := codec.Compress(data)
	switch {
	case errors.Is(err, errs.ErrIncompressible):
		compression, payload = format.CompressionNone, data
	case err != nil:
		return FrameInfo{}, err
	case len(payload) >= len(data):
		compression, payload = format.CompressionNone, data
	}

	info := FrameInfo{Compression: compression, RawSize: len(data), StoredSize: len(payload)}

	if err := w.WriteByte(byte(compression)); err != nil {
		return FrameInfo{}, err
	}
	if err := encoding.WriteUvarint(w, uint64(info.RawSize)); err != nil {
		return FrameInfo{}, err
	}
	if err := encoding.WriteUvarint(w, uint64(info.StoredSize)); err != nil {
		return FrameInfo{}, err
	}
	if err := w.WriteBytes(payload); err != nil {
		return FrameInfo{}, err
	}

	var sum [8]byte
	endian.DefaultEngine().PutUint64(sum[:], hash.Sum(data))
	if err := w.WriteBytes(sum[:]); err != nil {
		return FrameInfo{}, err
	}

	return info, nil
}

// ReadFrame reads a frame written by WriteFrame and returns its decompressed
// payload.
//
// Parameters:
//   - r: Reader positioned at the frame's compression tag
//
// Returns:
//   - []byte: Decompressed payload, never nil on success
//   - FrameInfo: The frame's compression and sizes, as far as they were decoded
//   - error: ErrInvalidFrame for malformed headers, decompression failures
//     and checksum mismatches, ErrEndOfStream when the frame is cut short
//
// When r reports its size (Reader and Source do), a stored size larger than the
// bytes left is rejected before any payload buffer is allocated.
//
// Example:
//
//	ok, _ := r.SeekHeader()
//	if ok {
//	    header, info, err := blockfile.ReadFrame(r)
//	    ...
//	}
func ReadFrame(r encoding.ByteSliceReader) ([]byte, FrameInfo, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, FrameInfo{}, err
	}

	codec, err := compress.GetCodec(format.CompressionType(tag))
	if err != nil {
		return nil, FrameInfo{}, fmt.Errorf("%w: %w", errs.ErrInvalidFrame, err)
	}

	rawSize, err := readFrameSize(r)
	if err != nil {
		return nil, FrameInfo{}, err
	}
	storedSize, err := readFrameSize(r)
	if err != nil {
		return nil, FrameInfo{}, err
	}

	info := FrameInfo{Compression: codec.Type(), RawSize: rawSize, StoredSize: storedSize}
	if info.Compression == format.CompressionNone && rawSize != storedSize {
		return nil, info, fmt.Errorf("%w: uncompressed frame with raw size %d, stored size %d", errs.ErrInvalidFrame, rawSize, storedSize)
	}

	if b, ok := r.(boundedSource); ok {
		if left := b.Size() - b.Position(); int64(storedSize)+8 > left {
			return nil, info, fmt.Errorf("%w: %w: stored size %d with %d bytes left", errs.ErrInvalidFrame, errs.ErrEndOfStream, storedSize, left)
		}
	}

	payload := make([]byte, storedSize)
	if err := r.ReadBytes(payload); err != nil {
		return nil, info, err
	}

	var sum [8]byte
	if err := r.ReadBytes(sum[:]); err != nil {
		return nil, info, err
	}

	hint := int(min(int64(rawSize), int64(storedSize)*maxExpansion))
	data, err := codec.Decompress(payload, hint)
	if err != nil {
		return nil, info, fmt.Errorf("%w: %w", errs.ErrInvalidFrame, err)
	}
	if len(data) != rawSize {
		return nil, info, fmt.Errorf("%w: decoded %d bytes, expected %d", errs.ErrInvalidFrame, len(data), rawSize)
	}
	if got, want := hash.Sum(data), endian.DefaultEngine().Uint64(sum[:]); got != want {
		return nil, info, fmt.Errorf("%w: checksum %016x, expected %016x", errs.ErrInvalidFrame, got, want)
	}

	if data == nil {
		data = []byte{}
	}

	return data, info, nil
}

func readFrameSize(r encoding.ByteSliceReader) (int, error) {
	n, err := encoding.ReadUvarint(r)
	if err != nil {
		if errors.Is(err, errs.ErrVarintOverflow) {
			return 0, fmt.Errorf("%w: %w", errs.ErrInvalidFrame, err)
		}

		return 0, err
	}
	if n > MaxFrameSize {
		return 0, fmt.Errorf("%w: size %d exceeds maximum %d", errs.ErrInvalidFrame, n, MaxFrameSize)
	}

	return int(n), nil
}
