package encoding

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/blockbuf/errs"
)

// MaxVarintLen64 is the maximum encoded length of a 64-bit varint.
const MaxVarintLen64 = 10

// ZigZagEncode maps a signed value onto an unsigned one so that values close to
// zero encode short regardless of sign.
func ZigZagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
}

// ZigZagDecode reverses ZigZagEncode.
func ZigZagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1) //nolint:gosec
}

// UvarintSize returns the number of bytes WriteUvarint uses for v.
func UvarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}

// WriteUvarint writes v as an unsigned LEB128 varint.
func WriteUvarint(w io.ByteWriter, v uint64) error {
	for v >= 0x80 {
		if err := w.WriteByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}

	return w.WriteByte(byte(v))
}

// WriteVarint writes v zig-zag encoded as an unsigned varint.
func WriteVarint(w io.ByteWriter, v int64) error {
	return WriteUvarint(w, ZigZagEncode(v))
}

// ReadUvarint reads an unsigned LEB128 varint.
//
// A stream that ends inside a varint returns the reader's error unchanged, so the
// caller still sees io.EOF or errs.ErrEndOfStream.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	var v uint64
	var shift uint

	for i := range MaxVarintLen64 {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}

		if b < 0x80 {
			// the tenth byte may only carry the top bit of a uint64
			if i == MaxVarintLen64-1 && b > 1 {
				return 0, errs.ErrVarintOverflow
			}

			return v | uint64(b)<<shift, nil
		}

		v |= uint64(b&0x7f) << shift
		shift += 7
	}

	return 0, errs.ErrVarintOverflow
}

// ReadVarint reads a zig-zag encoded signed varint.
func ReadVarint(r io.ByteReader) (int64, error) {
	u, err := ReadUvarint(r)
	if err != nil {
		return 0, err
	}

	return ZigZagDecode(u), nil
}

// The string helpers need bulk access as well. blockfile.Writer, blockfile.Reader
// and buffer.Buffer satisfy these.
type (
	ByteSliceWriter interface {
		io.ByteWriter
		WriteBytes(src []byte) error
	}

	ByteSliceReader interface {
		io.ByteReader
		ReadBytes(dst []byte) error
	}
)

// WriteString writes s as a uvarint length followed by its bytes.
func WriteString(w ByteSliceWriter, s string) error {
	if err := WriteUvarint(w, uint64(len(s))); err != nil {
		return err
	}

	return w.WriteBytes([]byte(s))
}

// ReadString reads a string written by WriteString. Lengths above maxLen fail with
// errs.ErrInvalidArgument before anything is allocated. maxLen <= 0 means
// math.MaxInt32.
func ReadString(r ByteSliceReader, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = math.MaxInt32
	}

	n, err := ReadUvarint(r)
	if err != nil {
		return "", err
	}
	if n > uint64(maxLen) {
		return "", fmt.Errorf("%w: string length %d exceeds maximum %d", errs.ErrInvalidArgument, n, maxLen)
	}

	buf := make([]byte, n)
	if err := r.ReadBytes(buf); err != nil {
		return "", err
	}

	return string(buf), nil
}
