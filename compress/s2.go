package compress

import (
	"fmt"

	"github.com/arloliu/blockbuf/format"
	"github.com/klauspost/compress/s2"
)

// S2Codec uses S2 block encoding, trading some ratio for speed.
type S2Codec struct{}

var _ Codec = S2Codec{}

func (S2Codec) Type() format.CompressionType {
	return format.CompressionS2
}

func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress ignores sizeHint; the S2 block header carries the decoded length.
func (S2Codec) Decompress(data []byte, _ int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
