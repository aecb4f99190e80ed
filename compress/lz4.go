package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/format"
	"github.com/pierrec/lz4/v4"
)

// maxLZ4Output bounds the buffer grown while decoding an LZ4 block of unknown size.
const maxLZ4Output = 128 << 20

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec uses raw LZ4 blocks. Decoding is the fastest of the built-in codecs.
//
// An LZ4 block does not record its decoded length. Decompress uses sizeHint when
// given and otherwise grows the output buffer until the block fits.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

func (LZ4Codec) Type() format.CompressionType {
	return format.CompressionLZ4
}

func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	c, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(c)

	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	if n == 0 {
		return nil, fmt.Errorf("%w: lz4 block of %d bytes", errs.ErrIncompressible, len(data))
	}

	return dst[:n], nil
}

func (LZ4Codec) Decompress(data []byte, sizeHint int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	size := sizeHint
	if size <= 0 {
		size = len(data) * 4
	}

	for {
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data, out)
		if err == nil {
			return out[:n], nil
		}

		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || size >= maxLZ4Output {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		size = min(size*2, maxLZ4Output)
	}
}
