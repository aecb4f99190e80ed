package compress

import (
	"fmt"
	"strings"

	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/format"
)

// Codec compresses and decompresses a whole payload in one call.
//
// Implementations are stateless values; every built-in codec is safe for
// concurrent use. The returned slice is owned by the caller, except for the
// none codec which returns its input.
type Codec interface {
	// Type returns the tag stored in front of payloads produced by this codec.
	Type() format.CompressionType
	Compress(data []byte) ([]byte, error)
	// Decompress reverses Compress. sizeHint is the expected decompressed length
	// when the caller knows it, or 0.
	Decompress(data []byte, sizeHint int) ([]byte, error)
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NoOpCodec{},
	format.CompressionZstd: ZstdCodec{},
	format.CompressionS2:   S2Codec{},
	format.CompressionLZ4:  LZ4Codec{},
}

// GetCodec returns the built-in codec for compressionType.
// Unknown types fail with errs.ErrUnsupportedCompression.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (0x%02x)", errs.ErrUnsupportedCompression, compressionType, uint8(compressionType))
}

// Types lists the compression types with a built-in codec, in tag order.
func Types() []format.CompressionType {
	return []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
}

// ParseType maps a codec name as printed by CompressionType.String, case
// insensitively, to its type.
func ParseType(name string) (format.CompressionType, error) {
	for _, t := range Types() {
		if strings.EqualFold(t.String(), name) {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedCompression, name)
}
