package compress

import "github.com/arloliu/blockbuf/format"

// NoOpCodec stores payloads as they are. Both directions return the input slice.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

func (NoOpCodec) Type() format.CompressionType {
	return format.CompressionNone
}

func (NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (NoOpCodec) Decompress(data []byte, _ int) ([]byte, error) {
	return data, nil
}
