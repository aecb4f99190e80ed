package compress

import "github.com/arloliu/blockbuf/format"

// ZstdCodec uses Zstandard at the default level. It gives the best ratio of the
// built-in codecs and suits header and index regions that are read rarely.
//
// The pure Go implementation from klauspost/compress is used unless the module is
// built with the gozstd tag and cgo, which switches to the libzstd bindings.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func (ZstdCodec) Type() format.CompressionType {
	return format.CompressionZstd
}
