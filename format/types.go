// Package format holds the single-byte enumerations that appear in blockbuf's
// on-disk layout and public API.
package format

type (
	BlockType       uint8
	CompressionType uint8
	StorageKind     uint8
)

// Block tags. The tag is byte 0 of every physical block.
const (
	DataBlock   BlockType = 0x1 // DataBlock tags ordinary payload blocks.
	HeaderBlock BlockType = 0x2 // HeaderBlock tags blocks holding embedded headers.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Buffer storage backings.
const (
	StorageHeap   StorageKind = 0x1 // StorageHeap is a Go-heap byte slice.
	StorageNative StorageKind = 0x2 // StorageNative is memory outside the Go heap (mmap).
	StoragePooled StorageKind = 0x3 // StoragePooled is borrowed from a buffer pool.
)

// IsValid reports whether b is one of the defined block tags.
func (b BlockType) IsValid() bool {
	return b == DataBlock || b == HeaderBlock
}

// Toggle returns the other block type.
func (b BlockType) Toggle() BlockType {
	if b == HeaderBlock {
		return DataBlock
	}

	return HeaderBlock
}

func (b BlockType) String() string {
	switch b {
	case DataBlock:
		return "Data"
	case HeaderBlock:
		return "Header"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (k StorageKind) String() string {
	switch k {
	case StorageHeap:
		return "Heap"
	case StorageNative:
		return "Native"
	case StoragePooled:
		return "Pooled"
	default:
		return "Unknown"
	}
}
