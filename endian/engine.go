// Package endian provides the byte-order strategy used by blockbuf buffers.
//
// An EndianEngine combines binary.ByteOrder and binary.AppendByteOrder, so the
// standard library's binary.LittleEndian and binary.BigEndian satisfy it directly.
// Buffers compose multi-byte values from single bytes and hand the assembled bytes
// to the engine, which keeps every storage backing on the same code path.
//
//	buf, _ := buffer.Allocate(16)
//	buf.SetOrder(endian.GetBigEndianEngine())
//	_ = buf.WriteUint32(0xCAFEBABE)
//
// # Thread Safety
//
// Engines are immutable and safe for concurrent use.
package endian

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unsafe"

	"github.com/arloliu/blockbuf/errs"
)

// EndianEngine is the byte-order strategy for 16, 32 and 64 bit values.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 stores 0x01 first on big-endian hosts.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetNativeEngine returns the engine matching the host byte order.
func GetNativeEngine() EndianEngine {
	if IsNativeLittleEndian() {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

// DefaultEngine is the byte order of freshly created buffers.
func DefaultEngine() EndianEngine {
	return binary.LittleEndian
}

// ParseEngine resolves an engine from its configuration name.
//
// Accepted names are "little", "big" and "native" (case-insensitive), plus the
// String() forms of the standard library orders ("LittleEndian", "BigEndian").
func ParseEngine(name string) (EndianEngine, error) {
	switch strings.ToLower(name) {
	case "little", "littleendian", "le":
		return binary.LittleEndian, nil
	case "big", "bigendian", "be":
		return binary.BigEndian, nil
	case "native":
		return GetNativeEngine(), nil
	default:
		return nil, fmt.Errorf("%w: unknown byte order %q", errs.ErrInvalidArgument, name)
	}
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	var b [2]byte
	engine.PutUint16(b[:], 0x0102)

	return b[0] == 0x01
}
