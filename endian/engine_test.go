package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/arloliu/blockbuf/errs"
	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, result)
	case 0x02:
		require.Equal(binary.LittleEndian, result)
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestGetNativeEngine(t *testing.T) {
	if IsNativeLittleEndian() {
		require.Equal(t, GetLittleEndianEngine(), GetNativeEngine())
	} else {
		require.Equal(t, GetBigEndianEngine(), GetNativeEngine())
	}
}

func TestDefaultEngine(t *testing.T) {
	require.Equal(t, GetLittleEndianEngine(), DefaultEngine())
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EndianEngine
		wantErr bool
	}{
		{"little", "little", binary.LittleEndian, false},
		{"little upper", "LittleEndian", binary.LittleEndian, false},
		{"big", "big", binary.BigEndian, false},
		{"big short", "BE", binary.BigEndian, false},
		{"native", "native", GetNativeEngine(), false},
		{"unknown", "middle", nil, true},
		{"empty", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := ParseEngine(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, engine)
		})
	}
}

func TestIsBigEndian(t *testing.T) {
	require.True(t, IsBigEndian(GetBigEndianEngine()))
	require.False(t, IsBigEndian(GetLittleEndianEngine()))
}

func TestEngines(t *testing.T) {
	littleEngine := GetLittleEndianEngine()
	bigEngine := GetBigEndianEngine()

	var value uint32 = 0x01020304
	littleBytes := make([]byte, 4)
	bigBytes := make([]byte, 4)

	littleEngine.PutUint32(littleBytes, value)
	bigEngine.PutUint32(bigBytes, value)

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, littleBytes)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, bigBytes)
	require.Equal(t, value, littleEngine.Uint32(littleBytes))
	require.Equal(t, value, bigEngine.Uint32(bigBytes))
}
