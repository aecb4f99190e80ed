package blockfile

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/format"
	"github.com/stretchr/testify/require"
)

var allCompressions = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

func compressiblePayload() []byte {
	return bytes.Repeat([]byte("cpu.usage host=web-01 region=us-east value=42.5\n"), 40)
}

func randomPayload(n int) []byte {
	data := make([]byte, n)
	rand.New(rand.NewSource(7)).Read(data)

	return data
}

// frameBytes writes one frame into a memory sink and returns a copy of it.
func frameBytes(t *testing.T, data []byte, c format.CompressionType) []byte {
	t.Helper()

	sink := NewMemorySink()
	defer sink.Release()

	_, err := WriteFrame(sink, data, c)
	require.NoError(t, err)

	return append([]byte(nil), sink.Bytes()...)
}

func readFrameBytes(t *testing.T, frame []byte) ([]byte, FrameInfo, error) {
	t.Helper()

	src, err := NewBytesSource(frame)
	require.NoError(t, err)

	return ReadFrame(src)
}

func TestFrame_RoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"compressible": compressiblePayload(),
		"single byte":  {42},
		"empty":        {},
	}

	for _, c := range allCompressions {
		for name, data := range payloads {
			t.Run(c.String()+"/"+name, func(t *testing.T) {
				sink := NewMemorySink()
				defer sink.Release()
				w, err := NewWriter(sink, WithBlockSize(16))
				require.NoError(t, err)

				info, err := WriteFrame(w, data, c)
				require.NoError(t, err)
				require.Equal(t, len(data), info.RawSize)
				require.Equal(t, int64(info.Size()), w.Position())
				require.NoError(t, w.Close())

				src, err := sink.Source()
				require.NoError(t, err)
				r, err := NewReader(src, WithBlockSize(16))
				require.NoError(t, err)
				defer r.Close()

				got, readInfo, err := ReadFrame(r)
				require.NoError(t, err)
				require.Equal(t, data, got)
				require.Equal(t, info, readInfo)
				require.False(t, r.IsReadable())
			})
		}
	}
}

func TestFrame_Compresses(t *testing.T) {
	data := compressiblePayload()

	for _, c := range allCompressions[1:] {
		t.Run(c.String(), func(t *testing.T) {
			frame := frameBytes(t, data, c)
			require.Equal(t, byte(c), frame[0])
			require.Less(t, len(frame), len(data))

			got, info, err := readFrameBytes(t, frame)
			require.NoError(t, err)
			require.Equal(t, c, info.Compression)
			require.Less(t, info.StoredSize, info.RawSize)
			require.Equal(t, data, got)
		})
	}
}

func TestFrame_IncompressibleFallsBack(t *testing.T) {
	data := randomPayload(64)

	for _, c := range allCompressions {
		t.Run(c.String(), func(t *testing.T) {
			sink := NewMemorySink()
			defer sink.Release()

			info, err := WriteFrame(sink, data, c)
			require.NoError(t, err)
			require.Equal(t, format.CompressionNone, info.Compression)
			require.Equal(t, len(data), info.StoredSize)
			require.Equal(t, int64(info.Size()), sink.Position())

			got, _, err := readFrameBytes(t, sink.Bytes())
			require.NoError(t, err)
			require.Equal(t, data, got)
		})
	}
}

func TestFrame_Corrupt(t *testing.T) {
	t.Run("checksum", func(t *testing.T) {
		frame := frameBytes(t, []byte("hello frames"), format.CompressionNone)
		frame[len(frame)-1] ^= 0xFF

		_, _, err := readFrameBytes(t, frame)
		require.ErrorIs(t, err, errs.ErrInvalidFrame)
	})

	t.Run("payload", func(t *testing.T) {
		for _, c := range allCompressions {
			frame := frameBytes(t, compressiblePayload(), c)
			frame[len(frame)/2] ^= 0x5A

			_, _, err := readFrameBytes(t, frame)
			require.ErrorIs(t, err, errs.ErrInvalidFrame, c.String())
		}
	})

	t.Run("unknown compression", func(t *testing.T) {
		_, _, err := readFrameBytes(t, []byte{0x09, 1, 1, 0})
		require.ErrorIs(t, err, errs.ErrInvalidFrame)
		require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	})

	t.Run("size mismatch", func(t *testing.T) {
		_, _, err := readFrameBytes(t, []byte{byte(format.CompressionNone), 3, 2, 1, 2})
		require.ErrorIs(t, err, errs.ErrInvalidFrame)
	})

	t.Run("size overflow", func(t *testing.T) {
		frame := append([]byte{byte(format.CompressionNone)}, bytes.Repeat([]byte{0xFF}, 10)...)
		_, _, err := readFrameBytes(t, frame)
		require.ErrorIs(t, err, errs.ErrInvalidFrame)
		require.ErrorIs(t, err, errs.ErrVarintOverflow)
	})

	t.Run("size beyond stream", func(t *testing.T) {
		huge := binary.AppendUvarint(nil, MaxFrameSize)
		frame := []byte{byte(format.CompressionNone)}
		frame = append(frame, huge...)
		frame = append(frame, huge...)
		frame = append(frame, 1, 2, 3)

		_, info, err := readFrameBytes(t, frame)
		require.ErrorIs(t, err, errs.ErrInvalidFrame)
		require.ErrorIs(t, err, errs.ErrEndOfStream)
		require.Equal(t, MaxFrameSize, info.StoredSize)

		sink := NewMemorySink()
		defer sink.Release()
		w, err := NewWriter(sink, WithBlockSize(8))
		require.NoError(t, err)
		require.NoError(t, w.WriteBytes(frame))
		require.NoError(t, w.Close())

		src, err := sink.Source()
		require.NoError(t, err)
		r, err := NewReader(src, WithBlockSize(8))
		require.NoError(t, err)
		defer r.Close()

		_, _, err = ReadFrame(r)
		require.ErrorIs(t, err, errs.ErrInvalidFrame)
		require.ErrorIs(t, err, errs.ErrEndOfStream)
	})

	t.Run("compressed size beyond stream", func(t *testing.T) {
		frame := []byte{byte(format.CompressionZstd)}
		frame = binary.AppendUvarint(frame, MaxFrameSize)
		frame = binary.AppendUvarint(frame, 1<<20)
		frame = append(frame, 1, 2, 3)

		_, _, err := readFrameBytes(t, frame)
		require.ErrorIs(t, err, errs.ErrInvalidFrame)
		require.ErrorIs(t, err, errs.ErrEndOfStream)
	})

	t.Run("truncated", func(t *testing.T) {
		frame := frameBytes(t, []byte("hello frames"), format.CompressionNone)

		_, _, err := readFrameBytes(t, frame[:len(frame)-3])
		require.ErrorIs(t, err, errs.ErrEndOfStream)

		_, _, err = readFrameBytes(t, nil)
		require.ErrorIs(t, err, errs.ErrEndOfStream)
	})

	t.Run("unknown compression on write", func(t *testing.T) {
		sink := NewMemorySink()
		defer sink.Release()

		_, err := WriteFrame(sink, []byte{1}, format.CompressionType(0x7F))
		require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
		require.Equal(t, int64(0), sink.Position())
	})
}

func TestFrame_HeaderRecovery(t *testing.T) {
	const blockSize = 32

	sink := NewMemorySink()
	defer sink.Release()
	w, err := NewWriter(sink, WithBlockSize(blockSize))
	require.NoError(t, err)

	headers := [][]byte{[]byte("segment 0"), []byte("segment 1")}
	for i, h := range headers {
		require.NoError(t, w.SwitchBlockType())
		_, err := WriteFrame(w, h, format.CompressionNone)
		require.NoError(t, err)
		require.NoError(t, w.SwitchBlockType())

		for j := range 3 {
			page := bytes.Repeat([]byte{byte(i*10 + j)}, 50)
			_, err := WriteFrame(w, page, format.CompressionS2)
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())

	src, err := sink.Source()
	require.NoError(t, err)
	r, err := NewReader(src, WithBlockSize(blockSize))
	require.NoError(t, err)
	defer r.Close()

	// start somewhere inside the first segment's pages
	require.NoError(t, r.Seek(r.Size()/4))

	ok, err := r.SeekHeader()
	require.NoError(t, err)
	require.True(t, ok)

	got, _, err := ReadFrame(r)
	require.NoError(t, err)
	require.Equal(t, headers[1], got)

	require.NoError(t, r.Seek(0))
	ok, err = r.SeekHeader()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(0), r.Position(), "the stream opens with a header block")

	got, _, err = ReadFrame(r)
	require.NoError(t, err)
	require.Equal(t, headers[0], got)
}

func BenchmarkFrame(b *testing.B) {
	data := compressiblePayload()

	for _, c := range allCompressions {
		b.Run(c.String(), func(b *testing.B) {
			sink := NewMemorySink()
			defer sink.Release()

			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = WriteFrame(sink, data, c)
				src, _ := sink.Source()
				_, _, _ = ReadFrame(src)
			}
		})
	}
}
