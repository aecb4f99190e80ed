package blockfile

import (
	"testing"

	"github.com/arloliu/blockbuf/buffer"
	"github.com/arloliu/blockbuf/endian"
	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/format"
	"github.com/stretchr/testify/require"
)

// sliceLiteral returns a reader over data positioned after the view of logical
// bytes [5, 15).
func sliceLiteral(t *testing.T, data []byte) (*Reader, *View) {
	t.Helper()

	src, err := NewBytesSource(data)
	require.NoError(t, err)
	r, err := NewReader(src, WithBlockSize(5))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.Seek(5))
	v, err := r.SliceView(10)
	require.NoError(t, err)

	return r, v
}

func TestView_Literal(t *testing.T) {
	r, v := sliceLiteral(t, writeLiteral(t))

	require.Equal(t, int64(15), r.Position())
	require.Equal(t, int64(19), r.PhysicalPosition())
	require.True(t, r.IsDataBlock(), "parent takes the type of the last sliced byte")

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(8), b)

	require.Equal(t, 10, v.Capacity())
	require.Equal(t, int64(5), v.Position())
	require.Equal(t, endian.DefaultEngine(), v.Order())

	got, err := buffer.ReadAll(v)
	require.NoError(t, err)
	require.Equal(t, []byte{5, 6, 0, 10, 11, 12, 0, 0, 1, 2}, got)
	require.False(t, v.IsReadable())

	t.Run("block types follow the view cursor", func(t *testing.T) {
		want := []format.BlockType{
			format.DataBlock, format.DataBlock, format.DataBlock,
			format.HeaderBlock, format.HeaderBlock, format.HeaderBlock, format.HeaderBlock,
			format.DataBlock, format.DataBlock, format.DataBlock,
		}
		for i, bt := range want {
			require.NoError(t, v.SetReaderIndex(i))
			require.Equal(t, bt, v.BlockType(), "index %d", i)
			require.Equal(t, bt == format.HeaderBlock, v.IsHeaderBlock())
			require.Equal(t, bt == format.DataBlock, v.IsDataBlock())
		}

		require.NoError(t, v.SetReaderIndex(10))
		require.Equal(t, format.DataBlock, v.BlockType())
	})

	t.Run("absolute access", func(t *testing.T) {
		require.NoError(t, v.SetReaderIndex(0))

		b, err := v.GetByte(3)
		require.NoError(t, err)
		require.Equal(t, byte(10), b)

		dst := make([]byte, 6)
		require.NoError(t, v.GetBytes(1, dst))
		require.Equal(t, []byte{6, 0, 10, 11, 12, 0}, dst)
		require.Equal(t, 0, v.ReaderIndex())

		_, err = v.GetByte(10)
		require.ErrorIs(t, err, errs.ErrOutOfBounds)
		require.ErrorIs(t, v.GetBytes(8, make([]byte, 3)), errs.ErrOutOfBounds)
		require.ErrorIs(t, v.SetReaderIndex(11), errs.ErrOutOfBounds)
	})

	t.Run("cursor", func(t *testing.T) {
		require.NoError(t, v.SetReaderIndex(0))
		require.NoError(t, v.SkipBytes(2))
		require.Equal(t, 8, v.ReadableBytes())

		b, err := v.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byte(0), b)

		require.ErrorIs(t, v.SkipBytes(8), errs.ErrOutOfBounds)
		require.ErrorIs(t, v.ReadBytes(make([]byte, 8)), errs.ErrOutOfBounds)
		require.Equal(t, 3, v.ReaderIndex())
	})
}

func TestView_ZeroCopy(t *testing.T) {
	data := writeLiteral(t)
	_, v := sliceLiteral(t, data)

	data[11] = 99 // first payload byte of the first header block, logical 8

	b, err := v.GetByte(3)
	require.NoError(t, err)
	require.Equal(t, byte(99), b)
}

func TestView_Numeric(t *testing.T) {
	src, err := NewBytesSource(writeLiteral(t))
	require.NoError(t, err)
	r, err := NewReader(src, WithBlockSize(5))
	require.NoError(t, err)
	defer r.Close()

	v, err := r.SliceView(8)
	require.NoError(t, err)

	require.NoError(t, v.SetReaderIndex(3))
	u16, err := v.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0403), u16, "read spans a tag")

	require.NoError(t, v.SetReaderIndex(1))
	u32, err := v.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x04030201), u32)

	require.NoError(t, v.SetReaderIndex(0))
	u64, err := v.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0006050403020100), u64)

	_, err = v.ReadUint16()
	require.ErrorIs(t, err, errs.ErrOutOfBounds)

	t.Run("big endian", func(t *testing.T) {
		src, err := NewBytesSource(writeLiteral(t))
		require.NoError(t, err)
		r, err := NewReader(src, WithBlockSize(5), WithByteOrder(endian.GetBigEndianEngine()))
		require.NoError(t, err)
		defer r.Close()

		v, err := r.SliceView(4)
		require.NoError(t, err)
		i32, err := v.ReadInt32()
		require.NoError(t, err)
		require.Equal(t, int32(0x00010203), i32)
	})
}

func TestView_Nested(t *testing.T) {
	_, v := sliceLiteral(t, writeLiteral(t))

	region, err := v.Region(2, 5)
	require.NoError(t, err)
	require.Equal(t, 0, v.ReaderIndex(), "region leaves the cursor alone")

	got, err := buffer.ReadAll(region)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 10, 11, 12, 0}, got)

	rv, ok := region.(*View)
	require.True(t, ok)
	require.Equal(t, int64(7), rv.Position())
	require.NoError(t, rv.SetReaderIndex(0))
	require.True(t, rv.IsDataBlock())
	require.NoError(t, rv.SetReaderIndex(1))
	require.True(t, rv.IsHeaderBlock())

	_, err = v.Region(8, 3)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)

	s, err := v.Slice(3)
	require.NoError(t, err)
	require.Equal(t, 3, v.ReaderIndex())

	inner, err := s.Slice(2)
	require.NoError(t, err)
	got, err = buffer.ReadAll(inner)
	require.NoError(t, err)
	require.Equal(t, []byte{5, 6}, got)

	_, err = s.Slice(2)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestView_BlockBoundary(t *testing.T) {
	src, err := NewBytesSource(writeLiteral(t))
	require.NoError(t, err)
	r, err := NewReader(src, WithBlockSize(5))
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.ReadBytes(make([]byte, 12)))
	require.True(t, r.IsHeaderBlock())
	require.Equal(t, int64(15), r.PhysicalPosition())

	v, err := r.SliceView(2)
	require.NoError(t, err)
	require.True(t, v.IsDataBlock(), "tag of the next block lies inside the view")
	require.Equal(t, int64(18), r.PhysicalPosition())
	require.True(t, r.IsDataBlock())

	got, err := buffer.ReadAll(v)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1}, got)
}

func TestView_Empty(t *testing.T) {
	r := newLiteralReader(t)
	require.NoError(t, r.Seek(9))

	v, err := r.SliceView(0)
	require.NoError(t, err)
	require.Equal(t, 0, v.Capacity())
	require.False(t, v.IsReadable())
	require.True(t, v.IsHeaderBlock())
	require.Equal(t, int64(9), r.Position())

	_, err = v.ReadByte()
	require.ErrorIs(t, err, errs.ErrOutOfBounds)

	_, err = r.SliceView(-1)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestView_EqualAndHash(t *testing.T) {
	_, v := sliceLiteral(t, writeLiteral(t))

	flat, err := buffer.Wrap([]byte{5, 6, 0, 10, 11, 12, 0, 0, 1, 2})
	require.NoError(t, err)

	require.True(t, v.Equal(flat))
	require.True(t, flat.Equal(v))
	require.Equal(t, flat.Hash(), v.Hash())

	require.NoError(t, v.SkipBytes(1))
	require.False(t, v.Equal(flat))
	require.False(t, flat.Equal(v))
}

func TestReader_SliceSatisfiesSource(t *testing.T) {
	r := newLiteralReader(t)

	var src Source = r
	rb, err := src.Slice(4)
	require.NoError(t, err)

	_, ok := rb.(*View)
	require.True(t, ok)
	require.Equal(t, 4, rb.Capacity())
}

func BenchmarkView_ReadBytes(b *testing.B) {
	sink := NewMemorySink()
	defer sink.Release()
	w, _ := NewWriter(sink, WithBlockSize(512))
	_ = w.WriteBytes(make([]byte, 1<<20))
	_ = w.Close()

	dst := make([]byte, 1<<20)
	for b.Loop() {
		src, _ := sink.Source()
		r, _ := NewReader(src, WithBlockSize(512))
		v, _ := r.SliceView(len(dst))
		_ = v.ReadBytes(dst)
	}
}
