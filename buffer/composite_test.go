package buffer

import (
	"testing"

	"github.com/arloliu/blockbuf/endian"
	"github.com/arloliu/blockbuf/errs"
	"github.com/stretchr/testify/require"
)

func wrapAll(t *testing.T, parts ...[]byte) []ReadableBuffer {
	t.Helper()

	out := make([]ReadableBuffer, 0, len(parts))
	for _, p := range parts {
		b, err := Wrap(p)
		require.NoError(t, err)
		out = append(out, b)
	}

	return out
}

func TestComposite_SequentialRead(t *testing.T) {
	c, err := NewComposite(wrapAll(t,
		[]byte{2, 0x88, 0, 0, 0},
		[]byte{4, 5, 6},
		[]byte{7, 6},
	)...)
	require.NoError(t, err)
	require.Equal(t, 10, c.Capacity())
	require.Equal(t, 3, c.Segments())

	want := []int8{2, -120, 0, 0, 0, 4, 5, 6, 7, 6}
	for i, w := range want {
		v, err := c.ReadByte()
		require.NoError(t, err, "byte %d", i)
		require.Equal(t, w, int8(v), "byte %d", i)
	}

	require.False(t, c.IsReadable())
	_, err = c.ReadByte()
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestComposite_SpanningReads(t *testing.T) {
	c, err := NewComposite(wrapAll(t,
		[]byte{1, 2, 3},
		[]byte{4},
		[]byte{5, 6, 7, 8},
	)...)
	require.NoError(t, err)

	t.Run("bytes", func(t *testing.T) {
		require.NoError(t, c.SetReaderIndex(1))
		dst := make([]byte, 5)
		require.NoError(t, c.ReadBytes(dst))
		require.Equal(t, []byte{2, 3, 4, 5, 6}, dst)
		require.Equal(t, 6, c.ReaderIndex())
	})

	t.Run("too many", func(t *testing.T) {
		require.NoError(t, c.SetReaderIndex(6))
		require.ErrorIs(t, c.ReadBytes(make([]byte, 3)), errs.ErrOutOfBounds)
		require.Equal(t, 6, c.ReaderIndex())
	})

	t.Run("numeric", func(t *testing.T) {
		require.NoError(t, c.SetReaderIndex(2))
		c.SetOrder(endian.GetBigEndianEngine())
		v, err := c.ReadUint32()
		require.NoError(t, err)
		require.Equal(t, uint32(0x03040506), v)
		c.SetOrder(nil)
	})

	t.Run("absolute", func(t *testing.T) {
		require.NoError(t, c.SetReaderIndex(0))
		v, err := c.GetByte(3)
		require.NoError(t, err)
		require.Equal(t, byte(4), v)

		dst := make([]byte, 6)
		require.NoError(t, c.GetBytes(2, dst))
		require.Equal(t, []byte{3, 4, 5, 6, 7, 8}, dst)
		require.Equal(t, 0, c.ReaderIndex())

		_, err = c.GetByte(8)
		require.ErrorIs(t, err, errs.ErrOutOfBounds)
		require.ErrorIs(t, c.GetBytes(5, dst), errs.ErrOutOfBounds)
	})

	t.Run("skip", func(t *testing.T) {
		require.NoError(t, c.SetReaderIndex(0))
		require.NoError(t, c.SkipBytes(4))
		v, err := c.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byte(5), v)
		require.ErrorIs(t, c.SkipBytes(4), errs.ErrOutOfBounds)
		require.ErrorIs(t, c.SetReaderIndex(9), errs.ErrOutOfBounds)
	})
}

func TestComposite_Slice(t *testing.T) {
	c, err := NewComposite(wrapAll(t,
		[]byte{1, 2, 3},
		[]byte{4, 5},
		[]byte{6, 7, 8},
	)...)
	require.NoError(t, err)
	require.NoError(t, c.SkipBytes(2))

	s, err := c.Slice(5)
	require.NoError(t, err)
	require.Equal(t, 7, c.ReaderIndex())
	require.Equal(t, 5, s.Capacity())
	require.Equal(t, 3, s.Segments())

	got, err := ReadAll(s)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4, 5, 6, 7}, got)

	t.Run("independent cursor", func(t *testing.T) {
		require.NoError(t, s.SetReaderIndex(0))
		v, err := c.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byte(8), v)
		require.Equal(t, 0, s.ReaderIndex())
	})

	t.Run("nested", func(t *testing.T) {
		require.NoError(t, s.SkipBytes(1))
		inner, err := s.Slice(2)
		require.NoError(t, err)
		got, err := ReadAll(inner)
		require.NoError(t, err)
		require.Equal(t, []byte{4, 5}, got)
	})

	t.Run("add rejected", func(t *testing.T) {
		b, err := Wrap([]byte{9})
		require.NoError(t, err)
		require.ErrorIs(t, s.Add(b), errs.ErrInvalidArgument)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := c.Slice(2)
		require.ErrorIs(t, err, errs.ErrOutOfBounds)
	})
}

func TestComposite_AddSnapshot(t *testing.T) {
	b, err := Wrap([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, b.SkipBytes(1))

	c, err := NewComposite()
	require.NoError(t, err)
	require.Equal(t, 0, c.Segments())
	require.NoError(t, c.Add(b))

	// moving the source cursor after Add must not change the composite
	require.NoError(t, b.SkipBytes(2))
	require.Equal(t, 3, c.Capacity())

	got, err := ReadAll(c)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3, 4}, got)

	t.Run("append after exhaustion", func(t *testing.T) {
		more, err := Wrap([]byte{5, 6})
		require.NoError(t, err)
		require.NoError(t, c.Add(more))
		require.True(t, c.IsReadable())

		v, err := c.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byte(5), v)
	})

	t.Run("empty and nil", func(t *testing.T) {
		empty, err := Allocate(4)
		require.NoError(t, err)
		require.NoError(t, c.Add(empty))
		require.Equal(t, 2, c.Segments())
		require.ErrorIs(t, c.Add(nil), errs.ErrInvalidArgument)
	})
}

func TestComposite_OfComposites(t *testing.T) {
	left, err := NewComposite(wrapAll(t, []byte{1, 2}, []byte{3})...)
	require.NoError(t, err)
	right, err := NewComposite(wrapAll(t, []byte{4}, []byte{5, 6})...)
	require.NoError(t, err)

	outer, err := NewComposite(left, right)
	require.NoError(t, err)
	require.Equal(t, 6, outer.Capacity())

	got, err := ReadAll(outer)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got)
}

func TestComposite_EqualAndHash(t *testing.T) {
	c, err := NewComposite(wrapAll(t, []byte{1, 2}, []byte{3, 4, 5})...)
	require.NoError(t, err)

	flat, err := Wrap([]byte{1, 2, 3, 4, 5})
	require.NoError(t, err)

	require.True(t, c.Equal(flat))
	require.True(t, flat.Equal(c), "a flat buffer compares against a composite")
	require.Equal(t, flat.Hash(), c.Hash())

	require.NoError(t, c.SkipBytes(1))
	require.False(t, c.Equal(flat))
	require.False(t, flat.Equal(c))
}

func BenchmarkComposite_ReadByte(b *testing.B) {
	parts := make([]ReadableBuffer, 0, 64)
	for range 64 {
		buf, _ := Wrap(make([]byte, 64))
		parts = append(parts, buf)
	}
	c, _ := NewComposite(parts...)

	for b.Loop() {
		_ = c.SetReaderIndex(0)
		for c.IsReadable() {
			_, _ = c.ReadByte()
		}
	}
}
