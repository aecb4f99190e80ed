package buffer

// Multi-byte accessors. Values are assembled from single bytes and converted with
// the buffer's EndianEngine, so every backing and every ReadableBuffer shares the
// same code path.

// ReadUint16 reads a 16-bit value from r in r's byte order.
func ReadUint16(r ReadableBuffer) (uint16, error) {
	var s [2]byte
	if err := r.ReadBytes(s[:]); err != nil {
		return 0, err
	}

	return r.Order().Uint16(s[:]), nil
}

// ReadUint32 reads a 32-bit value from r in r's byte order.
func ReadUint32(r ReadableBuffer) (uint32, error) {
	var s [4]byte
	if err := r.ReadBytes(s[:]); err != nil {
		return 0, err
	}

	return r.Order().Uint32(s[:]), nil
}

// ReadUint64 reads a 64-bit value from r in r's byte order.
func ReadUint64(r ReadableBuffer) (uint64, error) {
	var s [8]byte
	if err := r.ReadBytes(s[:]); err != nil {
		return 0, err
	}

	return r.Order().Uint64(s[:]), nil
}

func ReadInt16(r ReadableBuffer) (int16, error) {
	v, err := ReadUint16(r)
	return int16(v), err //nolint:gosec
}

func ReadInt32(r ReadableBuffer) (int32, error) {
	v, err := ReadUint32(r)
	return int32(v), err //nolint:gosec
}

func ReadInt64(r ReadableBuffer) (int64, error) {
	v, err := ReadUint64(r)
	return int64(v), err //nolint:gosec
}

func (b *Buffer) ReadUint16() (uint16, error) { return ReadUint16(b) }
func (b *Buffer) ReadUint32() (uint32, error) { return ReadUint32(b) }
func (b *Buffer) ReadUint64() (uint64, error) { return ReadUint64(b) }
func (b *Buffer) ReadInt16() (int16, error) { return ReadInt16(b) }
func (b *Buffer) ReadInt32() (int32, error) { return ReadInt32(b) }
func (b *Buffer) ReadInt64() (int64, error) { return ReadInt64(b) }

func (b *Buffer) WriteUint16(v uint16) error {
	var s [2]byte
	b.engine.PutUint16(s[:], v)

	return b.WriteBytes(s[:])
}

func (b *Buffer) WriteUint32(v uint32) error {
	var s [4]byte
	b.engine.PutUint32(s[:], v)

	return b.WriteBytes(s[:])
}

func (b *Buffer) WriteUint64(v uint64) error {
	var s [8]byte
	b.engine.PutUint64(s[:], v)

	return b.WriteBytes(s[:])
}

func (b *Buffer) WriteInt16(v int16) error { return b.WriteUint16(uint16(v)) } //nolint:gosec
func (b *Buffer) WriteInt32(v int32) error { return b.WriteUint32(uint32(v)) } //nolint:gosec
func (b *Buffer) WriteInt64(v int64) error { return b.WriteUint64(uint64(v)) } //nolint:gosec

func (b *Buffer) GetUint16(index int) (uint16, error) {
	var s [2]byte
	if err := b.GetBytes(index, s[:]); err != nil {
		return 0, err
	}

	return b.engine.Uint16(s[:]), nil
}

func (b *Buffer) GetUint32(index int) (uint32, error) {
	var s [4]byte
	if err := b.GetBytes(index, s[:]); err != nil {
		return 0, err
	}

	return b.engine.Uint32(s[:]), nil
}

func (b *Buffer) GetUint64(index int) (uint64, error) {
	var s [8]byte
	if err := b.GetBytes(index, s[:]); err != nil {
		return 0, err
	}

	return b.engine.Uint64(s[:]), nil
}

func (b *Buffer) GetInt16(index int) (int16, error) {
	v, err := b.GetUint16(index)
	return int16(v), err //nolint:gosec
}

func (b *Buffer) GetInt32(index int) (int32, error) {
	v, err := b.GetUint32(index)
	return int32(v), err //nolint:gosec
}

func (b *Buffer) GetInt64(index int) (int64, error) {
	v, err := b.GetUint64(index)
	return int64(v), err //nolint:gosec
}

func (b *Buffer) SetUint16(index int, v uint16) error {
	var s [2]byte
	b.engine.PutUint16(s[:], v)

	return b.SetBytes(index, s[:])
}

func (b *Buffer) SetUint32(index int, v uint32) error {
	var s [4]byte
	b.engine.PutUint32(s[:], v)

	return b.SetBytes(index, s[:])
}

func (b *Buffer) SetUint64(index int, v uint64) error {
	var s [8]byte
	b.engine.PutUint64(s[:], v)

	return b.SetBytes(index, s[:])
}

func (b *Buffer) SetInt16(index int, v int16) error { return b.SetUint16(index, uint16(v)) } //nolint:gosec
func (b *Buffer) SetInt32(index int, v int32) error { return b.SetUint32(index, uint32(v)) } //nolint:gosec
func (b *Buffer) SetInt64(index int, v int64) error { return b.SetUint64(index, uint64(v)) } //nolint:gosec
