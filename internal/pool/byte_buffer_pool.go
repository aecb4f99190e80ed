package pool

import (
	"io"
	"sync"
)

const (
	DefaultBufferSize   = 1024 * 4        // 4KiB, one default block
	MaxRetainedSize     = 1024 * 1024     // 1MiB
	SinkBufferSize      = 1024 * 64       // 64KiB
	SinkMaxRetainedSize = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is a growable byte slice that can be recycled through a ByteBufferPool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates an empty ByteBuffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes held.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the underlying slice.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow ensures room for requiredBytes more bytes without reallocating.
//
// Small buffers grow by DefaultBufferSize; once past four default blocks they
// grow by 25% of their capacity, and always by at least requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := DefaultBufferSize
	if cap(bb.B) > 4*DefaultBufferSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Resize sets the length to n, growing when needed. Newly exposed bytes are zero.
func (bb *ByteBuffer) Resize(n int) {
	cur := len(bb.B)
	if n <= cur {
		bb.B = bb.B[:n]
		return
	}

	bb.Grow(n - cur)
	bb.B = bb.B[:n]
	clear(bb.B[cur:])
}

// Write appends data, growing as needed. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteByte appends a single byte. It never fails.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.Grow(1)
	bb.B = append(bb.B, c)

	return nil
}

// WriteZeros appends n zero bytes.
func (bb *ByteBuffer) WriteZeros(n int) {
	bb.Resize(len(bb.B) + n)
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool recycles ByteBuffers through a sync.Pool.
//
// Buffers that grew beyond maxThreshold are dropped on Put instead of being
// retained, so a single large allocation does not pin memory forever.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose fresh buffers have defaultSize capacity.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// GetSized retrieves a ByteBuffer holding exactly n zero bytes.
func (bbp *ByteBufferPool) GetSized(n int) *ByteBuffer {
	bb := bbp.Get()
	bb.Resize(n)

	return bb
}

// Put returns bb to the pool. A nil buffer is ignored.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	defaultPool = NewByteBufferPool(DefaultBufferSize, MaxRetainedSize)
	sinkPool    = NewByteBufferPool(SinkBufferSize, SinkMaxRetainedSize)
)

// Default returns the process-wide pool backing pooled buffers.
func Default() *ByteBufferPool {
	return defaultPool
}

// GetSinkBuffer retrieves a ByteBuffer sized for in-memory block sinks.
func GetSinkBuffer() *ByteBuffer {
	return sinkPool.Get()
}

// PutSinkBuffer returns a ByteBuffer obtained from GetSinkBuffer.
func PutSinkBuffer(bb *ByteBuffer) {
	sinkPool.Put(bb)
}
