package buffer

import (
	"bytes"
	"fmt"

	"github.com/arloliu/blockbuf/endian"
	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/format"
	"github.com/arloliu/blockbuf/internal/hash"
	"github.com/arloliu/blockbuf/internal/pool"
)

// Buffer is a window over a storage region with independent read and write cursors.
//
// The window starts at offset within the storage and spans Capacity() bytes.
// Indices accepted by GetByte, SetByte and friends are relative to the window.
// At all times 0 <= ReaderIndex() <= WriterIndex() <= Capacity().
//
// A Buffer is not safe for concurrent use, and neither is a set of buffers that
// share storage through Duplicate, Slice or Region.
type Buffer struct {
	st          storage
	offset      int
	length      int
	readerIndex int
	writerIndex int
	engine      endian.EndianEngine
	owner       bool
}

var _ ReadableBuffer = (*Buffer)(nil)

var defaultPool = &Pool{p: pool.Default()}

func newBuffer(st storage, offset, length, writerIndex int) *Buffer {
	return &Buffer{
		st:          st,
		offset:      offset,
		length:      length,
		writerIndex: writerIndex,
		engine:      endian.DefaultEngine(),
		owner:       true,
	}
}

// Allocate creates an empty heap buffer of the given capacity, ready for writing.
func Allocate(capacity int) (*Buffer, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", errs.ErrInvalidArgument, capacity)
	}

	return newBuffer(newHeapStorage(make([]byte, capacity)), 0, capacity, 0), nil
}

// Wrap creates a heap buffer over data without copying. All of data is readable.
func Wrap(data []byte) (*Buffer, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil backing slice", errs.ErrInvalidArgument)
	}

	return newBuffer(newHeapStorage(data), 0, len(data), len(data)), nil
}

// WrapRegion creates a heap buffer over data[offset:offset+length] without copying.
func WrapRegion(data []byte, offset, length int) (*Buffer, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil backing slice", errs.ErrInvalidArgument)
	}
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, fmt.Errorf("%w: region [%d, %d) of %d bytes", errs.ErrInvalidArgument, offset, offset+length, len(data))
	}

	return newBuffer(newHeapStorage(data), offset, length, length), nil
}

// AllocateNative creates an empty buffer of the given capacity outside the Go heap.
// The caller must Release it to unmap the memory.
func AllocateNative(capacity int) (*Buffer, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", errs.ErrInvalidArgument, capacity)
	}

	st, err := mapAnonymous(capacity)
	if err != nil {
		return nil, err
	}

	return newBuffer(st, 0, capacity, 0), nil
}

// WrapNative creates a buffer over memory the Go runtime does not manage, such as a
// file mapping. All of data is readable. free, if not nil, runs once on Release.
// Writes through a read-only buffer fail with errs.ErrReadOnly.
func WrapNative(data []byte, readOnly bool, free func([]byte) error) (*Buffer, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil native region", errs.ErrInvalidArgument)
	}

	st := &nativeStorage{sliceStorage: sliceStorage{data: data}, ro: readOnly, free: free}

	return newBuffer(st, 0, len(data), len(data)), nil
}

// AllocatePooled creates an empty buffer whose storage is borrowed from the default
// pool. Release returns the storage to the pool.
func AllocatePooled(capacity int) (*Buffer, error) {
	return defaultPool.Allocate(capacity)
}

// Pool hands out buffers backed by recycled storage.
type Pool struct {
	p *pool.ByteBufferPool
}

// NewPool creates a pool whose fresh storage has defaultSize capacity. Storage that
// grew beyond maxRetained is dropped instead of recycled; 0 retains everything.
func NewPool(defaultSize, maxRetained int) *Pool {
	return &Pool{p: pool.NewByteBufferPool(defaultSize, maxRetained)}
}

// Allocate creates an empty, zeroed buffer of the given capacity from the pool.
func (p *Pool) Allocate(capacity int) (*Buffer, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", errs.ErrInvalidArgument, capacity)
	}

	return newBuffer(newPooledStorage(p.p, capacity), 0, capacity, 0), nil
}

// Kind reports the storage backing of the buffer.
func (b *Buffer) Kind() format.StorageKind {
	return b.st.kind()
}

// HasArray reports whether Array exposes the backing storage.
func (b *Buffer) HasArray() bool {
	return b.st.array() != nil
}

// Array returns the whole backing storage, or nil for native buffers.
// The buffer's window starts at ArrayOffset().
func (b *Buffer) Array() []byte {
	return b.st.array()
}

// ArrayOffset returns the position of index 0 within Array().
func (b *Buffer) ArrayOffset() int {
	return b.offset
}

// Bytes returns the readable bytes without copying, or nil when HasArray is false.
func (b *Buffer) Bytes() []byte {
	arr := b.st.array()
	if arr == nil {
		return nil
	}

	return arr[b.offset+b.readerIndex : b.offset+b.writerIndex]
}

// Order returns the byte order used for multi-byte values.
func (b *Buffer) Order() endian.EndianEngine {
	return b.engine
}

// SetOrder sets the byte order used for multi-byte values and returns b.
// A nil engine restores the default order.
func (b *Buffer) SetOrder(engine endian.EndianEngine) *Buffer {
	if engine == nil {
		engine = endian.DefaultEngine()
	}
	b.engine = engine

	return b
}

func (b *Buffer) Capacity() int {
	return b.length
}

func (b *Buffer) ReaderIndex() int {
	return b.readerIndex
}

// SetReaderIndex moves the read cursor. index must lie in [0, WriterIndex()].
func (b *Buffer) SetReaderIndex(index int) error {
	if index < 0 || index > b.writerIndex {
		return errs.OutOfBounds(index, 0, b.writerIndex)
	}
	b.readerIndex = index

	return nil
}

func (b *Buffer) WriterIndex() int {
	return b.writerIndex
}

// SetWriterIndex moves the write cursor. index must lie in [ReaderIndex(), Capacity()].
func (b *Buffer) SetWriterIndex(index int) error {
	if index < b.readerIndex || index > b.length {
		return errs.OutOfBounds(index, 0, b.length)
	}
	b.writerIndex = index

	return nil
}

func (b *Buffer) ReadableBytes() int {
	return b.writerIndex - b.readerIndex
}

func (b *Buffer) WriteableBytes() int {
	return b.length - b.writerIndex
}

func (b *Buffer) IsReadable() bool {
	return b.writerIndex > b.readerIndex
}

func (b *Buffer) IsWriteable() bool {
	return b.length > b.writerIndex
}

// Clear resets both cursors to 0. The content is untouched.
func (b *Buffer) Clear() {
	b.readerIndex = 0
	b.writerIndex = 0
}

func (b *Buffer) checkReadable(n int) error {
	if b.st.released() {
		return errs.ErrReleased
	}
	if n < 0 || n > b.writerIndex-b.readerIndex {
		return errs.NotEnough(n, b.writerIndex-b.readerIndex)
	}

	return nil
}

func (b *Buffer) checkWriteable(n int) error {
	if b.st.released() {
		return errs.ErrReleased
	}
	if b.st.readOnly() {
		return errs.ErrReadOnly
	}
	if n < 0 || n > b.length-b.writerIndex {
		return errs.NotEnough(n, b.length-b.writerIndex)
	}

	return nil
}

func (b *Buffer) checkIndex(index, n int) error {
	if b.st.released() {
		return errs.ErrReleased
	}
	if index < 0 || n < 0 || index > b.length-n {
		return errs.OutOfBounds(index, n, b.length)
	}

	return nil
}

func (b *Buffer) checkSetIndex(index, n int) error {
	if err := b.checkIndex(index, n); err != nil {
		return err
	}
	if b.st.readOnly() {
		return errs.ErrReadOnly
	}

	return nil
}

func (b *Buffer) ReadByte() (byte, error) {
	if err := b.checkReadable(1); err != nil {
		return 0, err
	}
	v := b.st.getByte(b.offset + b.readerIndex)
	b.readerIndex++

	return v, nil
}

// ReadBytes fills dst from the read cursor. It fails without reading anything when
// fewer than len(dst) bytes are readable.
func (b *Buffer) ReadBytes(dst []byte) error {
	if err := b.checkReadable(len(dst)); err != nil {
		return err
	}
	b.st.getBytes(b.offset+b.readerIndex, dst)
	b.readerIndex += len(dst)

	return nil
}

func (b *Buffer) SkipBytes(n int) error {
	if err := b.checkReadable(n); err != nil {
		return err
	}
	b.readerIndex += n

	return nil
}

func (b *Buffer) WriteByte(v byte) error {
	if err := b.checkWriteable(1); err != nil {
		return err
	}
	b.st.setByte(b.offset+b.writerIndex, v)
	b.writerIndex++

	return nil
}

// WriteBytes copies src at the write cursor. It fails without writing anything when
// fewer than len(src) bytes are writeable.
func (b *Buffer) WriteBytes(src []byte) error {
	if err := b.checkWriteable(len(src)); err != nil {
		return err
	}
	b.st.setBytes(b.offset+b.writerIndex, src)
	b.writerIndex += len(src)

	return nil
}

// WriteZeroBytes writes n zero bytes at the write cursor.
func (b *Buffer) WriteZeroBytes(n int) error {
	if err := b.checkWriteable(n); err != nil {
		return err
	}

	var zeros [64]byte
	pos := b.offset + b.writerIndex
	for rest := n; rest > 0; {
		k := min(rest, len(zeros))
		b.st.setBytes(pos, zeros[:k])
		pos += k
		rest -= k
	}
	b.writerIndex += n

	return nil
}

// GetByte returns the byte at index without moving any cursor.
func (b *Buffer) GetByte(index int) (byte, error) {
	if err := b.checkIndex(index, 1); err != nil {
		return 0, err
	}

	return b.st.getByte(b.offset + index), nil
}

// GetBytes copies len(dst) bytes starting at index without moving any cursor.
func (b *Buffer) GetBytes(index int, dst []byte) error {
	if err := b.checkIndex(index, len(dst)); err != nil {
		return err
	}
	b.st.getBytes(b.offset+index, dst)

	return nil
}

// SetByte stores v at index without moving any cursor.
func (b *Buffer) SetByte(index int, v byte) error {
	if err := b.checkSetIndex(index, 1); err != nil {
		return err
	}
	b.st.setByte(b.offset+index, v)

	return nil
}

// SetBytes copies src to index without moving any cursor.
func (b *Buffer) SetBytes(index int, src []byte) error {
	if err := b.checkSetIndex(index, len(src)); err != nil {
		return err
	}
	b.st.setBytes(b.offset+index, src)

	return nil
}

// Duplicate returns a buffer sharing b's storage with a copy of its window and
// cursors. Later cursor or window changes on either side are independent; byte
// changes are visible to both. The duplicate does not own the storage.
func (b *Buffer) Duplicate() *Buffer {
	d := *b
	d.owner = false

	return &d
}

// Slice advances the read cursor by n and returns a buffer over exactly those n
// bytes, with ReaderIndex 0 and WriterIndex n.
func (b *Buffer) Slice(n int) (*Buffer, error) {
	s := &Buffer{}
	if err := b.SliceInto(s, n); err != nil {
		return nil, err
	}

	return s, nil
}

// SliceInto behaves like Slice but repositions dst instead of allocating a new
// buffer, so a hot loop can reuse one slice object.
func (b *Buffer) SliceInto(dst *Buffer, n int) error {
	if err := b.checkReadable(n); err != nil {
		return err
	}

	*dst = Buffer{
		st:          b.st,
		offset:      b.offset + b.readerIndex,
		length:      n,
		writerIndex: n,
		engine:      b.engine,
	}
	b.readerIndex += n

	return nil
}

// Region returns a readable buffer over [index, index+length) of b's window without
// moving b's cursors.
func (b *Buffer) Region(index, length int) (ReadableBuffer, error) {
	if err := b.checkIndex(index, length); err != nil {
		return nil, err
	}

	return &Buffer{
		st:          b.st,
		offset:      b.offset + index,
		length:      length,
		writerIndex: length,
		engine:      b.engine,
	}, nil
}

// SubRegion moves this buffer's window to [offset, offset+length) of the backing
// storage and resets the cursors to ReaderIndex 0, WriterIndex length.
func (b *Buffer) SubRegion(offset, length int) error {
	if err := b.checkSubRegion(offset, length); err != nil {
		return err
	}
	b.offset = offset
	b.length = length
	b.readerIndex = 0
	b.writerIndex = length

	return nil
}

func (b *Buffer) checkSubRegion(offset, length int) error {
	if b.st.released() {
		return errs.ErrReleased
	}
	size := b.st.size()
	if offset < 0 || length < 0 || offset > size-length {
		return errs.OutOfBounds(offset, length, size)
	}

	return nil
}

// Equal reports whether the readable bytes of b and other are identical. other
// may be any ReadableBuffer, such as a Composite or a block view.
func (b *Buffer) Equal(other ReadableBuffer) bool {
	if other == nil || b.st.released() {
		return false
	}

	ob, ok := other.(*Buffer)
	if !ok {
		return Equal(b, other)
	}
	if ob == nil || ob.st.released() || b.ReadableBytes() != ob.ReadableBytes() {
		return false
	}

	return bytes.Equal(b.readable(), ob.readable())
}

// Hash returns the xxHash64 of the readable bytes. Buffers that are Equal hash equally.
func (b *Buffer) Hash() uint64 {
	if b.st.released() {
		return hash.Sum(nil)
	}

	return hash.Sum(b.readable())
}

func (b *Buffer) readable() []byte {
	return b.st.window(b.offset+b.readerIndex, b.offset+b.writerIndex)
}

// Release frees the storage if b owns it. Releasing twice, or releasing a derived
// buffer, is a no-op. Every buffer sharing the storage fails with errs.ErrReleased
// afterwards.
func (b *Buffer) Release() error {
	if !b.owner {
		return nil
	}

	return b.st.release()
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%s, ridx: %d, widx: %d, cap: %d)", b.st.kind(), b.readerIndex, b.writerIndex, b.length)
}
