// Package buffer provides zero-copy byte buffers with independent read and write
// cursors.
//
// A Buffer is a window (offset, length) over a storage region plus a reader and a
// writer index. Duplicate, Slice and Region create new windows over the same
// storage without copying; SubRegion moves a window in place.
//
//	buf, _ := buffer.Allocate(16)
//	_ = buf.WriteUint32(42)
//	_ = buf.WriteBytes([]byte("abc"))
//
//	head, _ := buf.Slice(4)     // buf.ReaderIndex() == 4
//	v, _ := head.ReadUint32()   // 42
//
// # Storage backings
//
// Three backings sit behind the same cursor and bounds logic, so call sites never
// need to know which one they hold:
//
//   - heap: Allocate, Wrap, WrapRegion
//   - native: AllocateNative (anonymous mmap outside the Go heap) and WrapNative
//     (foreign memory such as a file mapping); HasArray is false
//   - pooled: AllocatePooled and Pool.Allocate, storage recycled on Release
//
// Only the buffer returned by a constructor owns its storage. Release on the owner
// frees the storage once; every buffer sharing it fails with errs.ErrReleased
// afterwards.
//
// # Composite
//
// Composite presents several readable buffers end to end as one read-only
// sequence without copying.
//
// # Errors
//
// Any access that needs more bytes than are readable or writeable, or that
// addresses an index outside the window, fails with errs.ErrOutOfBounds and
// leaves the cursors untouched.
//
// # Thread Safety
//
// Buffers are not synchronized. A buffer, and every buffer sharing its storage,
// must be used by one goroutine at a time.
package buffer
