// Package blockfile implements the block-organized stream format used by data and
// log files.
//
// A stream is cut into physical blocks of S bytes (DefaultBlockSize unless set
// with WithBlockSize). Byte 0 of each block is a tag, format.DataBlock or
// format.HeaderBlock, and the remaining S-1 bytes carry payload. The last block
// may be short. Readers see only the payload, as one contiguous logical stream:
//
//	logical byte i  ->  physical byte i + i/(S-1) + 1
//
// Header blocks let a reader that lost its place, for example after a torn
// write, find the next record boundary with Reader.SeekHeader instead of
// decoding everything before it.
//
// # Writing
//
//	sink := blockfile.NewMemorySink()
//	w, _ := blockfile.NewWriter(sink, blockfile.WithBlockSize(512))
//
//	_ = w.SwitchBlockType() // pads the current block, now writing HEADER blocks
//	_, _ = blockfile.WriteFrame(w, header, format.CompressionNone)
//	_ = w.SwitchBlockType() // back to DATA
//	_, _ = blockfile.WriteFrame(w, page, format.CompressionZstd)
//	_ = w.Close()
//
// # Reading
//
//	src, _ := blockfile.OpenMapped(path)
//	r, _ := blockfile.NewReader(src, blockfile.WithBlockSize(512))
//	defer r.Close()
//
//	if ok, _ := r.SeekHeader(); ok {
//		header, _, _ := blockfile.ReadFrame(r)
//		...
//	}
//
// Reader.SliceView hands out a View over a logical range. Views read directly
// from the source's slice of physical bytes, so over a memory mapping or an
// in-memory buffer no payload is copied.
//
// # Sinks and sources
//
// Writer encodes into any Sink and Reader decodes from any Source. The package
// ships MemorySink, BufferSource, FileSink, FileSource and OpenMapped. Writer is
// itself a Sink and Reader a Source.
//
// # Errors
//
// Reading or slicing past the logical end fails with errs.ErrEndOfStream and
// seeking past it with errs.ErrOutOfBounds. An unknown tag fails with
// errs.ErrInvalidBlockType. Using a Writer or Reader after Close fails with
// errs.ErrClosed. Failed reads leave the position unchanged.
package blockfile
