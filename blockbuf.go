// Package blockbuf provides zero-copy byte buffers and a block-organized stream
// format for the data and log files of an embedded time-series store.
//
// The buffer package holds cursor-based buffers over heap, native (mmap) and
// pooled memory, plus Composite for reading several buffers as one. The
// blockfile package cuts a logical byte stream into fixed-size physical blocks,
// each tagged DATA or HEADER, so a reader can find the next header block without
// decoding what comes before it.
//
// # Basic Usage
//
// Writing a file:
//
//	import "github.com/arloliu/blockbuf"
//
//	w, _ := blockbuf.Create("data.blk", blockfile.WithBlockSize(4096))
//	_ = w.SwitchBlockType() // HEADER
//	_, _ = blockfile.WriteFrame(w, []byte("segment 0"), format.CompressionNone)
//	_ = w.SwitchBlockType() // DATA
//	_, _ = blockfile.WriteFrame(w, page, format.CompressionZstd)
//	_ = w.Close()
//
// Reading it back through a memory mapping:
//
//	r, _ := blockbuf.Open("data.blk", blockfile.WithBlockSize(4096))
//	defer r.Close()
//
//	for {
//	    ok, _ := r.SeekHeader()
//	    if !ok {
//	        break
//	    }
//	    header, _, _ := blockfile.ReadFrame(r)
//	    ...
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the blockfile
// package for the most common use cases. For sinks and sources of your own, or
// for views and summaries, use the blockfile and buffer packages directly.
package blockbuf

import (
	"github.com/arloliu/blockbuf/blockfile"
)

// Create creates or truncates the file at path and returns a Writer over it.
//
// Closing the Writer flushes and closes the file.
func Create(path string, opts ...blockfile.Option) (*blockfile.Writer, error) {
	sink, err := blockfile.CreateFile(path)
	if err != nil {
		return nil, err
	}

	w, err := blockfile.NewWriter(sink, opts...)
	if err != nil {
		_ = sink.Close()
		return nil, err
	}

	return w, nil
}

// Open memory-maps the file at path and returns a Reader over it. Views sliced
// from the Reader share the mapping and become invalid once it is closed.
func Open(path string, opts ...blockfile.Option) (*blockfile.Reader, error) {
	src, err := blockfile.OpenMapped(path)
	if err != nil {
		return nil, err
	}

	return newReader(src, opts)
}

// OpenBuffered opens the file at path for buffered reads and returns a Reader
// over it. Unlike Open, views are copies and stay valid after Close.
func OpenBuffered(path string, opts ...blockfile.Option) (*blockfile.Reader, error) {
	src, err := blockfile.OpenFile(path)
	if err != nil {
		return nil, err
	}

	return newReader(src, opts)
}

// NewBytesReader returns a Reader over an encoded stream held in memory.
// data is not copied.
func NewBytesReader(data []byte, opts ...blockfile.Option) (*blockfile.Reader, error) {
	src, err := blockfile.NewBytesSource(data)
	if err != nil {
		return nil, err
	}

	return newReader(src, opts)
}

func newReader(src blockfile.Source, opts []blockfile.Option) (*blockfile.Reader, error) {
	r, err := blockfile.NewReader(src, opts...)
	if err != nil {
		_ = src.Close()
		return nil, err
	}

	return r, nil
}
