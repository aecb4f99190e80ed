// Package encoding provides the small variable-length encodings used inside
// block-organized streams.
//
// All helpers are stateless and work over io.ByteWriter / io.ByteReader, so they
// accept a blockfile.Writer, a blockfile.Reader, a blockfile.View, a
// buffer.Buffer or a bytes.Buffer alike:
//
//	w, _ := blockfile.NewWriter(sink)
//	_ = encoding.WriteVarint(w, -42)
//	_ = encoding.WriteString(w, "cpu.usage")
//
// Unsigned values use LEB128 (7 data bits per byte, high bit set on every byte
// but the last). Signed values are zig-zag mapped first so small magnitudes of
// either sign stay short:
//
//	 0 -> 0
//	-1 -> 1
//	 1 -> 2
//	-2 -> 3
//
// A value never takes more than MaxVarintLen64 bytes; longer input fails with
// errs.ErrVarintOverflow.
package encoding
