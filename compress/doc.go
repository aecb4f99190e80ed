// Package compress provides the payload codecs used by blockfile frames.
//
// A frame stores one compression tag (format.CompressionType) in front of its
// payload, so a reader picks the codec from the data itself:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(page)
//
// # Codecs
//
//   - None (format.CompressionNone): payload stored as is.
//   - Zstd (format.CompressionZstd): best ratio, moderate speed. Pure Go by
//     default; build with -tags gozstd (and cgo) to use libzstd.
//   - S2 (format.CompressionS2): balanced speed and ratio.
//   - LZ4 (format.CompressionLZ4): fastest decoding. Raw LZ4 blocks carry no
//     decoded length, so pass the length as sizeHint when it is known.
//
// Compress may fail with errs.ErrIncompressible when a codec cannot shrink its
// input; callers that only want a smaller payload store it with the none codec
// instead.
//
// All codecs are stateless values and safe for concurrent use.
package compress
