package blockfile

import (
	"fmt"

	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/format"
)

// Summary describes the block structure of a stream.
type Summary struct {
	BlockSize    int
	PhysicalSize int64
	LogicalSize  int64
	DataBlocks   int
	HeaderBlocks int
	// Headers holds the logical position of the first payload byte of every
	// HEADER block that follows a DATA block or starts the stream.
	Headers []int64
}

// Summarize walks every block tag of the reader's source. The reader's position
// is restored afterwards.
func Summarize(r *Reader) (Summary, error) {
	if r.closed {
		return Summary{}, errs.ErrClosed
	}

	s := Summary{
		BlockSize:    r.layout.BlockSize(),
		PhysicalSize: r.srcSize,
		LogicalSize:  r.size,
	}

	saved, savedPhysical, savedType := r.logical, r.physical, r.blockType
	size := r.layout.size
	prev := format.DataBlock
	for blk := int64(0); blk*size < r.srcSize; blk++ {
		if err := r.src.Seek(blk * size); err != nil {
			return Summary{}, r.restore(saved, err)
		}

		t, err := r.src.ReadByte()
		if err != nil {
			return Summary{}, r.restore(saved, err)
		}

		switch bt := format.BlockType(t); bt {
		case format.DataBlock:
			s.DataBlocks++
		case format.HeaderBlock:
			s.HeaderBlocks++
			if prev != format.HeaderBlock {
				s.Headers = append(s.Headers, blk*(size-1))
			}
		default:
			err := fmt.Errorf("%w: tag 0x%02x at physical offset %d", errs.ErrInvalidBlockType, t, blk*size)
			return Summary{}, r.restore(saved, err)
		}
		prev = format.BlockType(t)
	}

	if err := r.src.Seek(savedPhysical); err != nil {
		return Summary{}, r.restore(saved, err)
	}
	r.physical, r.blockType = savedPhysical, savedType

	return s, nil
}

// Blocks returns the total number of blocks.
func (s Summary) Blocks() int {
	return s.DataBlocks + s.HeaderBlocks
}
