package blockfile

import (
	"fmt"

	"github.com/arloliu/blockbuf/endian"
	"github.com/arloliu/blockbuf/errs"
	"github.com/arloliu/blockbuf/internal/options"
	"go.uber.org/zap"
)

// DefaultBlockSize is the physical block size used when WithBlockSize is not given.
const DefaultBlockSize = 4096

// Config holds the settings shared by Writer, Reader and Summarize.
type Config struct {
	blockSize int
	logger    *zap.Logger
	engine    endian.EndianEngine
}

// Option configures a Writer or Reader.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	c := &Config{
		blockSize: DefaultBlockSize,
		logger:    zap.NewNop(),
		engine:    endian.DefaultEngine(),
	}

	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate reports an invalid combination of options.
func (c *Config) Validate() error {
	if c.blockSize < 2 {
		return fmt.Errorf("%w: %d, need at least 2 bytes for tag and payload", errs.ErrInvalidBlockSize, c.blockSize)
	}

	return nil
}

// BlockSize returns the configured physical block size.
func (c *Config) BlockSize() int {
	return c.blockSize
}

// WithBlockSize sets the physical block size S, tag byte included.
// Writer and Reader of one stream must agree on it.
func WithBlockSize(size int) Option {
	return options.NoError(func(c *Config) {
		c.blockSize = size
	})
}

// WithLogger sets the logger for block structure events. A nil logger keeps the
// default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithByteOrder sets the byte order of multi-byte reads on views returned by
// Reader.Slice.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.New(func(c *Config) error {
		if engine == nil {
			return fmt.Errorf("%w: nil byte order", errs.ErrInvalidArgument)
		}
		c.engine = engine

		return nil
	})
}
