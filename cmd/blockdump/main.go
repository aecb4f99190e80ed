// blockdump prints the block structure of a block-organized file: block size,
// physical and logical sizes, DATA and HEADER block counts and, on request, the
// logical offset of every header run and the frame stored at each of them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/arloliu/blockbuf/blockfile"
	"github.com/arloliu/blockbuf/endian"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	blockSize int
	byteOrder string
	mmap      bool
	headers   bool
	frames    bool
	verbose   bool
}

func run(args []string, out io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("blockdump", pflag.ContinueOnError)
	flagSet.IntVarP(&opts.blockSize, "block-size", "b", blockfile.DefaultBlockSize, "physical block size in bytes")
	flagSet.StringVar(&opts.byteOrder, "byte-order", "little", "byte order of numeric fields: little, big or native")
	flagSet.BoolVar(&opts.mmap, "mmap", false, "memory-map the file instead of reading it through a buffer")
	flagSet.BoolVar(&opts.headers, "headers", false, "list the logical offset of every header run")
	flagSet.BoolVar(&opts.frames, "frames", false, "decode the frame at each header run (implies --headers)")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log block-structure events to stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}

		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if flagSet.NArg() != 1 {
		printHelp(flagSet)
		return fmt.Errorf("expected exactly one file, got %d", flagSet.NArg())
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return dump(flagSet.Arg(0), opts, logger, out)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func open(path string, mmap bool) (blockfile.Source, error) {
	if mmap {
		src, err := blockfile.OpenMapped(path)
		if err != nil {
			return nil, err
		}

		return src, nil
	}

	src, err := blockfile.OpenFile(path)
	if err != nil {
		return nil, err
	}

	return src, nil
}

func dump(path string, opts options, logger *zap.Logger, out io.Writer) error {
	engine, err := endian.ParseEngine(opts.byteOrder)
	if err != nil {
		return err
	}

	src, err := open(path, opts.mmap)
	if err != nil {
		return err
	}

	r, err := blockfile.NewReader(src,
		blockfile.WithBlockSize(opts.blockSize),
		blockfile.WithByteOrder(engine),
		blockfile.WithLogger(logger),
	)
	if err != nil {
		_ = src.Close()
		return err
	}
	defer r.Close()

	s, err := blockfile.Summarize(r)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprintf(out, "file:          %s\n", path)
	fmt.Fprintf(out, "block size:    %d\n", s.BlockSize)
	fmt.Fprintf(out, "byte order:    %s\n", byteOrderName(engine))
	fmt.Fprintf(out, "physical size: %d\n", s.PhysicalSize)
	fmt.Fprintf(out, "logical size:  %d\n", s.LogicalSize)
	fmt.Fprintf(out, "blocks:        %d (%d data, %d header)\n", s.Blocks(), s.DataBlocks, s.HeaderBlocks)
	fmt.Fprintf(out, "header runs:   %d\n", len(s.Headers))

	if !opts.headers && !opts.frames {
		return nil
	}

	for i, off := range s.Headers {
		if !opts.frames {
			fmt.Fprintf(out, "  header %d at %d\n", i, off)
			continue
		}

		if err := r.Seek(off); err != nil {
			return err
		}

		data, info, err := blockfile.ReadFrame(r)
		if err != nil {
			fmt.Fprintf(out, "  header %d at %d: no frame (%v)\n", i, off, err)
			logger.Debug("undecodable header frame", zap.Int64("offset", off), zap.Error(err))

			continue
		}
		fmt.Fprintf(out, "  header %d at %d: %s frame, %d bytes stored, %d raw, %q\n",
			i, off, info.Compression, info.StoredSize, info.RawSize, preview(data))
	}

	return nil
}

func byteOrderName(engine endian.EndianEngine) string {
	if endian.IsBigEndian(engine) {
		return "big-endian"
	}

	return "little-endian"
}

// preview returns up to 32 leading bytes of data.
func preview(data []byte) []byte {
	return data[:min(len(data), 32)]
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `blockdump prints the block structure of a block-organized file.

Usage:
  blockdump [flags] FILE

Examples:
  # Summarize a file written with 4 KiB blocks
  blockdump data.blk

  # List header runs of a log written with 512-byte blocks
  blockdump --block-size 512 --headers wal.log

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
