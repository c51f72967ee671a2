package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/brimdata/extsort"
	"github.com/brimdata/extsort/cli"
	"github.com/brimdata/extsort/cli/logflags"
	"github.com/brimdata/extsort/cli/sortflags"
	"github.com/brimdata/extsort/lineio"
	"github.com/brimdata/extsort/pkg/fs"
	"github.com/brimdata/extsort/spill"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Command struct {
	cli.Flags
	logFlags    logflags.Flags
	sortFlags   sortflags.Flags
	recType     string
	reverse     bool
	output      string
	runFile     string
	statsPath   string
	metricsAddr string
}

func New(f *flag.FlagSet) *Command {
	c := &Command{}
	c.Flags.SetFlags(f)
	c.logFlags.SetFlags(f)
	c.sortFlags.SetFlags(f)
	f.StringVar(&c.recType, "type", "line", "record type of each input line (values: line, int, float)")
	f.BoolVar(&c.reverse, "r", false, "sort in descending order")
	f.StringVar(&c.output, "o", "", "write sorted output to file instead of stdout (replaced atomically)")
	f.StringVar(&c.runFile, "runfile", "", "write sorted output as a binary run file instead of text")
	f.StringVar(&c.statsPath, "stats", "", "write I/O statistics of the sort as JSON to file")
	f.StringVar(&c.metricsAddr, "metrics.addr", "", "serve Prometheus metrics at this address while sorting")
	return c
}

func (c *Command) Run(args []string) error {
	ctx, cancel, err := c.Init(&c.logFlags, &c.sortFlags)
	if err != nil {
		return err
	}
	defer cancel()
	if c.output != "" && c.runFile != "" {
		return extsort.E(extsort.Invalid, "-o and -runfile cannot be used together")
	}
	for _, path := range args {
		if !cli.FileExists(path) {
			return fmt.Errorf("%s: no such file", path)
		}
	}
	logger, err := c.logFlags.Open()
	if err != nil {
		return err
	}
	defer logger.Sync()
	switch c.recType {
	case "line":
		return sortLines(ctx, c, logger, args, lineType[string]{
			codec:   extsort.StringCodec{},
			compare: extsort.Compare[string],
			parse:   lineio.ParseString,
			format:  lineio.FormatString,
		})
	case "int":
		return sortLines(ctx, c, logger, args, lineType[int64]{
			codec:   extsort.Int64Codec{},
			compare: extsort.Compare[int64],
			parse:   lineio.ParseInt,
			format:  lineio.FormatInt,
		})
	case "float":
		return sortLines(ctx, c, logger, args, lineType[float64]{
			codec:   extsort.Float64Codec{},
			compare: extsort.Compare[float64],
			parse:   lineio.ParseFloat,
			format:  lineio.FormatFloat,
		})
	}
	return fmt.Errorf("unknown record type: %q", c.recType)
}

// lineType describes how lines of one record type are parsed, encoded,
// compared and printed.
type lineType[T any] struct {
	codec   extsort.Codec[T]
	compare extsort.CompareFunc[T]
	parse   lineio.ParseFunc[T]
	format  lineio.FormatFunc[T]
}

func sortLines[T any](ctx context.Context, c *Command, logger *zap.Logger, paths []string, typ lineType[T]) error {
	compare := typ.compare
	if c.reverse {
		compare = extsort.Reverse(compare)
	}
	ms, err := spill.NewMergeSort(c.sortFlags.Config, typ.codec, compare, logger)
	if err != nil {
		return err
	}
	if c.metricsAddr != "" {
		stop, err := serveMetrics(c.metricsAddr, ms.Stats(), logger)
		if err != nil {
			return err
		}
		defer stop()
	}
	input, closeInputs, err := openInputs(paths, typ.parse)
	if err != nil {
		return err
	}
	err = sortTo(ctx, c, ms, input, typ.format)
	if closeErr := closeInputs(); err == nil {
		err = closeErr
	}
	stats := ms.Stats().Snapshot()
	logger.Info("Sort complete",
		zap.Int64("records", stats.Records),
		zap.Int64("runs", stats.Runs),
		zap.Int64("merge_passes", stats.MergePasses),
		zap.Int64("buffer_reads", stats.BufferReads),
		zap.Int64("buffer_writes", stats.BufferWrites),
		zap.Error(err))
	if err == nil && c.statsPath != "" {
		err = fs.MarshalJSONFile(stats, c.statsPath, 0666)
	}
	return err
}

func sortTo[T any](ctx context.Context, c *Command, ms *spill.MergeSort[T], input extsort.Reader[T], format lineio.FormatFunc[T]) error {
	if c.runFile != "" {
		_, err := ms.SortToFile(ctx, input, c.runFile)
		return err
	}
	out, err := ms.Sort(ctx, input)
	if err != nil {
		return err
	}
	write := func(w io.Writer) error {
		lw := lineio.NewWriter(w, format)
		if err := extsort.CopyWithContext[T](ctx, lw, out); err != nil {
			return err
		}
		return lw.Flush()
	}
	if c.output == "" {
		err = write(os.Stdout)
	} else {
		err = fs.ReplaceFile(c.output, 0666, write)
	}
	return multierr.Append(err, out.Close())
}

// openInputs returns a reader over the concatenated lines of paths, with
// no paths or "-" meaning standard input.
func openInputs[T any](paths []string, parse lineio.ParseFunc[T]) (extsort.Reader[T], func() error, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	var readers []extsort.Reader[T]
	var files []*os.File
	closeAll := func() error {
		var err error
		for _, f := range files {
			err = multierr.Append(err, f.Close())
		}
		return err
	}
	for _, path := range paths {
		if path == "-" {
			readers = append(readers, lineio.NewReader(os.Stdin, "stdin", parse))
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		readers = append(readers, lineio.NewReader(f, path, parse))
	}
	return extsort.ConcatReader(readers...), closeAll, nil
}
