package spill

import (
	"io"

	"github.com/brimdata/extsort"
	"github.com/brimdata/extsort/merge"
	"github.com/brimdata/extsort/run"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Output is the sorted output of a MergeSort.  It is a single forward pass
// over the records; the temporary directory of the sort is removed when the
// last record has been read, when a read fails, or on Close, whichever comes
// first.
type Output[T any] struct {
	src      merge.Source[T]
	dir      *run.Dir
	stats    *run.Stats
	logger   *zap.Logger
	done     bool
	err      error
	closeErr error
}

var (
	_ extsort.ReadCloser[int] = (*Output[int])(nil)
	_ merge.Source[int]       = (*Output[int])(nil)
)

// HasMore reports whether Next would return a record.
func (o *Output[T]) HasMore() (bool, error) {
	if o.err != nil {
		return false, o.err
	}
	if o.done {
		return false, nil
	}
	if o.src != nil {
		ok, err := o.src.HasMore()
		if err != nil {
			return false, o.fail(err)
		}
		if ok {
			return true, nil
		}
	}
	if err := o.finish(); err != nil {
		o.err = err
		return false, err
	}
	return false, nil
}

// Next returns the next record in sorted order.  It fails with an
// EmptySequence error after the last record.
func (o *Output[T]) Next() (T, error) {
	var zero T
	ok, err := o.HasMore()
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, extsort.E(extsort.EmptySequence, "sorted output exhausted")
	}
	rec, err := o.src.Next()
	if err != nil {
		return zero, o.fail(err)
	}
	return rec, nil
}

// Read implements extsort.Reader.
func (o *Output[T]) Read() (*T, error) {
	ok, err := o.HasMore()
	if !ok || err != nil {
		return nil, err
	}
	rec, err := o.Next()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Stats returns the I/O counters of the MergeSort that produced o.
func (o *Output[T]) Stats() run.Snapshot {
	return o.stats.Snapshot()
}

// Close releases every open run and removes the temporary directory.  It
// returns only errors arising from that cleanup.
func (o *Output[T]) Close() error {
	return o.finish()
}

func (o *Output[T]) fail(err error) error {
	o.err = err
	o.finish()
	return err
}

func (o *Output[T]) finish() error {
	if o.done {
		return o.closeErr
	}
	o.done = true
	var err error
	if closer, ok := o.src.(io.Closer); ok {
		err = closer.Close()
	}
	o.closeErr = multierr.Append(err, o.dir.RemoveAll())
	stats := o.stats.Snapshot()
	o.logger.Debug("Sort finished",
		zap.Int64("buffer_reads", stats.BufferReads),
		zap.Int64("buffer_writes", stats.BufferWrites),
		zap.Int64("runs", stats.Runs),
		zap.Int64("merge_passes", stats.MergePasses),
		zap.Error(o.err))
	return o.closeErr
}
