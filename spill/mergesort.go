// Package spill sorts record sequences larger than memory by spilling
// sorted runs to temporary files and merging them back.
package spill

import (
	"context"

	"github.com/brimdata/extsort"
	"github.com/brimdata/extsort/merge"
	"github.com/brimdata/extsort/pkg/fs"
	"github.com/brimdata/extsort/run"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// MergeSort is an external merge sort.  It generates sorted runs of at most
// the configured memory budget, merges them in passes of at most FanIn runs
// until FanIn or fewer remain, and streams the final merge to the caller.
// Run files live in a private temporary directory; each is removed as soon
// as a merge pass has consumed it and the directory itself is removed when
// the sort finishes, fails or is closed.
//
// The I/O counters of every sort performed by a MergeSort accumulate in its
// Stats.
type MergeSort[T any] struct {
	conf    Config
	codec   extsort.Codec[T]
	compare extsort.CompareFunc[T]
	logger  *zap.Logger
	stats   run.Stats
}

func NewMergeSort[T any](conf Config, codec extsort.Codec[T], compare extsort.CompareFunc[T], logger *zap.Logger) (*MergeSort[T], error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if codec == nil || compare == nil {
		return nil, extsort.E(extsort.Invalid, "merge sort requires a codec and a comparator")
	}
	if min := extsort.MinSize(codec); conf.BufferSize < min {
		return nil, extsort.E(extsort.Invalid, "buffer size %d is smaller than a %d-byte record", conf.BufferSize, min)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MergeSort[T]{
		conf:    conf,
		codec:   codec,
		compare: compare,
		logger:  logger,
	}, nil
}

// Stats returns the I/O counters of the MergeSort.
func (m *MergeSort[T]) Stats() *run.Stats {
	return &m.stats
}

// Sort consumes input and returns its records in sorted order.  Equal
// records keep their input order.  The returned Output must be closed.
func (m *MergeSort[T]) Sort(ctx context.Context, input extsort.Reader[T]) (*Output[T], error) {
	dir := run.NewDir(m.conf.TempDir)
	logger := m.logger.With(zap.String("sort_id", dir.ID()))
	gen := &run.Generator[T]{
		Dir:     dir,
		Codec:   m.codec,
		Compare: m.compare,
		BufSize: m.conf.BufferSize,
		Budget:  m.conf.budget(),
		Stats:   &m.stats,
		Logger:  logger,
	}
	runs, err := gen.Generate(ctx, input)
	if err != nil {
		return nil, m.abort(logger, dir, err)
	}
	logger.Debug("Runs generated", zap.Int("runs", len(runs)))
	if len(runs) == 0 {
		return &Output[T]{dir: dir, stats: &m.stats, logger: logger}, nil
	}
	runs, err = m.reduce(ctx, logger, dir, runs)
	if err != nil {
		return nil, m.abort(logger, dir, err)
	}
	src, err := m.open(ctx, dir, runs)
	if err != nil {
		return nil, m.abort(logger, dir, err)
	}
	if len(runs) > 1 {
		m.stats.MergePasses.Inc()
		logger.Debug("Final merge pass", zap.Int("runs", len(runs)))
	}
	return &Output[T]{src: src, dir: dir, stats: &m.stats, logger: logger}, nil
}

// SortToFile sorts input into a run file at path.  The file is written
// under a temporary name and renamed into place only if the whole sort
// succeeds.
func (m *MergeSort[T]) SortToFile(ctx context.Context, input extsort.Reader[T], path string) (run.Run, error) {
	out, err := m.Sort(ctx, input)
	if err != nil {
		return run.Run{}, err
	}
	defer out.Close()
	replacer, err := fs.NewFileReplacer(path, 0666)
	if err != nil {
		return run.Run{}, extsort.E(extsort.Storage, extsort.Path(path), err)
	}
	w := run.NewWriter(replacer, replacer.Target(), m.codec, m.conf.BufferSize, &m.stats)
	if err := extsort.CopyWithContext[T](ctx, w, out); err != nil {
		w.Abort()
		return run.Run{}, err
	}
	return w.Close()
}

// reduce merges runs in passes until at most FanIn remain.  Each pass merges
// consecutive groups of FanIn runs into one run apiece; a trailing group of
// a single run is carried into the next pass as is.  Group order is kept so
// that earlier input stays in earlier runs.
func (m *MergeSort[T]) reduce(ctx context.Context, logger *zap.Logger, dir *run.Dir, runs []run.Run) ([]run.Run, error) {
	for pass := 1; len(runs) > m.conf.FanIn; pass++ {
		next := make([]run.Run, 0, (len(runs)+m.conf.FanIn-1)/m.conf.FanIn)
		for len(runs) > 0 {
			n := m.conf.FanIn
			if n > len(runs) {
				n = len(runs)
			}
			group := runs[:n]
			runs = runs[n:]
			if len(group) == 1 {
				next = append(next, group[0])
				continue
			}
			r, err := m.mergeRuns(ctx, dir, group)
			if err != nil {
				return nil, err
			}
			next = append(next, r)
		}
		m.stats.MergePasses.Inc()
		logger.Debug("Merge pass",
			zap.Int("pass", pass),
			zap.Int("runs", len(next)))
		runs = next
	}
	return runs, nil
}

// mergeRuns merges group into a new run, removing the runs of group as they
// are consumed.
func (m *MergeSort[T]) mergeRuns(ctx context.Context, dir *run.Dir, group []run.Run) (run.Run, error) {
	sources, err := m.openRuns(dir, group)
	if err != nil {
		return run.Run{}, err
	}
	merger, err := merge.New(ctx, sources, m.compare)
	if err != nil {
		return run.Run{}, err
	}
	path, err := dir.NextPath()
	if err != nil {
		merger.Close()
		return run.Run{}, err
	}
	w, err := run.Create(path, m.codec, m.conf.BufferSize, &m.stats)
	if err != nil {
		merger.Close()
		return run.Run{}, err
	}
	if err := extsort.CopyWithContext[T](ctx, w, merger); err != nil {
		w.Abort()
		merger.Close()
		return run.Run{}, err
	}
	r, err := w.Close()
	if err != nil {
		dir.Remove(path)
	}
	return r, multierr.Append(err, merger.Close())
}

// open returns a source over runs: the run itself when there is only one,
// or a Merger over all of them.
func (m *MergeSort[T]) open(ctx context.Context, dir *run.Dir, runs []run.Run) (merge.Source[T], error) {
	sources, err := m.openRuns(dir, runs)
	if err != nil {
		return nil, err
	}
	if len(sources) == 1 {
		return sources[0], nil
	}
	return merge.New(ctx, sources, m.compare)
}

// openRuns opens a reader for each run.  Every run file is removed once its
// reader is closed.
func (m *MergeSort[T]) openRuns(dir *run.Dir, runs []run.Run) ([]merge.Source[T], error) {
	sources := make([]merge.Source[T], 0, len(runs))
	for _, r := range runs {
		reader, err := run.Open(r.Path, m.codec, m.conf.BufferSize, &m.stats)
		if err != nil {
			closeSources(sources)
			return nil, err
		}
		sources = append(sources, &spent[T]{reader, dir})
	}
	return sources, nil
}

func (m *MergeSort[T]) abort(logger *zap.Logger, dir *run.Dir, err error) error {
	if rmErr := dir.RemoveAll(); rmErr != nil {
		logger.Warn("Removing run directory", zap.Error(rmErr))
	}
	logger.Debug("Sort aborted", zap.Error(err))
	return err
}

// spent is a run reader that removes its run file when closed.
type spent[T any] struct {
	*run.Reader[T]
	dir *run.Dir
}

func (s *spent[T]) Close() error {
	return multierr.Append(s.Reader.Close(), s.dir.Remove(s.Path()))
}

func closeSources[T any](sources []merge.Source[T]) error {
	var err error
	for _, src := range sources {
		if closer, ok := src.(interface{ Close() error }); ok {
			err = multierr.Append(err, closer.Close())
		}
	}
	return err
}
