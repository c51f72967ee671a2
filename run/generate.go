package run

import (
	"context"

	"github.com/brimdata/extsort"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// Budget bounds the records held in memory while a run is generated.  A
// chunk is written out as soon as it reaches either limit; a zero limit is
// ignored, but at least one must be set.
type Budget struct {
	Records int
	Bytes   int
}

func (b Budget) validate() error {
	if b.Records < 0 || b.Bytes < 0 {
		return extsort.E(extsort.Invalid, "negative memory budget")
	}
	if b.Records == 0 && b.Bytes == 0 {
		return extsort.E(extsort.Invalid, "memory budget requires a record or byte limit")
	}
	return nil
}

func (b Budget) full(nrecs, nbytes int) bool {
	return (b.Records > 0 && nrecs >= b.Records) || (b.Bytes > 0 && nbytes >= b.Bytes)
}

// Generator consumes an unsorted input in memory-sized chunks, sorts each
// chunk and writes it out as a run.
type Generator[T any] struct {
	Dir     *Dir
	Codec   extsort.Codec[T]
	Compare extsort.CompareFunc[T]
	BufSize int
	Budget  Budget
	Stats   *Stats
	Logger  *zap.Logger

	chunk   []T
	nbytes  int
	scratch []byte
	runs    []Run
}

// Generate reads input to the end and returns the runs it wrote, in input
// order.  An empty input yields no runs and creates no files.  On error,
// every run written so far is removed.
func (g *Generator[T]) Generate(ctx context.Context, input extsort.Reader[T]) ([]Run, error) {
	if g.Dir == nil || g.Codec == nil || g.Compare == nil {
		return nil, extsort.E(extsort.Invalid, "run generator requires a directory, codec and comparator")
	}
	if err := g.Budget.validate(); err != nil {
		return nil, err
	}
	if err := checkBufferSize(g.Codec, g.BufSize); err != nil {
		return nil, err
	}
	g.runs = nil
	if err := extsort.CopyWithContext[T](ctx, g, input); err != nil {
		g.abort()
		return nil, err
	}
	if err := g.spill(); err != nil {
		g.abort()
		return nil, err
	}
	runs := g.runs
	g.runs = nil
	return runs, nil
}

// Write adds rec to the current chunk and spills the chunk when the memory
// budget is reached.
func (g *Generator[T]) Write(rec T) error {
	var size int
	var err error
	size, g.scratch, err = extsort.EncodedSize(g.Codec, rec, g.scratch)
	if err != nil {
		return extsort.E(extsort.Encoding, err)
	}
	g.chunk = append(g.chunk, rec)
	g.nbytes += size
	if g.Stats != nil {
		g.Stats.Records.Inc()
	}
	if g.Budget.full(len(g.chunk), g.nbytes) {
		return g.spill()
	}
	return nil
}

// spill stable-sorts the current chunk and writes it as one run.
func (g *Generator[T]) spill() error {
	if len(g.chunk) == 0 {
		return nil
	}
	slices.SortStableFunc(g.chunk, g.Compare.Less)
	path, err := g.Dir.NextPath()
	if err != nil {
		return err
	}
	w, err := Create(path, g.Codec, g.BufSize, g.Stats)
	if err != nil {
		return err
	}
	for _, rec := range g.chunk {
		if err := w.Write(rec); err != nil {
			w.Abort()
			return err
		}
	}
	r, err := w.Close()
	if err != nil {
		g.Dir.Remove(path)
		return err
	}
	g.runs = append(g.runs, r)
	g.Stats.run()
	if g.Logger != nil {
		g.Logger.Debug("Run written",
			zap.String("path", r.Path),
			zap.Int64("records", r.Records),
			zap.Int64("bytes", r.Size))
	}
	var zero T
	for i := range g.chunk {
		g.chunk[i] = zero
	}
	g.chunk = g.chunk[:0]
	g.nbytes = 0
	return nil
}

func (g *Generator[T]) abort() {
	for _, r := range g.runs {
		g.Dir.Remove(r.Path)
	}
	g.runs = nil
	g.chunk = g.chunk[:0]
	g.nbytes = 0
}
