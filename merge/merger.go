// Package merge implements the k-way merge of sorted record sources.
package merge

import (
	"container/heap"
	"context"
	"io"

	"github.com/brimdata/extsort"
	"go.uber.org/multierr"
)

// Source is a sorted sequence of records.  run.Reader implements Source.
type Source[T any] interface {
	HasMore() (bool, error)
	Next() (T, error)
}

// Merger interleaves sorted sources into one sorted sequence.  It keeps the
// head record of every unexhausted source in a min-heap; records that
// compare equal are returned in source order, so merging runs produced from
// consecutive chunks of an input preserves the input order of equal records.
//
// A source that implements io.Closer is closed as soon as it is exhausted.
type Merger[T any] struct {
	ctx      context.Context
	sources  []Source[T]
	frontier *frontier[T]
	err      error
}

type head[T any] struct {
	rec T
	src int
}

var (
	_ extsort.Reader[int] = (*Merger[int])(nil)
	_ Source[int]         = (*Merger[int])(nil)
)

// New returns a Merger over sources, priming the heap with the first record
// of every non-empty source.
func New[T any](ctx context.Context, sources []Source[T], compare extsort.CompareFunc[T]) (*Merger[T], error) {
	m := &Merger[T]{
		ctx:     ctx,
		sources: sources,
		frontier: &frontier[T]{
			compare: compare,
			heads:   make([]head[T], 0, len(sources)),
		},
	}
	for i := range sources {
		if err := m.advance(i); err != nil {
			m.Close()
			return nil, err
		}
	}
	heap.Init(m.frontier)
	return m, nil
}

// advance pushes the next record of source i onto the heap or, if the
// source is exhausted, closes it.
func (m *Merger[T]) advance(i int) error {
	src := m.sources[i]
	ok, err := src.HasMore()
	if err != nil {
		return err
	}
	if !ok {
		return m.closeSource(i)
	}
	rec, err := src.Next()
	if err != nil {
		return err
	}
	m.frontier.heads = append(m.frontier.heads, head[T]{rec, i})
	return nil
}

func (m *Merger[T]) closeSource(i int) error {
	src := m.sources[i]
	if src == nil {
		return nil
	}
	m.sources[i] = nil
	if closer, ok := src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// frontier is a min-heap of source heads ordered by record and then by
// source index.
type frontier[T any] struct {
	compare extsort.CompareFunc[T]
	heads   []head[T]
}

func (f *frontier[T]) Len() int { return len(f.heads) }

func (f *frontier[T]) Less(i, j int) bool {
	if c := f.compare(f.heads[i].rec, f.heads[j].rec); c != 0 {
		return c < 0
	}
	return f.heads[i].src < f.heads[j].src
}

func (f *frontier[T]) Swap(i, j int) { f.heads[i], f.heads[j] = f.heads[j], f.heads[i] }

func (f *frontier[T]) Push(x interface{}) {
	f.heads = append(f.heads, x.(head[T]))
}

func (f *frontier[T]) Pop() interface{} {
	n := len(f.heads)
	x := f.heads[n-1]
	f.heads = f.heads[:n-1]
	return x
}

// HasMore reports whether Next would return a record.  Since a Merger is
// itself a Source, merges may be nested.
func (m *Merger[T]) HasMore() (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.frontier.Len() > 0, nil
}

// Next returns the smallest record across all sources and advances the
// source it came from.  It fails with an EmptySequence error once every
// source is exhausted.
func (m *Merger[T]) Next() (T, error) {
	var zero T
	if m.err != nil {
		return zero, m.err
	}
	if err := m.ctx.Err(); err != nil {
		return zero, m.fail(err)
	}
	if m.frontier.Len() == 0 {
		return zero, extsort.E(extsort.EmptySequence, "merge exhausted")
	}
	top := m.frontier.heads[0]
	src := m.sources[top.src]
	ok, err := src.HasMore()
	if err != nil {
		return zero, m.fail(err)
	}
	if !ok {
		heap.Pop(m.frontier)
		// The record is still good; the close error surfaces on the
		// next call.
		if err := m.closeSource(top.src); err != nil {
			m.fail(err)
		}
		return top.rec, nil
	}
	rec, err := src.Next()
	if err != nil {
		return zero, m.fail(err)
	}
	m.frontier.heads[0].rec = rec
	heap.Fix(m.frontier, 0)
	return top.rec, nil
}

// Read implements extsort.Reader.
func (m *Merger[T]) Read() (*T, error) {
	if ok, err := m.HasMore(); !ok || err != nil {
		return nil, err
	}
	rec, err := m.Next()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *Merger[T]) fail(err error) error {
	m.err = err
	return err
}

// Close closes every source that is still open.
func (m *Merger[T]) Close() error {
	var err error
	for i := range m.sources {
		err = multierr.Append(err, m.closeSource(i))
	}
	m.frontier.heads = m.frontier.heads[:0]
	return err
}
