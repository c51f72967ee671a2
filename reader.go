package extsort

import (
	"context"
	"io"

	"golang.org/x/exp/slices"
)

// Reader wraps the Read method.
//
// Read returns the next record and a nil error, a nil record and the next
// error, or a nil record and nil error to indicate that no records remain.
//
// Read never returns a non-nil record and non-nil error together, and it never
// returns io.EOF.
type Reader[T any] interface {
	Read() (*T, error)
}

type Writer[T any] interface {
	Write(T) error
}

type ReadCloser[T any] interface {
	Reader[T]
	io.Closer
}

// SliceReader returns a Reader over the records of s.
func SliceReader[T any](s []T) Reader[T] {
	return &sliceReader[T]{s}
}

type sliceReader[T any] struct {
	recs []T
}

func (s *sliceReader[T]) Read() (*T, error) {
	if len(s.recs) == 0 {
		return nil, nil
	}
	rec := s.recs[0]
	s.recs = s.recs[1:]
	return &rec, nil
}

// ConcatReader returns a Reader that is the logical concatenation of readers,
// which are read sequentially.  Its Read method returns any non-nil error
// returned by a reader and returns end of stream after all readers have
// returned end of stream.
func ConcatReader[T any](readers ...Reader[T]) Reader[T] {
	if len(readers) == 1 {
		return readers[0]
	}
	return &concatReader[T]{slices.Clone(readers)}
}

type concatReader[T any] struct {
	readers []Reader[T]
}

func (c *concatReader[T]) Read() (*T, error) {
	for len(c.readers) > 0 {
		rec, err := c.readers[0].Read()
		if rec != nil || err != nil {
			return rec, err
		}
		c.readers = c.readers[1:]
	}
	return nil, nil
}

// Copy copies src to dst a la io.Copy.
func Copy[T any](dst Writer[T], src Reader[T]) error {
	return CopyWithContext(context.Background(), dst, src)
}

func CopyWithContext[T any](ctx context.Context, dst Writer[T], src Reader[T]) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := src.Read()
		if err != nil || rec == nil {
			return err
		}
		if err := dst.Write(*rec); err != nil {
			return err
		}
	}
}

// ReadAll reads src until end of stream and returns its records.
func ReadAll[T any](ctx context.Context, src Reader[T]) ([]T, error) {
	var out []T
	err := CopyWithContext[T](ctx, (*sliceWriter[T])(&out), src)
	return out, err
}

type sliceWriter[T any] []T

func (s *sliceWriter[T]) Write(rec T) error {
	*s = append(*s, rec)
	return nil
}
