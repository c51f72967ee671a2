// Package extsort sorts sequences of records that do not fit in memory.
//
// The root package defines the record contract shared by the sort engine:
// a Codec serializes records into run files, a CompareFunc orders them, and
// a Reader streams them.  The run, merge and spill packages build the
// external merge sort on top of these.
package extsort

import (
	"errors"
)

var (
	// ErrShortBuffer is returned by Codec.Decode when its input holds only
	// a prefix of an encoded record.  It is a signal to fetch more bytes,
	// not a data error.
	ErrShortBuffer = errors.New("insufficient bytes for record")
	// ErrMalformed is returned by Codec.Decode when its input cannot be
	// the encoding of any record.
	ErrMalformed = errors.New("malformed record")
)

// A Codec serializes records of type T.  Decode must invert Append, and
// encodings must be self-delimiting so that a run file is nothing more than
// the concatenation of its records' encodings.
type Codec[T any] interface {
	// Append appends the encoding of rec to dst and returns the extended
	// buffer.
	Append(dst []byte, rec T) ([]byte, error)
	// Decode decodes the record at the front of b and returns it with the
	// number of bytes it occupied.  It returns an error wrapping
	// ErrShortBuffer if b ends before the record does and one wrapping
	// ErrMalformed if b is not a valid encoding.  The record must not
	// alias b.
	Decode(b []byte) (T, int, error)
}

// FixedSizer is implemented by codecs whose encodings all have the same
// length.
type FixedSizer interface {
	FixedSize() int
}

// Sizer is implemented by codecs that can report the encoded size of a
// record without encoding it.
type Sizer[T any] interface {
	Size(rec T) int
}

// EncodedSize returns the number of bytes codec uses to encode rec.
func EncodedSize[T any](codec Codec[T], rec T, scratch []byte) (int, []byte, error) {
	if f, ok := codec.(FixedSizer); ok {
		return f.FixedSize(), scratch, nil
	}
	if s, ok := codec.(Sizer[T]); ok {
		return s.Size(rec), scratch, nil
	}
	b, err := codec.Append(scratch[:0], rec)
	if err != nil {
		return 0, scratch, err
	}
	return len(b), b, nil
}

// MinSize returns the smallest buffer size able to hold a record encoded by
// codec, or zero if the size is only known per record.
func MinSize[T any](codec Codec[T]) int {
	if f, ok := codec.(FixedSizer); ok {
		return f.FixedSize()
	}
	return 0
}
