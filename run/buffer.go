package run

import (
	"errors"
	"io"

	"github.com/brimdata/extsort"
)

// Buffer is a fixed-size byte array holding whole record encodings read
// from a run.  Load fills the free space of the array and Next decodes
// the records it holds, one at a time, in a single forward pass.
//
// Bytes at the end of the array that do not form a complete record are not
// lost: the next Load moves them to the front of the array before reading,
// so a record that straddles two loads is decoded whole after the second.
type Buffer[T any] struct {
	codec  extsort.Codec[T]
	buffer []byte
	cursor []byte
}

// ErrRecordTooLarge is returned when a full buffer cannot hold one record.
var ErrRecordTooLarge = errors.New("record larger than buffer")

func NewBuffer[T any](codec extsort.Codec[T], size int) *Buffer[T] {
	b := make([]byte, size)
	return &Buffer[T]{
		codec:  codec,
		buffer: b,
		cursor: b[:0],
	}
}

// Cap returns the capacity of the buffer in bytes.
func (b *Buffer[T]) Cap() int {
	return len(b.buffer)
}

// Remaining returns the number of loaded bytes not yet decoded.
func (b *Buffer[T]) Remaining() int {
	return len(b.cursor)
}

// Load carries any undecoded bytes to the front of the buffer and then reads
// from r until the buffer is full or r is exhausted.  It returns the number
// of bytes read, which is less than the free space only at end of input.
// End of input is not an error.
func (b *Buffer[T]) Load(r io.Reader) (int, error) {
	carry := copy(b.buffer, b.cursor)
	if carry == len(b.buffer) {
		return 0, ErrRecordTooLarge
	}
	n, err := io.ReadFull(r, b.buffer[carry:])
	b.cursor = b.buffer[:carry+n]
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	return n, err
}

// Next decodes the next record.  It returns false with a nil error when the
// remaining bytes do not hold a complete record.
func (b *Buffer[T]) Next() (T, bool, error) {
	var zero T
	if len(b.cursor) == 0 {
		return zero, false, nil
	}
	rec, n, err := b.codec.Decode(b.cursor)
	if err != nil {
		if errors.Is(err, extsort.ErrShortBuffer) {
			if len(b.cursor) == len(b.buffer) {
				return zero, false, ErrRecordTooLarge
			}
			return zero, false, nil
		}
		return zero, false, err
	}
	b.cursor = b.cursor[n:]
	return rec, true, nil
}
