package run

import (
	"errors"
	"os"

	"github.com/brimdata/extsort"
)

type state int

const (
	priming state = iota
	streaming
	exhausted
)

// Reader streams the records of one run file through a Buffer, refilling
// the buffer from the file whenever its decoded records run out.  Refills
// happen lazily inside HasMore and each one counts as a buffer read.
type Reader[T any] struct {
	path     string
	file     *os.File
	buffer   *Buffer[T]
	stats    *Stats
	length   int64
	consumed int64
	state    state
	head     T
	pending  bool
	err      error
}

var _ extsort.ReadCloser[int] = (*Reader[int])(nil)

// Open opens the run file at path and primes a Reader with the first buffer
// load.  An empty run goes straight to the exhausted state.
func Open[T any](path string, codec extsort.Codec[T], bufSize int, stats *Stats) (*Reader[T], error) {
	if bufSize <= 0 {
		return nil, extsort.E(extsort.Invalid, "buffer size must be positive: %d", bufSize)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, storageError(path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, storageError(path, err)
	}
	r := &Reader[T]{
		path:   path,
		file:   f,
		buffer: NewBuffer(codec, bufSize),
		stats:  stats,
		length: info.Size(),
	}
	if err := r.refill(); err != nil {
		f.Close()
		return nil, err
	}
	r.state = streaming
	if r.length == 0 {
		r.state = exhausted
	}
	return r, nil
}

// Path returns the path of the run file.
func (r *Reader[T]) Path() string {
	return r.path
}

func (r *Reader[T]) refill() error {
	n, err := r.buffer.Load(r.file)
	r.stats.bufferRead()
	if err != nil {
		if errors.Is(err, ErrRecordTooLarge) {
			return extsort.E(extsort.Invalid, extsort.Path(r.path), "%w (%d bytes)", err, r.buffer.Cap())
		}
		return storageError(r.path, err)
	}
	r.consumed += int64(n)
	if r.state != priming && n == 0 && r.consumed < r.length {
		return extsort.E(extsort.Storage, extsort.Path(r.path), "run truncated at %d of %d bytes", r.consumed, r.length)
	}
	return nil
}

// HasMore reports whether Next would return a record.  It refills the
// buffer from the run file when the current buffer is drained but the file
// is not, so it may fail with an I/O error.
func (r *Reader[T]) HasMore() (bool, error) {
	for {
		if r.err != nil {
			return false, r.err
		}
		if r.pending {
			return true, nil
		}
		if r.state == exhausted {
			return false, nil
		}
		rec, ok, err := r.buffer.Next()
		if err != nil {
			return false, r.fail(err)
		}
		if ok {
			r.head = rec
			r.pending = true
			return true, nil
		}
		if r.consumed >= r.length {
			if r.buffer.Remaining() > 0 {
				return false, r.fail(extsort.E(extsort.Storage, extsort.Path(r.path), "%d trailing bytes do not form a record", r.buffer.Remaining()))
			}
			r.state = exhausted
			return false, nil
		}
		if err := r.refill(); err != nil {
			return false, r.fail(err)
		}
	}
}

func (r *Reader[T]) fail(err error) error {
	switch {
	case extsort.IsKind(err, extsort.Invalid), extsort.IsKind(err, extsort.Storage):
	case errors.Is(err, ErrRecordTooLarge):
		err = extsort.E(extsort.Invalid, extsort.Path(r.path), "%w (%d bytes)", err, r.buffer.Cap())
	default:
		err = extsort.E(extsort.Encoding, extsort.Path(r.path), err)
	}
	r.err = err
	r.state = exhausted
	return err
}

// Next returns the next record of the run.  It fails with an EmptySequence
// error once the run is exhausted.
func (r *Reader[T]) Next() (T, error) {
	var zero T
	ok, err := r.HasMore()
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, extsort.E(extsort.EmptySequence, extsort.Path(r.path), "read past end of run")
	}
	rec := r.head
	r.head = zero
	r.pending = false
	return rec, nil
}

// Read implements extsort.Reader.
func (r *Reader[T]) Read() (*T, error) {
	ok, err := r.HasMore()
	if !ok || err != nil {
		return nil, err
	}
	rec, err := r.Next()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close releases the run file.  It may be called more than once.  Reading
// a run that was closed before it was exhausted is an error.
func (r *Reader[T]) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if (r.state != exhausted || r.pending) && r.err == nil {
		r.err = extsort.E(extsort.Storage, extsort.Path(r.path), "run reader closed")
	}
	r.state = exhausted
	r.pending = false
	if err != nil {
		return storageError(r.path, err)
	}
	return nil
}

func storageError(path string, err error) error {
	return extsort.E(extsort.Storage, extsort.Path(path), err)
}
