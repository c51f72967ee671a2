package run

import (
	"io"
	"os"

	"github.com/brimdata/extsort"
)

// Run describes a run file once its Writer has been closed.
type Run struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Records int64  `json:"records"`
}

// Writer accumulates record encodings in a fixed-size buffer and writes the
// buffer to the run file whenever the next record would not fit.  A record
// is never split across two flushes, and a record whose encoding is larger
// than the buffer is rejected.
type Writer[T any] struct {
	path    string
	w       io.Writer
	file    *os.File
	codec   extsort.Codec[T]
	buffer  []byte
	scratch []byte
	stats   *Stats
	run     Run
	closed  bool
}

var _ extsort.Writer[int] = (*Writer[int])(nil)

// Create creates the run file at path and returns a Writer for it.
func Create[T any](path string, codec extsort.Codec[T], bufSize int, stats *Stats) (*Writer[T], error) {
	if err := checkBufferSize(codec, bufSize); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, storageError(path, err)
	}
	w := NewWriter(f, path, codec, bufSize, stats)
	w.file = f
	return w, nil
}

// NewWriter returns a Writer that writes the run named path to w.  Closing
// the Writer closes w if it is an io.Closer.
func NewWriter[T any](w io.Writer, path string, codec extsort.Codec[T], bufSize int, stats *Stats) *Writer[T] {
	return &Writer[T]{
		path:   path,
		w:      w,
		codec:  codec,
		buffer: make([]byte, 0, bufSize),
		stats:  stats,
		run:    Run{Path: path},
	}
}

func checkBufferSize[T any](codec extsort.Codec[T], bufSize int) error {
	if bufSize <= 0 {
		return extsort.E(extsort.Invalid, "buffer size must be positive: %d", bufSize)
	}
	if min := extsort.MinSize(codec); bufSize < min {
		return extsort.E(extsort.Invalid, "buffer size %d is smaller than a %d-byte record", bufSize, min)
	}
	return nil
}

func (w *Writer[T]) Write(rec T) error {
	if w.closed {
		return extsort.E(extsort.Storage, extsort.Path(w.path), "write to closed run")
	}
	var err error
	w.scratch, err = w.codec.Append(w.scratch[:0], rec)
	if err != nil {
		return extsort.E(extsort.Encoding, extsort.Path(w.path), err)
	}
	if len(w.scratch) > cap(w.buffer) {
		return extsort.E(extsort.Invalid, extsort.Path(w.path), "%w: %d-byte record, %d-byte buffer", ErrRecordTooLarge, len(w.scratch), cap(w.buffer))
	}
	if len(w.buffer)+len(w.scratch) > cap(w.buffer) {
		if err := w.flush(); err != nil {
			return err
		}
	}
	w.buffer = append(w.buffer, w.scratch...)
	w.run.Records++
	return nil
}

func (w *Writer[T]) flush() error {
	if len(w.buffer) == 0 {
		return nil
	}
	n, err := w.w.Write(w.buffer)
	w.run.Size += int64(n)
	w.stats.bufferWrite()
	w.buffer = w.buffer[:0]
	if err != nil {
		return storageError(w.path, err)
	}
	return nil
}

// Close flushes any partially filled buffer, closes the run file and returns
// the finished Run.
func (w *Writer[T]) Close() (Run, error) {
	if w.closed {
		return w.run, nil
	}
	w.closed = true
	err := w.flush()
	if closer, ok := w.w.(io.Closer); ok {
		if closeErr := closer.Close(); err == nil && closeErr != nil {
			err = storageError(w.path, closeErr)
		}
	}
	if err != nil {
		return Run{}, err
	}
	return w.run, nil
}

// Abort closes the run file and removes it.  If the underlying writer has
// its own Abort method, that is called instead of Close.
func (w *Writer[T]) Abort() {
	w.closed = true
	switch c := w.w.(type) {
	case interface{ Abort() }:
		c.Abort()
	case io.Closer:
		c.Close()
	}
	if w.file != nil {
		os.Remove(w.path)
	}
}

// Path returns the path of the run file.
func (w *Writer[T]) Path() string {
	return w.path
}
