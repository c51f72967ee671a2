// Package fs holds file helpers for writing sort output in place.
package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

var errAborted = errors.New("replace aborted")

// Replacer is an io.WriteCloser that writes to a temporary file next to
// its target and renames it over the target on Close, so readers of the
// target never observe a partially written file.  Either Close or Abort
// must be called; Abort leaves the target untouched.
type Replacer struct {
	f      *os.File
	err    error
	target string
	perm   os.FileMode
	done   bool
}

func NewFileReplacer(target string, perm os.FileMode) (*Replacer, error) {
	target, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(target), ".tmp-"+filepath.Base(target))
	if err != nil {
		return nil, err
	}
	return &Replacer{
		f:      f,
		target: target,
		perm:   perm,
	}, nil
}

// Target returns the absolute path of the file being replaced.
func (r *Replacer) Target() string {
	return r.target
}

func (r *Replacer) Write(b []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.f.Write(b)
	if err != nil {
		r.err = err
	}
	return n, err
}

// Abort discards everything written so far.
func (r *Replacer) Abort() {
	if r.err == nil {
		r.err = errAborted
	}
	_ = r.finish()
}

// Close renames the temporary file over the target unless a write failed,
// in which case the temporary file is removed and the write error returned.
func (r *Replacer) Close() error {
	return r.finish()
}

func (r *Replacer) finish() error {
	if r.done {
		return r.err
	}
	r.done = true
	err := multierr.Combine(r.f.Close(), os.Chmod(r.f.Name(), r.perm))
	if err == nil && r.err == nil {
		err = os.Rename(r.f.Name(), r.target)
	}
	if err != nil || r.err != nil {
		os.Remove(r.f.Name())
	}
	if err == nil && r.err != errAborted {
		err = r.err
	}
	return err
}

// ReplaceFile atomically replaces the file name with the output of fn.
func ReplaceFile(name string, perm os.FileMode, fn func(w io.Writer) error) error {
	r, err := NewFileReplacer(name, perm)
	if err != nil {
		return err
	}
	if err := fn(r); err != nil {
		r.Abort()
		return err
	}
	return r.Close()
}
