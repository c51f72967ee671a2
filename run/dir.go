package run

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/brimdata/extsort"
	"github.com/segmentio/ksuid"
)

// Dir is the temporary directory holding the run files of one sort.  The
// directory is named with a KSUID so that concurrent sorts sharing a parent
// directory never collide, and it is created only when the first run path
// is requested.
type Dir struct {
	mu     sync.Mutex
	parent string
	id     ksuid.KSUID
	path   string
	seq    int
}

func NewDir(parent string) *Dir {
	if parent == "" {
		parent = os.TempDir()
	}
	return &Dir{
		parent: parent,
		id:     ksuid.New(),
	}
}

// ID returns the unique identifier of the directory.
func (d *Dir) ID() string {
	return d.id.String()
}

// Path returns the directory path, or the empty string if it has not been
// created.
func (d *Dir) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path
}

// NextPath returns a new run file path in the directory, creating the
// directory if needed.
func (d *Dir) NextPath() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.path == "" {
		path := filepath.Join(d.parent, "extsort-"+d.id.String())
		if err := os.Mkdir(path, 0700); err != nil {
			return "", extsort.E(extsort.Storage, extsort.Path(path), err)
		}
		d.path = path
	}
	d.seq++
	return filepath.Join(d.path, fmt.Sprintf("run-%06d", d.seq)), nil
}

// Remove deletes one run file.
func (d *Dir) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return extsort.E(extsort.Storage, extsort.Path(path), err)
	}
	return nil
}

// RemoveAll deletes the directory and every run file left in it.
func (d *Dir) RemoveAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.path == "" {
		return nil
	}
	path := d.path
	d.path = ""
	if err := os.RemoveAll(path); err != nil {
		return extsort.E(extsort.Storage, extsort.Path(path), err)
	}
	return nil
}
