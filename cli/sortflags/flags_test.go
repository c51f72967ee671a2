package sortflags

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/brimdata/extsort"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*Flags, error) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return &f, f.Init()
}

func TestDefaults(t *testing.T) {
	f, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, DefaultBufferSize, f.Config.BufferSize)
	assert.Equal(t, DefaultFanIn, f.Config.FanIn)
	assert.Equal(t, DefaultMemoryBytes(), f.Config.MemoryBytes)
	assert.Zero(t, f.Config.MemoryRecords)
}

func TestByteSizes(t *testing.T) {
	f, err := parse(t, "-bufsize", "4KiB", "-sortmem", "2MB", "-sortrecs", "1000")
	require.NoError(t, err)
	assert.Equal(t, 4096, f.Config.BufferSize)
	assert.Equal(t, 2*1024*1024, f.Config.MemoryBytes)
	assert.Equal(t, 1000, f.Config.MemoryRecords)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sort.yaml")
	conf := "buffer_size: 1024\nmemory_records: 50\nfan_in: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(conf), 0666))
	f, err := parse(t, "-config", path, "-fanin", "8")
	require.NoError(t, err)
	assert.Equal(t, 1024, f.Config.BufferSize)
	assert.Equal(t, 50, f.Config.MemoryRecords)
	// Flags given on the command line override the file.
	assert.Equal(t, 8, f.Config.FanIn)
	assert.Equal(t, DefaultMemoryBytes(), f.Config.MemoryBytes)
}

func TestConfigFileUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sort.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fanin: 4\n"), 0666))
	_, err := parse(t, "-config", path)
	assert.ErrorContains(t, err, "fanin")
}

func TestInvalidFanIn(t *testing.T) {
	_, err := parse(t, "-fanin", "1")
	assert.True(t, extsort.IsKind(err, extsort.Invalid))
}

func TestBadByteSize(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f.SetFlags(fs)
	assert.Error(t, fs.Parse([]string{"-bufsize", "lots"}))
}
