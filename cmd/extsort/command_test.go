package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/brimdata/extsort/pkg/fs"
	"github.com/brimdata/extsort/run"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) error {
	f := flag.NewFlagSet("extsort", flag.ContinueOnError)
	c := New(f)
	require.NoError(t, f.Parse(args))
	return c.Run(f.Args())
}

func TestSortInts(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(in, []byte("5\n3\n8\n1\n9\n2\n7\n"), 0666))
	out := filepath.Join(dir, "out.txt")
	stats := filepath.Join(dir, "stats.json")
	err := runCommand(t, "-type", "int", "-sortrecs", "3", "-fanin", "2",
		"-tmpdir", dir, "-o", out, "-stats", stats, in)
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n5\n7\n8\n9\n", string(b))
	var snap run.Snapshot
	require.NoError(t, fs.UnmarshalJSONFile(stats, &snap))
	assert.Equal(t, int64(7), snap.Records)
	assert.Equal(t, int64(3), snap.Runs)
	assert.Equal(t, int64(2), snap.MergePasses)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestSortLinesReverse(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("pear\napple\n"), 0666))
	require.NoError(t, os.WriteFile(b, []byte("fig\nquince\n"), 0666))
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, runCommand(t, "-r", "-sortrecs", "2", "-tmpdir", dir, "-o", out, a, b))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "quince\npear\nfig\napple\n", string(got))
}

func TestBadNumber(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(in, []byte("1\nx\n"), 0666))
	out := filepath.Join(dir, "out.txt")
	err := runCommand(t, "-type", "float", "-tmpdir", dir, "-o", out, in)
	require.ErrorContains(t, err, "line 2")
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestMissingFile(t *testing.T) {
	err := runCommand(t, filepath.Join(t.TempDir(), "nope"))
	require.ErrorContains(t, err, "no such file")
}

func TestUnknownType(t *testing.T) {
	err := runCommand(t, "-type", "date", "-tmpdir", t.TempDir())
	require.ErrorContains(t, err, "unknown record type")
}
