package run

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/brimdata/extsort"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRun[T any](t *testing.T, path string, codec extsort.Codec[T], bufSize int, stats *Stats, recs []T) Run {
	t.Helper()
	w, err := Create(path, codec, bufSize, stats)
	require.NoError(t, err)
	for _, rec := range recs {
		require.NoError(t, w.Write(rec))
	}
	r, err := w.Close()
	require.NoError(t, err)
	return r
}

func readRun[T any](t *testing.T, path string, codec extsort.Codec[T], bufSize int, stats *Stats) []T {
	t.Helper()
	r, err := Open(path, codec, bufSize, stats)
	require.NoError(t, err)
	defer r.Close()
	var out []T
	for {
		ok, err := r.HasMore()
		require.NoError(t, err)
		if !ok {
			break
		}
		rec, err := r.Next()
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func TestRunRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run")
	recs := []string{"kiwi", "", "banana", "apple", "a much longer record than the others"}
	var stats Stats
	r := writeRun[string](t, path, extsort.StringCodec{}, 48, &stats, recs)
	assert.Equal(t, int64(len(recs)), r.Records)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), r.Size)
	assert.Equal(t, recs, readRun[string](t, path, extsort.StringCodec{}, 48, &stats))
	// A smaller read buffer splits records across loads.
	assert.Equal(t, recs, readRun[string](t, path, extsort.StringCodec{}, 40, nil))
}

func TestExactBufferBoundary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run")
	var stats Stats
	recs := []int64{4, 3, 2, 1}
	r := writeRun[int64](t, path, extsort.Int64Codec{}, 16, &stats, recs)
	assert.Equal(t, int64(32), r.Size)
	assert.Equal(t, int64(2), stats.BufferWrites.Load())
	assert.Equal(t, recs, readRun[int64](t, path, extsort.Int64Codec{}, 16, &stats))
	// The file length ends the run without a third load.
	assert.Equal(t, int64(2), stats.BufferReads.Load())
}

func TestEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run")
	writeRun[int64](t, path, extsort.Int64Codec{}, 16, nil, nil)
	r, err := Open[int64](path, extsort.Int64Codec{}, 16, nil)
	require.NoError(t, err)
	ok, err := r.HasMore()
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = r.Next()
	assert.True(t, extsort.IsKind(err, extsort.EmptySequence))
	rec, err := r.Read()
	assert.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}

func TestTruncatedRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run")
	writeRun[int64](t, path, extsort.Int64Codec{}, 16, nil, []int64{1, 2, 3})
	require.NoError(t, os.Truncate(path, 20))
	r, err := Open[int64](path, extsort.Int64Codec{}, 16, nil)
	require.NoError(t, err)
	defer r.Close()
	_, err = extsort.ReadAll[int64](context.Background(), r)
	require.Error(t, err)
	assert.True(t, extsort.IsKind(err, extsort.Storage))
	assert.Equal(t, path, extsort.ErrorPath(err))
}

func TestMissingRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	_, err := Open[int64](path, extsort.Int64Codec{}, 16, nil)
	assert.True(t, extsort.IsKind(err, extsort.Storage))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteRecordTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run")
	w, err := Create[string](path, extsort.StringCodec{}, 4, nil)
	require.NoError(t, err)
	require.NoError(t, w.Write("ab"))
	err = w.Write("abcd")
	assert.ErrorIs(t, err, ErrRecordTooLarge)
	assert.True(t, extsort.IsKind(err, extsort.Invalid))
	w.Abort()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestBufferSmallerThanFixedRecord(t *testing.T) {
	_, err := Create[int64](filepath.Join(t.TempDir(), "run"), extsort.Int64Codec{}, 4, nil)
	assert.True(t, extsort.IsKind(err, extsort.Invalid))
}

func TestReadAfterEarlyClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run")
	writeRun[int64](t, path, extsort.Int64Codec{}, 16, nil, []int64{1, 2, 3})
	r, err := Open[int64](path, extsort.Int64Codec{}, 16, nil)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	_, err = r.Next()
	assert.True(t, extsort.IsKind(err, extsort.Storage))
}

func TestDir(t *testing.T) {
	parent := t.TempDir()
	d := NewDir(parent)
	assert.Empty(t, d.Path())
	assert.NoError(t, d.RemoveAll())
	p1, err := d.NextPath()
	require.NoError(t, err)
	p2, err := d.NextPath()
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, filepath.Join(parent, "extsort-"+d.ID()), d.Path())
	require.NoError(t, os.WriteFile(p1, nil, 0600))
	require.NoError(t, d.Remove(p1))
	require.NoError(t, d.Remove(p1))
	require.NoError(t, os.WriteFile(p2, nil, 0600))
	require.NoError(t, d.RemoveAll())
	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
