package extsort_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brimdata/extsort"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorReader struct {
	err error
}

func (e *errorReader) Read() (*int, error) {
	return nil, e.err
}

func TestConcatReader(t *testing.T) {
	r := extsort.ConcatReader(
		extsort.SliceReader([]int{1, 2}),
		extsort.SliceReader[int](nil),
		extsort.SliceReader([]int{3}),
	)
	recs, err := extsort.ReadAll(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, recs)
	rec, err := r.Read()
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestConcatReaderError(t *testing.T) {
	failure := errors.New("read error")
	r := extsort.ConcatReader[int](extsort.SliceReader([]int{1}), &errorReader{failure})
	_, err := extsort.ReadAll(context.Background(), r)
	assert.ErrorIs(t, err, failure)
}

func TestCopyWithContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := extsort.ReadAll(ctx, extsort.SliceReader([]int{1}))
	assert.ErrorIs(t, err, context.Canceled)
}
