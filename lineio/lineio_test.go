package lineio

import (
	"context"
	"strings"
	"testing"

	"github.com/brimdata/extsort"
	"github.com/stretchr/testify/require"
)

func TestReadInts(t *testing.T) {
	r := NewReader(strings.NewReader("5\n-3\n8\n"), "stdin", ParseInt)
	recs, err := extsort.ReadAll[int64](context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, []int64{5, -3, 8}, recs)
}

func TestReadBadLine(t *testing.T) {
	r := NewReader(strings.NewReader("1\ntwo\n"), "nums.txt", ParseInt)
	_, err := extsort.ReadAll[int64](context.Background(), r)
	require.ErrorContains(t, err, "nums.txt: line 2")
}

func TestWriteLines(t *testing.T) {
	var b strings.Builder
	w := NewWriter(&b, FormatFloat)
	require.NoError(t, extsort.Copy[float64](w, extsort.SliceReader([]float64{1.5, -2, 3e10})))
	require.NoError(t, w.Flush())
	require.Equal(t, "1.5\n-2\n3e+10\n", b.String())
}

func TestReadStrings(t *testing.T) {
	r := NewReader(strings.NewReader("b\n\na"), "stdin", ParseString)
	recs, err := extsort.ReadAll[string](context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "", "a"}, recs)
}
