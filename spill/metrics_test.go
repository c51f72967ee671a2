package spill

import (
	"context"
	"testing"

	"github.com/brimdata/extsort"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	conf := testConfig(t, 2, 2)
	ms, err := NewMergeSort[int64](conf, extsort.Int64Codec{}, extsort.Compare[int64], nil)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg, ms.Stats()))
	out, err := ms.Sort(context.Background(), extsort.SliceReader([]int64{4, 3, 2, 1, 0}))
	require.NoError(t, err)
	_, err = extsort.ReadAll[int64](context.Background(), out)
	require.NoError(t, err)
	require.NoError(t, out.Close())

	families, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, mf := range families {
		values[mf.GetName()] = mf.GetMetric()[0].GetCounter().GetValue()
	}
	stats := ms.Stats().Snapshot()
	assert.Equal(t, float64(5), values["extsort_records_total"])
	assert.Equal(t, float64(3), values["extsort_runs_total"])
	assert.Equal(t, float64(2), values["extsort_merge_passes_total"])
	assert.Equal(t, float64(stats.BufferReads), values["extsort_buffer_reads_total"])
	assert.Equal(t, float64(stats.BufferWrites), values["extsort_buffer_writes_total"])

	// A second registration of the same counters fails.
	assert.Error(t, RegisterMetrics(reg, ms.Stats()))
}
