package spill

import (
	"github.com/brimdata/extsort/run"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

// RegisterMetrics exposes the counters of stats to reg.
func RegisterMetrics(reg prometheus.Registerer, stats *run.Stats) error {
	counters := []struct {
		name  string
		help  string
		value func() int64
	}{
		{"buffer_reads_total", "Number of run buffers read from disk.", stats.BufferReads.Load},
		{"buffer_writes_total", "Number of run buffers written to disk.", stats.BufferWrites.Load},
		{"runs_total", "Number of sorted runs generated.", stats.Runs.Load},
		{"merge_passes_total", "Number of merge passes performed.", stats.MergePasses.Load},
		{"records_total", "Number of input records consumed.", stats.Records.Load},
	}
	var err error
	for _, c := range counters {
		value := c.value
		counter := prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "extsort",
			Name:      c.name,
			Help:      c.help,
		}, func() float64 { return float64(value()) })
		err = multierr.Append(err, reg.Register(counter))
	}
	return err
}
