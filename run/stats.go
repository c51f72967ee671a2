package run

import (
	"go.uber.org/atomic"
)

// Stats counts the I/O performed by the readers, writers and generators
// that share it.  A Stats is owned by the sort that creates it and may be
// read concurrently, e.g., by a metrics scrape.
type Stats struct {
	BufferReads  atomic.Int64
	BufferWrites atomic.Int64
	Runs         atomic.Int64
	MergePasses  atomic.Int64
	Records      atomic.Int64
}

// Snapshot is a point-in-time copy of a Stats.
type Snapshot struct {
	BufferReads  int64 `json:"buffer_reads"`
	BufferWrites int64 `json:"buffer_writes"`
	Runs         int64 `json:"runs"`
	MergePasses  int64 `json:"merge_passes"`
	Records      int64 `json:"records"`
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		BufferReads:  s.BufferReads.Load(),
		BufferWrites: s.BufferWrites.Load(),
		Runs:         s.Runs.Load(),
		MergePasses:  s.MergePasses.Load(),
		Records:      s.Records.Load(),
	}
}

func (s *Stats) bufferRead() {
	if s != nil {
		s.BufferReads.Inc()
	}
}

func (s *Stats) bufferWrite() {
	if s != nil {
		s.BufferWrites.Inc()
	}
}

func (s *Stats) run() {
	if s != nil {
		s.Runs.Inc()
	}
}
