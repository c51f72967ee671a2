package spill

import (
	"github.com/brimdata/extsort"
	"github.com/brimdata/extsort/run"
)

// Config holds the resource limits of a MergeSort.  None of the limits has
// a default: BufferSize, FanIn and at least one of MemoryRecords and
// MemoryBytes must be set by the caller.
type Config struct {
	// BufferSize is the size in bytes of each run read or write buffer.
	// A merge pass holds FanIn read buffers and one write buffer.
	BufferSize int `yaml:"buffer_size" json:"buffer_size"`
	// MemoryRecords limits the number of records sorted in memory per run.
	MemoryRecords int `yaml:"memory_records" json:"memory_records"`
	// MemoryBytes limits the encoded size of the records sorted in memory
	// per run.
	MemoryBytes int `yaml:"memory_bytes" json:"memory_bytes"`
	// FanIn is the maximum number of runs merged in one pass.
	FanIn int `yaml:"fan_in" json:"fan_in"`
	// TempDir is the parent directory of the sort's run files.  If empty,
	// os.TempDir is used.
	TempDir string `yaml:"temp_dir" json:"temp_dir"`
}

func (c Config) Validate() error {
	if c.BufferSize <= 0 {
		return extsort.E(extsort.Invalid, "buffer size must be positive: %d", c.BufferSize)
	}
	if c.FanIn < 2 {
		return extsort.E(extsort.Invalid, "fan-in must be at least 2: %d", c.FanIn)
	}
	if c.MemoryRecords < 0 || c.MemoryBytes < 0 {
		return extsort.E(extsort.Invalid, "memory budget must not be negative")
	}
	if c.MemoryRecords == 0 && c.MemoryBytes == 0 {
		return extsort.E(extsort.Invalid, "memory budget requires a record or byte limit")
	}
	return nil
}

func (c Config) budget() run.Budget {
	return run.Budget{
		Records: c.MemoryRecords,
		Bytes:   c.MemoryBytes,
	}
}
