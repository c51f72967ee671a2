package sortflags

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/units"
	"github.com/brimdata/extsort/spill"
	"github.com/pbnjay/memory"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBufferSize = 64 * 1024
	DefaultFanIn      = 16
	// fallbackMemory is the memory budget used when physical memory
	// cannot be determined.
	fallbackMemory = 128 * 1024 * 1024
)

// DefaultMemoryBytes returns the documented default per-run memory budget:
// one sixteenth of physical memory, or 128MiB if that is unknown.
func DefaultMemoryBytes() int {
	if total := memory.TotalMemory(); total > 0 {
		return int(total / 16)
	}
	return fallbackMemory
}

type Flags struct {
	Config spill.Config

	bufSize    byteSize
	memBytes   byteSize
	configPath string
	fs         *flag.FlagSet
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.fs = fs
	f.bufSize = DefaultBufferSize
	fs.Var(&f.bufSize, "bufsize", "size of each run read/write buffer in KiB, MiB, etc")
	f.memBytes = byteSize(DefaultMemoryBytes())
	fs.Var(&f.memBytes, "sortmem", "memory budget per sorted run in MiB, GiB, etc (default is 1/16 of physical memory)")
	fs.IntVar(&f.Config.MemoryRecords, "sortrecs", 0, "maximum records per sorted run (0 means no record limit)")
	fs.IntVar(&f.Config.FanIn, "fanin", DefaultFanIn, "maximum number of runs merged in one pass")
	fs.StringVar(&f.Config.TempDir, "tmpdir", "", "directory for temporary run files (default is the system temporary directory)")
	fs.StringVar(&f.configPath, "config", "", "YAML file of sort settings (flags given on the command line take precedence)")
}

func (f *Flags) Init() error {
	f.Config.BufferSize = int(f.bufSize)
	f.Config.MemoryBytes = int(f.memBytes)
	if f.configPath != "" {
		conf, err := f.load(f.configPath)
		if err != nil {
			return err
		}
		f.Config = conf
	}
	if err := f.Config.Validate(); err != nil {
		return fmt.Errorf("sort settings: %w", err)
	}
	return nil
}

// load reads the YAML file at path over the flag defaults and then
// reapplies every flag set explicitly on the command line.
func (f *Flags) load(path string) (spill.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return spill.Config{}, err
	}
	conf := f.Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return spill.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if f.fs != nil {
		f.fs.Visit(func(fl *flag.Flag) {
			switch fl.Name {
			case "bufsize":
				conf.BufferSize = f.Config.BufferSize
			case "sortmem":
				conf.MemoryBytes = f.Config.MemoryBytes
			case "sortrecs":
				conf.MemoryRecords = f.Config.MemoryRecords
			case "fanin":
				conf.FanIn = f.Config.FanIn
			case "tmpdir":
				conf.TempDir = f.Config.TempDir
			}
		})
	}
	return conf, nil
}

// byteSize is a flag.Value accepting sizes such as "64KiB" or "1GB" (both
// base 2).
type byteSize int

func (b *byteSize) Set(s string) error {
	v, err := units.ParseBase2Bytes(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative size: %s", s)
	}
	*b = byteSize(v)
	return nil
}

func (b byteSize) String() string {
	return units.Base2Bytes(b).String()
}
