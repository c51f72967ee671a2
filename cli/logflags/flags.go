// Package logflags holds the logging flags of the extsort command.
package logflags

import (
	"flag"
	"fmt"

	"github.com/brimdata/extsort/pkg/logger"
	"go.uber.org/zap"
)

type Flags struct {
	Config logger.Config
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.Config.Level = zap.WarnLevel
	fs.Var(&f.Config.Level, "log.level", "minimum level of logged entries (values: debug, info, warn, error)")
	fs.StringVar(&f.Config.Path, "log.path", "stderr", "log destination (values: stderr, stdout, /dev/null, path in file system)")
	f.Config.Mode = logger.FileModeTruncate
	fs.Var(&f.Config.Mode, "log.filemode", "how an existing log file is opened (values: append, truncate, rotate)")
	fs.BoolVar(&f.Config.DevMode, "log.devmode", false, "development mode (if enabled dpanic level logs will cause a panic)")
}

// Init rejects rotation of a standard stream.
func (f *Flags) Init() error {
	if f.Config.Mode != logger.FileModeRotate {
		return nil
	}
	switch f.Config.Path {
	case "stdout", "stderr", "/dev/null":
		return fmt.Errorf("log file mode %s requires a path in file system: %s", f.Config.Mode, f.Config.Path)
	}
	return nil
}

func (f *Flags) Open() (*zap.Logger, error) {
	return logger.New(f.Config)
}
