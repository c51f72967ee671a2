// Package cli holds the flag groups shared by the extsort command.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Flags are the flags every command accepts.
type Flags struct {
	showVersion bool
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
}

// Initializer is implemented by flag groups needing validation after
// parsing.
type Initializer interface {
	Init() error
}

// Init initializes each flag group and returns a context that is canceled
// when the process receives SIGINT, SIGPIPE or SIGTERM.  It returns
// ErrExit after printing the version when -version is set.
func (f *Flags) Init(all ...Initializer) (context.Context, context.CancelFunc, error) {
	if f.showVersion {
		fmt.Printf("Version: %s\n", Version())
		return nil, nil, ErrExit
	}
	var err error
	for _, flags := range all {
		if initErr := flags.Init(); err == nil {
			err = initErr
		}
	}
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGPIPE, syscall.SIGTERM)
	return &interruptedContext{ctx}, cancel, nil
}

// ErrExit asks the caller to exit successfully without doing any work.
var ErrExit = errors.New("exit")

type interruptedContext struct{ context.Context }

func (i *interruptedContext) Err() error {
	err := i.Context.Err()
	if errors.Is(err, context.Canceled) {
		return errors.New("interrupted")
	}
	return err
}

// FileExists reports whether path names a regular file.  The path "-"
// stands for standard input and always exists.
func FileExists(path string) bool {
	if path == "-" {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
