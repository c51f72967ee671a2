package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/brimdata/extsort/cli"
)

const usage = `usage: extsort [ options ] [ file ... ]

extsort sorts the lines of the named files, or of standard input if no file
is named, using a bounded amount of memory.  Input that does not fit in the
memory budget is spilled to sorted run files in a temporary directory and
merged back, in several passes if there are more runs than the fan-in
allows.  The temporary directory is removed when the sort finishes.

Lines are compared as strings by default; -type int and -type float compare
them numerically instead.  Equal lines keep their input order.

Options:
`

func main() {
	fs := flag.NewFlagSet("extsort", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	c := New(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if err := c.Run(fs.Args()); err != nil {
		if errors.Is(err, cli.ErrExit) {
			return
		}
		fmt.Fprintf(os.Stderr, "extsort: %s\n", err)
		os.Exit(1)
	}
}
