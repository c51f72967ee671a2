package logflags

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRotateStderr(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"-log.filemode", "rotate"}))
	assert.ErrorContains(t, f.Init(), "stderr")
}

func TestOpenFile(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	path := filepath.Join(t.TempDir(), "extsort.log")
	require.NoError(t, fs.Parse([]string{"-log.path", path, "-log.level", "debug"}))
	require.NoError(t, f.Init())
	assert.Equal(t, zap.DebugLevel, f.Config.Level)
	l, err := f.Open()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}
