package configfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFlags struct {
	addr      []string
	mimeTypes []string
	timeout   time.Duration
	noListing bool
	maxConns  int
	flagSet   *pflag.FlagSet
}

func newTestFlags() *testFlags {
	f := &testFlags{}
	f.flagSet = pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.flagSet.StringArrayVar(&f.addr, "addr", []string{":8080"}, "")
	f.flagSet.StringArrayVar(&f.mimeTypes, "mime-type", nil, "")
	f.flagSet.DurationVar(&f.timeout, "server-read-timeout", time.Hour, "")
	f.flagSet.BoolVar(&f.noListing, "no-listing", false, "")
	f.flagSet.IntVar(&f.maxConns, "max-connections", 0, "")
	return f
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "devserve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
addr:
  - ":9000"
  - "127.0.0.1:9001"
mime_type: [".wasm=application/wasm", ".mjs=application/javascript"]
server-read-timeout: 30s
no_listing: true
max-connections: 64
`)
	f := newTestFlags()
	require.NoError(t, Load(path, f.flagSet))
	assert.Equal(t, []string{":9000", "127.0.0.1:9001"}, f.addr)
	assert.Equal(t, []string{".wasm=application/wasm", ".mjs=application/javascript"}, f.mimeTypes)
	assert.Equal(t, 30*time.Second, f.timeout)
	assert.True(t, f.noListing)
	assert.Equal(t, 64, f.maxConns)
}

func TestLoadCommandLineWins(t *testing.T) {
	path := writeConfig(t, "max-connections: 64\nno-listing: true\n")
	f := newTestFlags()
	require.NoError(t, f.flagSet.Parse([]string{"--max-connections", "8"}))
	require.NoError(t, Load(path, f.flagSet))
	assert.Equal(t, 8, f.maxConns)
	assert.True(t, f.noListing)
}

func TestLoadEnvironmentWins(t *testing.T) {
	t.Setenv("DEVSERVE_MAX_CONNECTIONS", "2")
	path := writeConfig(t, "max-connections: 64\n")
	f := newTestFlags()
	require.NoError(t, Load(path, f.flagSet))
	assert.Equal(t, 0, f.maxConns)
}

func TestLoadErrors(t *testing.T) {
	f := newTestFlags()

	err := Load(filepath.Join(t.TempDir(), "missing.yaml"), f.flagSet)
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = Load(writeConfig(t, "potato: 1\n"), f.flagSet)
	assert.ErrorContains(t, err, `unknown option "potato"`)

	err = Load(writeConfig(t, "max-connections: lots\n"), f.flagSet)
	assert.ErrorContains(t, err, `invalid value "lots"`)

	err = Load(writeConfig(t, "addr: [\n"), f.flagSet)
	assert.ErrorContains(t, err, "failed to parse config file")
}
