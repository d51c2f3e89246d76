package flags

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueFromEnv(t *testing.T) {
	t.Setenv("DEVSERVE_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("DEVSERVE_ADDR", ":9090")
	t.Setenv("DEVSERVE_NO_LISTING", "true")

	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var (
		timeout   time.Duration
		addr      []string
		noListing bool
		maxConns  int
	)
	DurationVarP(flagSet, &timeout, "server-read-timeout", "", time.Hour, "Timeout")
	StringArrayVarP(flagSet, &addr, "addr", "", []string{":8080"}, "Address")
	BoolVarP(flagSet, &noListing, "no-listing", "", false, "No listing")
	IntVarP(flagSet, &maxConns, "max-connections", "", 0, "Max connections")

	assert.Equal(t, 5*time.Second, timeout)
	assert.Equal(t, []string{":9090"}, addr)
	assert.True(t, noListing)
	assert.Equal(t, 0, maxConns)

	// Environment sets the default not the command line
	assert.False(t, flagSet.Lookup("addr").Changed)
	assert.Equal(t, "5s", flagSet.Lookup("server-read-timeout").DefValue)

	// Command line overrides the environment
	require.NoError(t, flagSet.Parse([]string{"--server-read-timeout", "10s"}))
	assert.Equal(t, 10*time.Second, timeout)
}
