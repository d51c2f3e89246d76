package configflags

import (
	"testing"

	"github.com/moonfall/devserve/fs"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*fs.ConfigInfo, error) {
	verbose, quiet = 0, false
	ci := fs.NewConfig()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(ci, flagSet)
	require.NoError(t, flagSet.Parse(args))
	return ci, SetFlags(ci, flagSet)
}

func TestSetFlags(t *testing.T) {
	for _, test := range []struct {
		args    []string
		want    fs.LogLevel
		wantErr string
	}{
		{nil, fs.LogLevelNotice, ""},
		{[]string{"-v"}, fs.LogLevelInfo, ""},
		{[]string{"-vv"}, fs.LogLevelDebug, ""},
		{[]string{"-q"}, fs.LogLevelError, ""},
		{[]string{"--log-level", "DEBUG"}, fs.LogLevelDebug, ""},
		{[]string{"-v", "-q"}, 0, "can't set -v and -q"},
		{[]string{"-v", "--log-level", "ERROR"}, 0, "can't set -v and --log-level"},
		{[]string{"-q", "--log-level", "ERROR"}, 0, "can't set -q and --log-level"},
	} {
		ci, err := parse(t, test.args...)
		if test.wantErr != "" {
			assert.EqualError(t, err, test.wantErr, test.args)
			continue
		}
		require.NoError(t, err, test.args)
		assert.Equal(t, test.want, ci.LogLevel, test.args)
	}
}

func TestUseJSONLog(t *testing.T) {
	ci, err := parse(t, "--use-json-log")
	require.NoError(t, err)
	assert.True(t, ci.UseJSONLog)
}
