package version

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/coreos/go-semver/semver"
	"github.com/moonfall/devserve/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	for _, test := range []struct {
		in      string
		want    semver.Version
		wantErr bool
	}{
		{"v0.3.0", semver.Version{Major: 0, Minor: 3, Patch: 0}, false},
		{"0.3.1", semver.Version{Major: 0, Minor: 3, Patch: 1}, false},
		{"v1.2.3-DEV", semver.Version{Major: 1, Minor: 2, Patch: 3, PreRelease: "DEV"}, false},
		{" v1.2.3-beta.1\n", semver.Version{Major: 1, Minor: 2, Patch: 3, PreRelease: "beta.1"}, false},

		{"v1.2", semver.Version{}, true},
		{"devserve v1.2.3", semver.Version{}, true},
		{"v1.2.3c", semver.Version{}, true},
	} {
		what := fmt.Sprintf("in=%q", test.in)
		got, err := ParseVersion(test.in)
		if test.wantErr {
			assert.Error(t, err, what)
			continue
		}
		require.NoError(t, err, what)
		assert.Equal(t, test.want, *got, what)
	}
}

func TestVersionIsValid(t *testing.T) {
	_, err := ParseVersion(fs.Version)
	assert.NoError(t, err)
}

func TestCheckVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CheckVersion(&buf, "v0.3.0-DEV"))
	assert.Equal(t, "yours:  0.3.0-DEV    \nYour version is compiled from git so may not match a release.\n", buf.String())

	buf.Reset()
	require.NoError(t, CheckVersion(&buf, "v0.4.0"))
	assert.Equal(t, "yours:  0.4.0        \n", buf.String())

	buf.Reset()
	require.NoError(t, CheckVersion(&buf, "v0.4.0-rc.1"))
	assert.Contains(t, buf.String(), `the "rc.1" pre-release`)

	assert.Error(t, CheckVersion(&buf, "potato"))
}
