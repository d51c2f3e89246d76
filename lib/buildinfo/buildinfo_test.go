package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplifyKernel(t *testing.T) {
	for _, test := range []struct {
		osVersion   string
		osKernel    string
		wantVersion string
		wantKernel  string
	}{
		{"ubuntu 22.04", "5.15.0-86-generic", "ubuntu 22.04", "5.15.0-86-generic"},
		{"Microsoft Windows 10 Pro 21H2 10.0.19044.1706 Build 1706", "10.0.19044.1706 Build 1706", "Microsoft Windows 10 Pro 21H2", "10.0.19044.1706"},
		{"10.0.19044", "10.0.19044", "10.0.19044", "10.0.19044"},
	} {
		gotVersion, gotKernel := simplifyKernel(test.osVersion, test.osKernel)
		assert.Equal(t, test.wantVersion, gotVersion, test.osVersion)
		assert.Equal(t, test.wantKernel, gotKernel, test.osKernel)
	}
}

func TestGetLinkingAndTags(t *testing.T) {
	oldTags := Tags
	defer func() { Tags = oldTags }()

	Tags = nil
	linking, tags := GetLinkingAndTags()
	assert.Equal(t, "static", linking)
	assert.Equal(t, "none", tags)

	Tags = []string{"noselfupdate", "cgo", "cmount"}
	linking, tags = GetLinkingAndTags()
	assert.Equal(t, "dynamic", linking)
	assert.Equal(t, "cmount noselfupdate", tags)
}

func TestGetOSVersion(t *testing.T) {
	// Only check it doesn't panic as the result depends on the host
	_, _ = GetOSVersion()
}
