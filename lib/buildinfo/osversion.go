// Package buildinfo reports how the binary was built and what it is
// running on.
package buildinfo

import (
	"regexp"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

var kernelBuild = regexp.MustCompile(`^([\d\.]+?\.)(\d+) Build (\d+)$`)

// GetOSVersion returns OS version, kernel and bitness
func GetOSVersion() (osVersion, osKernel string) {
	if platform, _, version, err := host.PlatformInformation(); err == nil && platform != "" {
		osVersion = platform
		if version != "" {
			osVersion += " " + version
		}
	}
	if version, err := host.KernelVersion(); err == nil && version != "" {
		osVersion, osKernel = simplifyKernel(osVersion, version)
	}
	if arch, err := host.KernelArch(); err == nil && arch != "" {
		if strings.HasSuffix(arch, "64") && osVersion != "" {
			osVersion += " (64 bit)"
		}
		if osKernel != "" {
			osKernel += " (" + arch + ")"
		}
	}
	return
}

// simplifyKernel removes the kernel version from osVersion if it is
// repeated there and shortens `RELEASE.BUILD Build BUILD` to
// `RELEASE.BUILD`
func simplifyKernel(osVersion, osKernel string) (string, string) {
	if strings.Contains(osVersion, osKernel) {
		deduped := strings.TrimSpace(strings.Replace(osVersion, osKernel, "", 1))
		if deduped != "" {
			osVersion = deduped
		}
	}
	match := kernelBuild.FindStringSubmatch(osKernel)
	if len(match) == 4 && match[2] == match[3] {
		osKernel = match[1] + match[2]
	}
	return osVersion, osKernel
}
