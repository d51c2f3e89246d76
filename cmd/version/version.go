// Package version provides the version command.
package version

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coreos/go-semver/semver"
	"github.com/moonfall/devserve/cmd"
	"github.com/moonfall/devserve/fs"
	"github.com/moonfall/devserve/fs/config/flags"
	"github.com/spf13/cobra"
)

var (
	check = false
)

func init() {
	cmd.Root.AddCommand(commandDefinition)
	cmdFlags := commandDefinition.Flags()
	flags.BoolVarP(cmdFlags, &check, "check", "", false, "Check the version number is valid and say if it is a development build")
}

var commandDefinition = &cobra.Command{
	Use:   "version",
	Short: `Show the version number.`,
	Long: `Show the devserve version number, the go version, the build target
OS and architecture, the runtime OS and kernel version and bitness,
build tags and the type of executable (static or dynamic).

For example:

    $ devserve version
    devserve v0.3.0
    - os/version: ubuntu 22.04 (64 bit)
    - os/kernel: 5.15.0-56-generic (x86_64)
    - os/type: linux
    - os/arch: amd64
    - go/version: go1.22.0
    - go/linking: static
    - go/tags: none

If you supply the --check flag, then it will parse the version and
show whether this is a release or a development build.

    $ devserve version --check
    yours:  0.3.0-DEV
    Your version is compiled from git so may not match a release.
`,
	Annotations: map[string]string{
		"versionIntroduced": "v0.1.0",
	},
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(0, 0, command, args)
		if check {
			cmd.Run(command, func() error {
				return CheckVersion(os.Stdout, fs.Version)
			})
			return
		}
		cmd.ShowVersion()
	},
}

// strip a leading v off the string
func stripV(s string) string {
	if len(s) > 0 && s[0] == 'v' {
		return s[1:]
	}
	return s
}

// ParseVersion parses a devserve version string such as "v0.3.0" or
// "v0.3.0-DEV"
func ParseVersion(vs string) (*semver.Version, error) {
	v, err := semver.NewVersion(stripV(strings.TrimSpace(vs)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse version %q: %w", vs, err)
	}
	return v, nil
}

// CheckVersion writes the parsed version vs to out and says whether it
// is a development build
func CheckVersion(out io.Writer, vs string) error {
	v, err := ParseVersion(vs)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "yours:  %-13s\n", v)
	if v.PreRelease == "DEV" {
		_, _ = fmt.Fprintln(out, "Your version is compiled from git so may not match a release.")
	} else if v.PreRelease != "" {
		_, _ = fmt.Fprintf(out, "Your version is the %q pre-release.\n", v.PreRelease)
	}
	return nil
}
