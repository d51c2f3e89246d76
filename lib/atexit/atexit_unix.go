//go:build !windows && !plan9 && !js
// +build !windows,!plan9,!js

package atexit

import (
	"os"

	"golang.org/x/sys/unix"
)

var exitSignals = []os.Signal{unix.SIGINT, unix.SIGTERM} // Not syscall.SIGQUIT as we want the default behaviour

// exitCode calculates the exit code for the given signal. Many Unix programs
// exit with 128+signum if they handle signals. Most shell also follow this
// convention, so that SIGINT is reported as 130 etc.
func exitCode(sig os.Signal) int {
	if real, ok := sig.(unix.Signal); ok {
		return int(real) + 128
	}
	return 1
}
