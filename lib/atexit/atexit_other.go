//go:build windows || plan9 || js
// +build windows plan9 js

package atexit

import (
	"os"
)

var exitSignals = []os.Signal{os.Interrupt}

func exitCode(_ os.Signal) int {
	return 2
}
