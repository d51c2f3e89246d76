//go:build !windows && !plan9
// +build !windows,!plan9

package http

import (
	"net"

	"github.com/coreos/go-systemd/v22/activation"
)

// getInheritedListeners returns the listeners passed by the service
// manager keyed by their FileDescriptorName
func getInheritedListeners() (map[string][]net.Listener, error) {
	return activation.ListenersWithNames()
}
