// Package metrics exports request metrics of the file server in
// Prometheus format on a separate HTTP server.
package metrics

import (
	libhttp "github.com/moonfall/devserve/lib/http"
	"github.com/spf13/pflag"
)

// Options holds the configuration for the metrics server
type Options struct {
	HTTP libhttp.Config
}

// DefaultOpt is the default values for Options. The metrics server
// is off until an address is given.
func DefaultOpt() Options {
	cfg := libhttp.DefaultCfg()
	cfg.ListenAddr = nil
	return Options{
		HTTP: cfg,
	}
}

// Opt is the options set by the flags
var Opt = DefaultOpt()

// AddFlags adds the metrics server flags to the flagSet
func AddFlags(flagSet *pflag.FlagSet) {
	Opt.HTTP.AddFlagsPrefix(flagSet, "metrics-")
}

// Enabled returns whether the metrics server is enabled
func (opt *Options) Enabled() bool {
	return len(opt.HTTP.ListenAddr) > 0
}
