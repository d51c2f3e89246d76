// Package mimeflags implements command line flags to set up the
// content type table
package mimeflags

import (
	"fmt"

	"github.com/moonfall/devserve/fs/config/flags"
	"github.com/moonfall/devserve/lib/mimetable"
	"github.com/spf13/pflag"
)

// Options for the content type table
type Options struct {
	MimeTypes []string // overrides in the form .ext=type
}

// Opt is the options set by the flags
var Opt Options

// AddFlags adds the content type flags to the flagSet
func AddFlags(flagSet *pflag.FlagSet) {
	flags.StringArrayVarP(flagSet, &Opt.MimeTypes, "mime-type", "", Opt.MimeTypes, "Set the content type for an extension as .ext=type (may be repeated)")
}

// Table builds the content type table from the default table and the
// overrides in opt. Later overrides for the same extension win.
func (opt *Options) Table() (*mimetable.Table, error) {
	extra := make(map[string]string, len(opt.MimeTypes))
	for _, s := range opt.MimeTypes {
		ext, mimeType, err := mimetable.ParseOverride(s)
		if err != nil {
			return nil, fmt.Errorf("bad --mime-type: %w", err)
		}
		extra[ext] = mimeType
	}
	return mimetable.Default().With(extra)
}
