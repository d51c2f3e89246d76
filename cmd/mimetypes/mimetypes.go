// Package mimetypes provides the mimetypes command.
package mimetypes

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/moonfall/devserve/cmd"
	"github.com/moonfall/devserve/lib/mimetable"
	"github.com/moonfall/devserve/lib/mimetable/mimeflags"
	"github.com/spf13/cobra"
)

// CommonExtensions are shown as well as the overrides if no
// extensions are given
var CommonExtensions = []string{
	".css", ".gif", ".htm", ".html", ".jpg", ".js", ".json",
	".mjs", ".png", ".svg", ".txt", ".wasm", ".webp", ".xml",
}

func init() {
	cmd.Root.AddCommand(commandDefinition)
	mimeflags.AddFlags(commandDefinition.Flags())
}

var commandDefinition = &cobra.Command{
	Use:   "mimetypes [ext...]",
	Short: `Show the content types which would be served.`,
	Long: `
devserve mimetypes shows the content type served for each extension
given, taking the --mime-type overrides into account.  With no
extensions it shows the overrides and some common web extensions.

The leading "." may be left off the extensions.  Extensions with no
known type are shown with an empty type, devserve sniffs the content
of those files when serving them.

    $ devserve mimetypes js .css wasm
    .js	application/javascript
    .css	text/css; charset=utf-8
    .wasm	application/wasm
`,
	Annotations: map[string]string{
		"versionIntroduced": "v0.2.0",
	},
	Run: func(command *cobra.Command, args []string) {
		cmd.Run(command, func() error {
			types, err := mimeflags.Opt.Table()
			if err != nil {
				return err
			}
			return List(os.Stdout, types, args)
		})
	},
}

// List writes each extension and its content type to out separated
// by a tab.
func List(out io.Writer, types *mimetable.Table, exts []string) error {
	if len(exts) == 0 {
		exts = defaultExtensions(types)
	}
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		ext = strings.ToLower(ext)
		if _, err := fmt.Fprintf(out, "%s\t%s\n", ext, types.TypeByExtension(ext)); err != nil {
			return err
		}
	}
	return nil
}

// defaultExtensions returns the overrides and CommonExtensions sorted
// without duplicates
func defaultExtensions(types *mimetable.Table) []string {
	seen := map[string]struct{}{}
	var exts []string
	add := func(ext string) {
		if _, found := seen[ext]; !found {
			seen[ext] = struct{}{}
			exts = append(exts, ext)
		}
	}
	for _, override := range types.Overrides() {
		add(override.Ext)
	}
	for _, ext := range CommonExtensions {
		add(ext)
	}
	sort.Strings(exts)
	return exts
}
