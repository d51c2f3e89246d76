// Package serve provides the serve command.
package serve

import (
	"github.com/moonfall/devserve/cmd"
	"github.com/moonfall/devserve/cmd/serve/http"
	"github.com/spf13/cobra"
)

func init() {
	Command.AddCommand(http.Command)
	http.AddFlags(Command.Flags())
	cmd.Root.AddCommand(Command)

	// devserve with no command serves over http
	http.AddFlags(cmd.Root.Flags())
	cmd.Root.Args = cobra.ArbitraryArgs
	cmd.Root.Run = http.RunCommand
}

// Command definition for cobra
var Command = &cobra.Command{
	Use:   "serve [flags] [root]",
	Short: `Serve a directory over HTTP.`,
	Long: `Serve a directory over a given protocol.  HTTP is the only protocol
so this is the same as

    devserve serve http [flags] [root]

and as running devserve with no command.  See the help of the http
subcommand for the options.
`,
	Annotations: map[string]string{
		"versionIntroduced": "v0.1.0",
	},
	Args: cobra.ArbitraryArgs,
	Run:  http.RunCommand,
}
