package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/moonfall/devserve/fs"
	"github.com/moonfall/devserve/fs/config/configflags"
	"github.com/moonfall/devserve/fs/config/flags"
	"github.com/moonfall/devserve/fs/log/logflags"
	"github.com/spf13/cobra"
)

// Root is the main devserve command
//
// The serve command sets Run so that "devserve" on its own serves the
// current directory.
var Root = &cobra.Command{
	Use:   "devserve [flags] [root]",
	Short: "Serve a directory over HTTP for local development.",
	Long: `devserve serves the files in a directory over HTTP.

With no arguments it serves the current directory on port 8080 of all
interfaces. Files ending in .js are always served as
application/javascript. Other types come from the platform mime table
and can be overridden with --mime-type.

devserve runs until it is interrupted, when it stops accepting
connections and waits for the requests in flight to finish.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(command *cobra.Command, args []string) {
		initConfig(command)
	},
	PersistentPostRun: func(command *cobra.Command, args []string) {
		fs.Debugf("devserve", "Version %q finishing with parameters %q", fs.Version, os.Args)
	},
}

// runRoot is used if there is no Run set on Root
func runRoot(command *cobra.Command, args []string) {
	if version {
		ShowVersion()
		resolveExitCode(nil)
		return
	}
	_ = command.Usage()
	_, _ = fmt.Fprintf(os.Stderr, "Command not found.\n")
	resolveExitCode(errorNotEnoughArguments)
}

// setupRootCommand adds the global flags to rootCmd
func setupRootCommand(rootCmd *cobra.Command) {
	ci := fs.GetConfig(context.Background())
	persistent := rootCmd.PersistentFlags()
	configflags.AddFlags(ci, persistent)
	logflags.AddFlags(persistent)
	flags.StringVarP(persistent, &configPath, "config", "", configPath, "YAML file to read flag defaults from")
	flags.BoolVarP(rootCmd.Flags(), &version, "version", "V", false, "Print the version number")

	// Serve if a serving command installed itself, otherwise show help
	if rootCmd.Run == nil {
		rootCmd.Run = runRoot
	} else {
		run := rootCmd.Run
		rootCmd.Run = func(command *cobra.Command, args []string) {
			if version {
				ShowVersion()
				resolveExitCode(nil)
				return
			}
			run(command, args)
		}
	}
}
