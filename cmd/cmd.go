// Package cmd implements the devserve command
//
// It is in a sub package so it's internals can be re-used elsewhere
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/moonfall/devserve/fs"
	"github.com/moonfall/devserve/fs/config/configfile"
	"github.com/moonfall/devserve/fs/config/configflags"
	fslog "github.com/moonfall/devserve/fs/log"
	"github.com/moonfall/devserve/lib/atexit"
	"github.com/moonfall/devserve/lib/buildinfo"
	"github.com/moonfall/devserve/lib/env"
	"github.com/moonfall/devserve/lib/exitcode"
	"github.com/spf13/cobra"
)

// Globals
var (
	// Flags
	version    bool
	configPath string
	// Errors
	errorNotEnoughArguments = errors.New("not enough arguments")
	errorTooManyArguments   = errors.New("too many arguments")

	// exit is os.Exit, replaced in tests
	exit = os.Exit
	// signalExitCode is the exit code of a received exit signal or 0
	signalExitCode = atexit.ExitCode
)

// ShowVersion prints the version to stdout
func ShowVersion() {
	osVersion, osKernel := buildinfo.GetOSVersion()
	if osVersion == "" {
		osVersion = "unknown"
	}
	if osKernel == "" {
		osKernel = "unknown"
	}

	linking, tagString := buildinfo.GetLinkingAndTags()

	fmt.Printf("devserve %s\n", fs.Version)
	fmt.Printf("- os/version: %s\n", osVersion)
	fmt.Printf("- os/kernel: %s\n", osKernel)
	fmt.Printf("- os/type: %s\n", runtime.GOOS)
	fmt.Printf("- os/arch: %s\n", runtime.GOARCH)
	fmt.Printf("- go/version: %s\n", runtime.Version())
	fmt.Printf("- go/linking: %s\n", linking)
	fmt.Printf("- go/tags: %s\n", tagString)
}

// Run the function and exit with the right exit code
//
// It never returns.
func Run(command *cobra.Command, f func() error) {
	cmdErr := f()
	fs.Debugf(nil, "%d go routines active", runtime.NumGoroutine())

	// Log the final error message and exit
	if cmdErr != nil {
		log.Printf("Failed to %s: %v", command.Name(), cmdErr)
	}
	resolveExitCode(cmdErr)
}

// CheckArgs checks there are enough arguments and prints a message if not
func CheckArgs(MinArgs, MaxArgs int, command *cobra.Command, args []string) {
	if len(args) < MinArgs {
		_ = command.Usage()
		_, _ = fmt.Fprintf(os.Stderr, "Command %s needs %d arguments minimum: you provided %d non flag arguments: %q\n", command.Name(), MinArgs, len(args), args)
		resolveExitCode(errorNotEnoughArguments)
	} else if len(args) > MaxArgs {
		_ = command.Usage()
		_, _ = fmt.Fprintf(os.Stderr, "Command %s needs %d arguments maximum: you provided %d non flag arguments: %q\n", command.Name(), MaxArgs, len(args), args)
		resolveExitCode(errorTooManyArguments)
	}
}

// initConfig is run by cobra after parsing the flags of command
func initConfig(command *cobra.Command) {
	ctx := context.Background()
	ci := fs.GetConfig(ctx)

	// Load the config file first so it can set up the logging too
	env.ShellExpandAll(&configPath)
	if configPath != "" {
		if err := configfile.Load(configPath, command.Flags()); err != nil {
			log.Printf("Failed to load config: %v", err)
			resolveExitCode(fmt.Errorf("%w: %w", fs.ErrorConfig, err))
			return
		}
	}

	// Start the logger
	env.ShellExpandAll(&fslog.Opt.File)
	fslog.InitLogging()

	// Finish parsing any command line flags
	if err := configflags.SetFlags(ci, command.Flags()); err != nil {
		log.Printf("Failed to parse flags: %v", err)
		resolveExitCode(fmt.Errorf("%w: %w", fs.ErrorConfig, err))
		return
	}
	if err := fs.Reload(ctx); err != nil {
		log.Printf("Failed to reload config: %v", err)
		resolveExitCode(fmt.Errorf("%w: %w", fs.ErrorConfig, err))
		return
	}

	// Write the args for debug purposes
	fs.Debugf("devserve", "Version %q starting with parameters %q", fs.Version, os.Args)

	// Inform user about systemd log support now that we have a logger
	if fslog.Opt.LogSystemdSupport {
		fs.Debugf("devserve", "systemd logging support activated")
	}
}

// exitCodeFor works out the process exit code for err
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, errorNotEnoughArguments), errors.Is(err, errorTooManyArguments):
		return exitcode.UsageError
	case errors.Is(err, fs.ErrorDirNotFound), errors.Is(err, fs.ErrorIsFile):
		return exitcode.DirNotFound
	case errors.Is(err, fs.ErrorListen):
		return exitcode.ListenError
	case errors.Is(err, fs.ErrorConfig):
		return exitcode.ConfigError
	default:
		return exitcode.UncategorizedError
	}
}

// resolveExitCode runs the exit handlers then exits
//
// A received exit signal decides the exit code so it matches the one
// the signal handler exits with.
func resolveExitCode(err error) {
	atexit.Run()
	code := exitCodeFor(err)
	if sigCode := signalExitCode(); sigCode != 0 {
		code = sigCode
	}
	exit(code)
}

// Main runs devserve interpreting flags and commands out of os.Args
func Main() {
	setupRootCommand(Root)
	if err := Root.Execute(); err != nil {
		log.Printf("Fatal error: %v", err)
		exit(exitcode.UsageError)
	}
}
