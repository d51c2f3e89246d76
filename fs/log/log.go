// Package log provides logging for devserve
package log

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/moonfall/devserve/fs"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options contains options for controlling the logging
type Options struct {
	File              string        // Log everything to this file
	MaxSize           int           // Max size of log file in MiB before it is rotated, 0 for no rotation
	MaxBackups        int           // Max number of rotated log files to keep
	MaxAge            time.Duration // Max age of rotated log files
	Compress          bool          // Set to gzip rotated log files
	Format            string        // Comma separated list of log format options
	LogSystemdSupport bool          // set if using systemd logging
}

// DefaultOpt is the default values used for Opt
var DefaultOpt = Options{
	Format: "date,time",
}

// Opt is the options for the logger
var Opt = DefaultOpt

// logFlags turns the --log-format string into log package flags
func logFlags(format string) (flags int) {
	flagsStr := "," + format + ","
	if strings.Contains(flagsStr, ",date,") {
		flags |= log.Ldate
	}
	if strings.Contains(flagsStr, ",time,") {
		flags |= log.Ltime
	}
	if strings.Contains(flagsStr, ",microseconds,") {
		flags |= log.Lmicroseconds
	}
	if strings.Contains(flagsStr, ",UTC,") {
		flags |= log.LUTC
	}
	if strings.Contains(flagsStr, ",longfile,") {
		flags |= log.Llongfile
	}
	if strings.Contains(flagsStr, ",shortfile,") {
		flags |= log.Lshortfile
	}
	return flags
}

// round a number of units up with a minimum of 1 if set
func round(x float64) int {
	if x <= 0 {
		return 0
	} else if x <= 1 {
		return 1
	}
	return int(x + 0.5)
}

// openLogFile opens the --log-file, with rotation if requested
func openLogFile() (io.Writer, error) {
	if Opt.MaxSize <= 0 {
		// No log rotation - just open the file as normal
		// We'll capture tracebacks like this too.
		f, err := os.OpenFile(Opt.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0640)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		redirectStderr(f)
		return f, nil
	}
	return &lumberjack.Logger{
		Filename:   Opt.File,
		MaxSize:    Opt.MaxSize, // MiB
		MaxBackups: Opt.MaxBackups,
		MaxAge:     round(Opt.MaxAge.Hours() / 24), // Days
		Compress:   Opt.Compress,
		LocalTime:  true, // format log file names in localtime
	}, nil
}

// InitLogging start the logging as per the command line flags
func InitLogging() {
	ci := fs.GetConfig(context.Background())

	flagsStr := "," + Opt.Format + ","
	if strings.Contains(flagsStr, ",json,") {
		ci.UseJSONLog = true
	}

	// Log file output
	var w io.Writer = os.Stderr
	if Opt.File != "" {
		var err error
		w, err = openLogFile()
		if err != nil {
			fs.Fatalf(nil, "%v", err)
		}
	}
	log.SetOutput(w)
	log.SetFlags(logFlags(Opt.Format))
	if strings.Contains(flagsStr, ",pid,") {
		log.SetPrefix(fmt.Sprintf("[%d] ", os.Getpid()))
	}

	// Structured output
	logrus.SetOutput(w)
	fs.LogReload = reload
	_ = reload(ci)
	logrus.SetFormatter(&logrus.JSONFormatter{
		DisableTimestamp: !strings.Contains(flagsStr, ",date,") && !strings.Contains(flagsStr, ",time,"),
	})

	// Activate systemd logger support if systemd invocation ID is
	// detected and output is going to stderr (not logging to a file)
	if !Redirected() && isJournalStream() {
		Opt.LogSystemdSupport = true
	}

	// Systemd logging output
	if Opt.LogSystemdSupport {
		startSystemdLog()
	}
}

var logLevelToLogrus = []logrus.Level{
	fs.LogLevelEmergency: logrus.PanicLevel,
	fs.LogLevelAlert:     logrus.PanicLevel,
	fs.LogLevelCritical:  logrus.FatalLevel,
	fs.LogLevelError:     logrus.ErrorLevel,
	fs.LogLevelWarning:   logrus.WarnLevel,
	fs.LogLevelNotice:    logrus.WarnLevel,
	fs.LogLevelInfo:      logrus.InfoLevel,
	fs.LogLevelDebug:     logrus.DebugLevel,
}

// reload makes logrus follow the --log-level in ci
func reload(ci *fs.ConfigInfo) error {
	if int(ci.LogLevel) >= len(logLevelToLogrus) {
		return fmt.Errorf("unknown log level %d", ci.LogLevel)
	}
	logrus.SetLevel(logLevelToLogrus[ci.LogLevel])
	return nil
}

// Redirected returns true if the log has been redirected from stderr
func Redirected() bool {
	return Opt.File != ""
}
