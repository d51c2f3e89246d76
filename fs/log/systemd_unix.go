// Systemd interface for Unix variants only

//go:build !windows && !nacl && !plan9
// +build !windows,!nacl,!plan9

package log

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	sysdjournald "github.com/iguanesolutions/go-systemd/v5/journald"
	"github.com/moonfall/devserve/fs"
	"golang.org/x/sys/unix"
)

// Enables systemd logs if configured or if auto detected
func startSystemdLog() bool {
	// journald adds its own timestamps
	log.SetFlags(logFlags(Opt.Format) &^ (log.Ldate | log.Ltime | log.Lmicroseconds))
	fs.LogPrint = func(level fs.LogLevel, text string) {
		text = fmt.Sprintf("%s%-6s: %s", systemdLogPrefix(level), level, text)
		_ = log.Output(4, text)
	}
	return true
}

var logLevelToSystemdPrefix = []string{
	fs.LogLevelEmergency: sysdjournald.EmergPrefix,
	fs.LogLevelAlert:     sysdjournald.AlertPrefix,
	fs.LogLevelCritical:  sysdjournald.CritPrefix,
	fs.LogLevelError:     sysdjournald.ErrPrefix,
	fs.LogLevelWarning:   sysdjournald.WarningPrefix,
	fs.LogLevelNotice:    sysdjournald.NoticePrefix,
	fs.LogLevelInfo:      sysdjournald.InfoPrefix,
	fs.LogLevelDebug:     sysdjournald.DebugPrefix,
}

func systemdLogPrefix(l fs.LogLevel) string {
	if l >= fs.LogLevel(len(logLevelToSystemdPrefix)) {
		return ""
	}
	return logLevelToSystemdPrefix[l]
}

// isJournalStream reports whether stderr is connected to the systemd
// journal, as described by the JOURNAL_STREAM environment variable
// which holds "device:inode" of the journal socket.
func isJournalStream() bool {
	journalStream := os.Getenv("JOURNAL_STREAM")
	if journalStream == "" {
		return false
	}
	parts := strings.SplitN(journalStream, ":", 2)
	if len(parts) != 2 {
		return false
	}
	dev, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return false
	}
	ino, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return false
	}
	var st unix.Stat_t
	if err := unix.Fstat(int(os.Stderr.Fd()), &st); err != nil {
		return false
	}
	return uint64(st.Dev) == dev && uint64(st.Ino) == ino
}
