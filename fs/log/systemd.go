// Systemd interface for non-Unix variants only

//go:build windows || nacl || plan9
// +build windows nacl plan9

package log

// Enables systemd logs if configured or if auto detected
func startSystemdLog() bool {
	return false
}

func isJournalStream() bool {
	return false
}
