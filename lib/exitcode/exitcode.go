// Package exitcode exports devserve's exit status numbers.
package exitcode

const (
	// Success is returned when devserve finished without error.
	Success = iota
	// UsageError is returned when there was a syntax or usage error in the arguments.
	UsageError
	// UncategorizedError is returned for any error not categorised otherwise.
	UncategorizedError
	// DirNotFound is returned when the directory to serve is not found.
	DirNotFound
	// ListenError is returned when a listening socket could not be opened.
	ListenError
	// ConfigError is returned when the configuration could not be loaded or is invalid.
	ConfigError
)
