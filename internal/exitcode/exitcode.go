// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments or a task or list that is not loaded.
	UserError = 1

	// ConfigError indicates an unreadable or invalid configuration, or
	// missing credentials.
	ConfigError = 2

	// BackendError indicates a transport, API or network failure.
	BackendError = 3
)
