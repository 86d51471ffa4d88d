// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, invalid text, unknown task).
	UserError = 1

	// AuthError indicates a Google credentials error.
	AuthError = 2

	// BackendError indicates a storage or remote API failure.
	BackendError = 3
)
