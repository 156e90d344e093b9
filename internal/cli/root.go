// Package cli wires the shellfs entry operations to a command line
// interface. Every subcommand builds one runner from the configuration,
// performs a single operation, and reports the boolean result through the
// process exit code.
package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shellfs",
	Short: "Operate on files through a command interpreter",
	Long: `shellfs manipulates filesystem paths that are only reachable through a
command interpreter: a privileged local shell (sudo/su) or a remote
shell over SSH. Every query and mutation is a single shell command; no
state is kept between invocations.

Exit Codes:
  0 - Success / predicate true
  1 - Operation failed / predicate false
  2 - Usage or configuration error`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Exit codes for main.
const (
	ExitOK    = 0
	ExitFalse = 1
	ExitUsage = 2
	ExitPanic = 3
)

// ExitCodeForError maps an Execute error to a process exit code and
// reports whether the error should be printed.
func ExitCodeForError(err error) (code int, print bool) {
	switch {
	case err == nil:
		return ExitOK, false
	case errors.Is(err, ErrExitFalse):
		return ExitFalse, false
	default:
		return ExitUsage, true
	}
}

// ErrExitFalse marks a cleanly executed operation whose boolean result was
// false; main maps it to exit code 1 without printing an error.
var ErrExitFalse = &exitFalseError{}

type exitFalseError struct{}

func (e *exitFalseError) Error() string { return "operation reported failure" }

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "C", "shellfs.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}
