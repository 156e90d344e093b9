// Package runner provides command interpreters that shellfs entries
// execute against: a local shell, a remote shell over SSH, and
// middleware wrappers for tracing and logging.
package runner

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Runner executes single shell command lines. It is the only collaborator
// the file abstraction depends on.
//
// Implementations must treat every call as self-contained: no state is
// carried between command lines beyond what the interpreter session itself
// provides, and no ordering is guaranteed across concurrent calls unless
// the implementation serializes them.
type Runner interface {
	// Output executes line and returns its captured standard output with
	// the trailing newline stripped; empty string when there is no output.
	// A non-zero exit status is not an error for Output — the text (often
	// empty) is still returned. Errors indicate transport failure only.
	Output(ctx context.Context, line string) (string, error)

	// Run executes line and returns nil when the interpreter reported
	// success (zero exit status).
	Run(ctx context.Context, line string) error

	// Privileged reports whether command lines run with elevated privilege.
	// Used by the entry factory to decide between shell-backed and native
	// access; the file abstraction itself never calls it.
	Privileged(ctx context.Context) bool
}

// Closer is implemented by runners that hold a connection.
type Closer interface {
	Close() error
}

// newSessionID returns a ULID used to correlate a runner's log lines.
func newSessionID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
