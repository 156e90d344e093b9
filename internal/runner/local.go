package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"shellfs/internal/domain"
)

const defaultTimeout = 30 * time.Second

// LocalRunner executes command lines through a local shell, optionally
// wrapped in a privilege-elevation command such as sudo or su.
type LocalRunner struct {
	shell   string   // interpreter, e.g. "sh"
	wrap    []string // elevation prefix, e.g. ["sudo", "--"]; empty = none
	timeout time.Duration
	logger  *slog.Logger
	session string

	probeOnce sync.Once
	probeRoot bool
}

// LocalOption configures optional LocalRunner features.
type LocalOption func(*LocalRunner)

// WithWrap prefixes every invocation with an elevation command,
// e.g. WithWrap("sudo", "--").
func WithWrap(argv ...string) LocalOption {
	return func(r *LocalRunner) { r.wrap = argv }
}

// WithTimeout overrides the per-command timeout.
func WithTimeout(d time.Duration) LocalOption {
	return func(r *LocalRunner) { r.timeout = d }
}

// NewLocalRunner creates a runner that executes lines via `shell -c line`.
// An empty shell defaults to "sh".
func NewLocalRunner(shell string, logger *slog.Logger, opts ...LocalOption) *LocalRunner {
	if shell == "" {
		shell = "sh"
	}
	r := &LocalRunner{
		shell:   shell,
		timeout: defaultTimeout,
		logger:  logger,
		session: newSessionID(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *LocalRunner) command(ctx context.Context, line string) *exec.Cmd {
	argv := append(append([]string{}, r.wrap...), r.shell, "-c", line)
	return exec.CommandContext(ctx, argv[0], argv[1:]...)
}

func (r *LocalRunner) Output(ctx context.Context, line string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := r.command(ctx, line)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	out := strings.TrimRight(stdout.String(), "\n")

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// The interpreter itself could not be run; exit status failures
		// are routine and still yield whatever text was captured.
		r.logger.Debug("local exec transport failure", "session", r.session, "error", err)
		return "", domain.NewDomainError("LocalRunner.Output", domain.ErrTransport, err.Error())
	}

	r.logger.Debug("local exec", "session", r.session, "line", line, "bytes", stdout.Len())
	return out, nil
}

func (r *LocalRunner) Run(ctx context.Context, line string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.command(ctx, line).Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		r.logger.Debug("local exec ok", "session", r.session, "line", line)
		return nil
	case errors.As(err, &exitErr):
		r.logger.Debug("local exec failed", "session", r.session, "line", line, "code", exitErr.ExitCode())
		return domain.NewDomainError("LocalRunner.Run", domain.ErrCommandFailed, exitErr.Error())
	default:
		r.logger.Debug("local exec transport failure", "session", r.session, "error", err)
		return domain.NewDomainError("LocalRunner.Run", domain.ErrTransport, err.Error())
	}
}

// Privileged probes the effective uid once and caches the answer for the
// lifetime of the runner. The probe runs through the same wrap prefix as
// every other command.
func (r *LocalRunner) Privileged(ctx context.Context) bool {
	r.probeOnce.Do(func() {
		out, err := r.Output(ctx, "id -u")
		r.probeRoot = err == nil && strings.TrimSpace(out) == "0"
	})
	return r.probeRoot
}
