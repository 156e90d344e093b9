package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"shellfs/internal/infra/config"
	"shellfs/internal/infra/logger"
	"shellfs/internal/infra/tracer"
	"shellfs/internal/runner"
	"shellfs/internal/shellfs"
)

// env contains everything a subcommand needs to operate on a path.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	runner runner.Runner

	shutdown []func() error
}

func (e *env) close() {
	for i := len(e.shutdown) - 1; i >= 0; i-- {
		_ = e.shutdown[i]()
	}
}

// file constructs the command-backed entity for path. The CLI always talks
// through the interpreter; the native fallback only applies to the
// library's Open factory.
func (e *env) file(path string) *shellfs.File {
	return shellfs.New(e.runner, path)
}

// setup loads .env and the config file, then builds logger, tracer and
// runner. Callers must defer env.close.
func setup(cmd *cobra.Command) (*env, error) {
	_ = godotenv.Load()

	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logger.Level = "debug"
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log}
	e.shutdown = append(e.shutdown, closeLog)

	stopTracer, err := tracer.Setup(cmd.Context(), cfg.Tracer)
	if err != nil {
		e.close()
		return nil, err
	}
	e.shutdown = append(e.shutdown, func() error { return stopTracer(context.Background()) })

	r, err := buildRunner(cfg, log)
	if err != nil {
		e.close()
		return nil, err
	}
	if c, ok := r.(runner.Closer); ok {
		e.shutdown = append(e.shutdown, c.Close)
	}
	e.runner = runner.WithTracing(r)

	return e, nil
}

func buildRunner(cfg *config.Config, log *slog.Logger) (runner.Runner, error) {
	switch cfg.Runner.Type {
	case "ssh":
		return runner.NewSSHRunner(runner.SSHConfig{
			Address:     cfg.SSH.Address,
			User:        cfg.SSH.User,
			KeyFile:     cfg.SSH.KeyFile,
			Pass:        cfg.SSH.Pass,
			HostKeyFile: cfg.SSH.HostKeyFile,
			Timeout:     cfg.CommandTimeout(),
		}, log)
	case "local", "":
		opts := []runner.LocalOption{runner.WithTimeout(cfg.CommandTimeout())}
		if len(cfg.Runner.Wrap) > 0 {
			opts = append(opts, runner.WithWrap(cfg.Runner.Wrap...))
		}
		return runner.NewLocalRunner(cfg.Runner.Shell, log, opts...), nil
	default:
		return nil, fmt.Errorf("unknown runner type %q", cfg.Runner.Type)
	}
}

// boolExit converts an operation result into the command error contract.
func boolExit(ok bool) error {
	if ok {
		return nil
	}
	return ErrExitFalse
}

// printLine writes a result line to stdout.
func printLine(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}
