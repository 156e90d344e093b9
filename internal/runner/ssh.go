package runner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"shellfs/internal/domain"
)

// SSHConfig holds the settings needed to reach a remote interpreter.
type SSHConfig struct {
	Address string // host:port
	User    string
	KeyFile string // path to a private key; empty = password auth
	Pass    string
	// HostKeyFile points at a known_hosts style file with the expected host
	// key. Empty accepts any host key (only sensible for test rigs).
	HostKeyFile string
	Timeout     time.Duration
}

// SSHRunner executes command lines on a remote host, one exec session per
// line. The remote account's login shell interprets each line.
type SSHRunner struct {
	client  *ssh.Client
	logger  *slog.Logger
	session string

	probeOnce sync.Once
	probeRoot bool
}

// NewSSHRunner dials the remote host and returns a connected runner.
// The caller owns the connection and must Close it.
func NewSSHRunner(cfg SSHConfig, logger *slog.Logger) (*SSHRunner, error) {
	auth, err := sshAuth(cfg)
	if err != nil {
		return nil, err
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // opt-in via empty HostKeyFile
	if cfg.HostKeyFile != "" {
		key, err := loadHostKey(cfg.HostKeyFile)
		if err != nil {
			return nil, domain.WrapOp("ssh host key", err)
		}
		hostKeyCallback = ssh.FixedHostKey(key)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	client, err := ssh.Dial("tcp", cfg.Address, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	})
	if err != nil {
		return nil, domain.NewDomainError("NewSSHRunner", domain.ErrDialFailed, err.Error())
	}

	return &SSHRunner{client: client, logger: logger, session: newSessionID()}, nil
}

func sshAuth(cfg SSHConfig) ([]ssh.AuthMethod, error) {
	if cfg.KeyFile == "" {
		return []ssh.AuthMethod{ssh.Password(cfg.Pass)}, nil
	}
	pem, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		return nil, domain.WrapOp("read ssh key", err)
	}
	signer, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, domain.WrapOp("parse ssh key", err)
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
}

func loadHostKey(path string) (ssh.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil, err
	}
	return key, nil
}

// Close tears down the SSH connection.
func (r *SSHRunner) Close() error {
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

func (r *SSHRunner) exec(ctx context.Context, line string, wantOutput bool) (string, error) {
	if r.client == nil {
		return "", domain.NewDomainError("SSHRunner.exec", domain.ErrRunnerClosed, "")
	}

	sess, err := r.client.NewSession()
	if err != nil {
		return "", domain.NewDomainError("SSHRunner.exec", domain.ErrTransport, err.Error())
	}
	defer sess.Close()

	// x/crypto/ssh sessions have no context support; watch for cancellation
	// and kill the session so the call does not outlive its context.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = sess.Signal(ssh.SIGKILL)
			_ = sess.Close()
		case <-done:
		}
	}()

	if wantOutput {
		out, err := sess.Output(line)
		text := strings.TrimRight(string(out), "\n")
		var exitErr *ssh.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			return "", domain.NewDomainError("SSHRunner.Output", domain.ErrTransport, err.Error())
		}
		r.logger.Debug("ssh exec", "session", r.session, "line", line, "bytes", len(out))
		return text, nil
	}

	err = sess.Run(line)
	var exitErr *ssh.ExitError
	switch {
	case err == nil:
		r.logger.Debug("ssh exec ok", "session", r.session, "line", line)
		return "", nil
	case errors.As(err, &exitErr):
		r.logger.Debug("ssh exec failed", "session", r.session, "line", line, "code", exitErr.ExitStatus())
		return "", domain.NewDomainError("SSHRunner.Run", domain.ErrCommandFailed, exitErr.Error())
	default:
		return "", domain.NewDomainError("SSHRunner.Run", domain.ErrTransport, err.Error())
	}
}

func (r *SSHRunner) Output(ctx context.Context, line string) (string, error) {
	return r.exec(ctx, line, true)
}

func (r *SSHRunner) Run(ctx context.Context, line string) error {
	_, err := r.exec(ctx, line, false)
	return err
}

// Privileged probes the remote effective uid once per connection.
func (r *SSHRunner) Privileged(ctx context.Context) bool {
	r.probeOnce.Do(func() {
		out, err := r.Output(ctx, "id -u")
		r.probeRoot = err == nil && strings.TrimSpace(out) == "0"
	})
	return r.probeRoot
}
