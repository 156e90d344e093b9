// Package config loads the shellfs configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"shellfs/internal/domain"
)

// RunnerConfig selects and configures the command interpreter.
type RunnerConfig struct {
	// Type is "local" or "ssh".
	Type    string   `yaml:"type"`
	Shell   string   `yaml:"shell"`   // interpreter for local runners, default "sh"
	Wrap    []string `yaml:"wrap"`    // elevation prefix, e.g. ["sudo", "--"]
	Timeout string   `yaml:"timeout"` // duration string, default "30s"
}

// SSHConfig configures the remote interpreter for runner type "ssh".
type SSHConfig struct {
	Address     string `yaml:"address"` // host:port
	User        string `yaml:"user"`
	KeyFile     string `yaml:"key_file"`
	Pass        string `yaml:"pass,omitempty"`
	HostKeyFile string `yaml:"host_key_file,omitempty"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	Output string `yaml:"output"` // stdout, stderr, or a file path
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // "stdout" or "noop"
}

// Config is the top-level application configuration.
type Config struct {
	Runner RunnerConfig `yaml:"runner"`
	SSH    SSHConfig    `yaml:"ssh"`
	Logger LoggerConfig `yaml:"logger"`
	Tracer TracerConfig `yaml:"tracer"`
}

// Defaults returns a Config populated with defaults.
func Defaults() *Config {
	return &Config{
		Runner: RunnerConfig{Type: "local", Shell: "sh", Timeout: "30s"},
		Logger: LoggerConfig{Level: "info", Format: "text", Output: "stderr"},
		Tracer: TracerConfig{Enabled: false, Exporter: "noop"},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, validate(cfg)
		}
		return nil, domain.NewDomainError("config.Load", domain.ErrConfigLoad, err.Error())
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewDomainError("config.Load", domain.ErrConfigLoad, fmt.Sprintf("parse config: %v", err))
	}

	applyEnvOverrides(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets SHELLFS_* variables take precedence over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SHELLFS_RUNNER"); v != "" {
		cfg.Runner.Type = v
	}
	if v := os.Getenv("SHELLFS_SHELL"); v != "" {
		cfg.Runner.Shell = v
	}
	if v := os.Getenv("SHELLFS_SSH_ADDRESS"); v != "" {
		cfg.SSH.Address = v
	}
	if v := os.Getenv("SHELLFS_SSH_USER"); v != "" {
		cfg.SSH.User = v
	}
	if v := os.Getenv("SHELLFS_SSH_KEY_FILE"); v != "" {
		cfg.SSH.KeyFile = v
	}
	if v := os.Getenv("SHELLFS_SSH_PASS"); v != "" {
		cfg.SSH.Pass = v
	}
	if v := os.Getenv("SHELLFS_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
}

func validate(cfg *Config) error {
	switch cfg.Runner.Type {
	case "local":
	case "ssh":
		if cfg.SSH.Address == "" {
			return domain.NewDomainError("config.validate", domain.ErrConfigLoad, "ssh runner requires ssh.address")
		}
		if cfg.SSH.User == "" {
			return domain.NewDomainError("config.validate", domain.ErrConfigLoad, "ssh runner requires ssh.user")
		}
	default:
		return domain.NewDomainError("config.validate", domain.ErrConfigLoad,
			fmt.Sprintf("unknown runner type %q (want local or ssh)", cfg.Runner.Type))
	}

	if cfg.Runner.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Runner.Timeout); err != nil {
			return domain.NewDomainError("config.validate", domain.ErrConfigLoad,
				fmt.Sprintf("invalid runner.timeout %q", cfg.Runner.Timeout))
		}
	}
	return nil
}

// CommandTimeout returns the parsed runner timeout, or the default when unset.
func (c *Config) CommandTimeout() time.Duration {
	d, err := time.ParseDuration(c.Runner.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
