// Package config loads substack-dl settings from an optional YAML file, a
// .env file, and SUBSTACK_DL_* environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
)

// DefaultConfigFile is the file looked up when no --config flag is given.
const DefaultConfigFile = "substack-dl.yaml"

// Config is the complete runtime configuration.
type Config struct {
	Feed    FeedConfig    `yaml:"feed"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// FeedConfig controls URL resolution and the HTTP fetch.
type FeedConfig struct {
	Path      string        `yaml:"path"`       // appended to the resolved host, e.g. /feed
	Timeout   time.Duration `yaml:"timeout"`    // 0 disables the client timeout
	UserAgent string        `yaml:"user_agent"` // sent with the feed request
}

// OutputConfig controls where and how posts are written.
type OutputConfig struct {
	Root        string `yaml:"root"`         // staging root for relative output directories
	FrontMatter bool   `yaml:"front_matter"` // prefix posts with YAML front matter
}

// BuildConfig controls how invalid feed entries are handled.
type BuildConfig struct {
	Policy BuildPolicy `yaml:"policy"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig controls the optional Prometheus textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Defaults returns a configuration with every field set to its default.
func Defaults() *Config {
	return &Config{
		Feed: FeedConfig{
			Path:      "/feed",
			Timeout:   30 * time.Second,
			UserAgent: "substack-dl",
		},
		Output: OutputConfig{
			Root: os.TempDir(),
		},
		Build: BuildConfig{
			Policy: BuildPolicySkip,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// Load builds the configuration for one invocation.
//
// A missing file is only an error when explicit is true; the default file
// name is optional. Environment variables override file values.
func Load(path string, explicit bool) (*Config, error) {
	if err := loadDotEnv(".env", ".env.local"); err != nil {
		return nil, sderrors.ConfigError("failed to load .env file").WithCause(err).Build()
	}

	cfg := Defaults()
	if path != "" {
		if err := cfg.mergeFile(path, explicit); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return sderrors.ConfigError("failed to read config file").WithCause(err).
			Fatal().
			WithContext("path", path).
			Build()
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return sderrors.ConfigError("failed to parse config file").WithCause(err).
			Fatal().
			WithContext("path", path).
			Build()
	}
	return nil
}

// Normalize canonicalizes enum values. Empty values take their defaults.
func (c *Config) Normalize() error {
	var err error
	if c.Build.Policy, err = buildPolicyNormalizer.normalize(string(c.Build.Policy)); err != nil {
		return sderrors.ConfigError("invalid build.policy").WithCause(err).Build()
	}
	if c.Logging.Level, err = logLevelNormalizer.normalize(string(c.Logging.Level)); err != nil {
		return sderrors.ConfigError("invalid logging.level").WithCause(err).Build()
	}
	if c.Logging.Format, err = logFormatNormalizer.normalize(string(c.Logging.Format)); err != nil {
		return sderrors.ConfigError("invalid logging.format").WithCause(err).Build()
	}
	return nil
}

// Validate checks invariants that normalization cannot repair.
func (c *Config) Validate() error {
	if c.Feed.Timeout < 0 {
		return sderrors.ConfigError(fmt.Sprintf("feed.timeout must not be negative, got %s", c.Feed.Timeout)).Build()
	}
	if c.Output.Root == "" {
		return sderrors.ConfigError("output.root must not be empty").Build()
	}
	return nil
}

// Init writes an example configuration file populated with the defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return sderrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return sderrors.InternalError("failed to marshal example config").WithCause(err).Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return sderrors.WriteFailedError("failed to write config file").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
