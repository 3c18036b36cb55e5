package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
)

// Environment variables recognized by applyEnv.
const (
	EnvFeedPath    = "SUBSTACK_DL_FEED_PATH"
	EnvOutputRoot  = "SUBSTACK_DL_OUTPUT_ROOT"
	EnvTimeout     = "SUBSTACK_DL_TIMEOUT"
	EnvUserAgent   = "SUBSTACK_DL_USER_AGENT"
	EnvLogLevel    = "SUBSTACK_DL_LOG_LEVEL"
	EnvFrontMatter = "SUBSTACK_DL_FRONT_MATTER"
)

// loadDotEnv loads each existing file in order. Variables already present in
// the process environment are never overwritten.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvFeedPath); v != "" {
		c.Feed.Path = v
	}
	if v := getenv(EnvOutputRoot); v != "" {
		c.Output.Root = v
	}
	if v := getenv(EnvUserAgent); v != "" {
		c.Feed.UserAgent = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = LogLevel(v)
	}
	if v := getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return sderrors.ConfigError("invalid " + EnvTimeout).WithCause(err).Build()
		}
		c.Feed.Timeout = d
	}
	if v := getenv(EnvFrontMatter); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return sderrors.ConfigError("invalid " + EnvFrontMatter).WithCause(err).Build()
		}
		c.Output.FrontMatter = b
	}
	return nil
}
