package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/substack-dl/internal/config"
	"git.home.luguber.info/inful/substack-dl/internal/feed"
	"git.home.luguber.info/inful/substack-dl/internal/prompt"
)

// Global carries process-level collaborators into commands. Nil fields fall
// back to the real stdio, terminal prompt and HTTP fetcher.
type Global struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Confirmer prompt.Confirmer
	Fetcher   feed.Fetcher
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stderr() io.Writer {
	if g == nil || g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (default: ${config_file} when present)" placeholder:"PATH"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log format: text or json" placeholder:"FORMAT"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Download DownloadCmd `cmd:"" default:"withargs" help:"Download a publication's posts as Markdown files"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, c.logLevel(config.LogLevelInfo), config.NormalizeLogFormat(c.LogFormat)))
	return nil
}

// configPath returns the file to load and whether the user asked for it.
func (c *CLI) configPath() (string, bool) {
	if c.Config != "" {
		return c.Config, true
	}
	return config.DefaultConfigFile, false
}

// configureLogging applies the loaded configuration; flags take precedence.
func (c *CLI) configureLogging(w io.Writer, cfg *config.Config) *slog.Logger {
	format := cfg.Logging.Format
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}
	logger := newLogger(w, c.logLevel(cfg.Logging.Level), format)
	slog.SetDefault(logger)
	return logger
}

func (c *CLI) logLevel(configured config.LogLevel) slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch configured {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
