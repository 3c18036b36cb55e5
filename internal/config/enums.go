package config

import (
	"fmt"
	"sort"
	"strings"
)

// BuildPolicy selects what happens to feed entries that cannot become posts.
type BuildPolicy string

const (
	// BuildPolicySkip logs and reports invalid entries and keeps going.
	BuildPolicySkip BuildPolicy = "skip"
	// BuildPolicyStrict aborts the run on the first invalid entry.
	BuildPolicyStrict BuildPolicy = "strict"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var (
	buildPolicyNormalizer = newEnumNormalizer(map[string]BuildPolicy{
		"skip":   BuildPolicySkip,
		"strict": BuildPolicyStrict,
	}, BuildPolicySkip)
	logLevelNormalizer = newEnumNormalizer(map[string]LogLevel{
		"debug":   LogLevelDebug,
		"info":    LogLevelInfo,
		"warn":    LogLevelWarn,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
	}, LogLevelInfo)
	logFormatNormalizer = newEnumNormalizer(map[string]LogFormat{
		"json": LogFormatJSON,
		"text": LogFormatText,
	}, LogFormatText)
)

// NormalizeLogFormat maps raw to a LogFormat, falling back to text.
func NormalizeLogFormat(raw string) LogFormat {
	v, _ := logFormatNormalizer.normalize(raw)
	return v
}

// NormalizeLogLevel maps raw to a LogLevel, falling back to info.
func NormalizeLogLevel(raw string) LogLevel {
	v, _ := logLevelNormalizer.normalize(raw)
	return v
}

// enumNormalizer maps case-insensitive strings to enum values.
// The empty string maps to the default value.
type enumNormalizer[T ~string] struct {
	values       map[string]T
	defaultValue T
}

func newEnumNormalizer[T ~string](values map[string]T, defaultValue T) *enumNormalizer[T] {
	return &enumNormalizer[T]{values: values, defaultValue: defaultValue}
}

func (n *enumNormalizer[T]) normalize(raw string) (T, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return n.defaultValue, nil
	}
	if v, ok := n.values[cleaned]; ok {
		return v, nil
	}
	keys := make([]string, 0, len(n.values))
	for k := range n.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return n.defaultValue, fmt.Errorf("invalid value %q, valid options: %v", raw, keys)
}
