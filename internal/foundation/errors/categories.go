package errors

import "maps"

// ErrorCategory names the kind of failure. Each category is one entry of the
// pipeline's failure taxonomy.
type ErrorCategory string

const (
	// CategoryInvalidInput is a bad source identifier or output directory name.
	CategoryInvalidInput ErrorCategory = "invalid_input"
	CategoryConfig       ErrorCategory = "config"

	// CategoryNetwork covers transport failures and non-2xx feed responses.
	CategoryNetwork   ErrorCategory = "network"
	CategoryFeedParse ErrorCategory = "feed_parse"

	// Per-entry data defects.
	CategoryMalformedLink ErrorCategory = "malformed_link"
	CategoryInvalidDate   ErrorCategory = "invalid_date"
	CategoryConvertFailed ErrorCategory = "convert_failed"

	// Output directory and file failures.
	CategoryDirectoryExists ErrorCategory = "directory_exists"
	CategoryCantDelete      ErrorCategory = "cant_delete"
	CategoryWriteFailed     ErrorCategory = "write_failed"

	CategoryCanceled ErrorCategory = "canceled"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// RetryStrategy tells the caller whether re-invoking the tool may help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"   // Permanent failure, don't retry
	RetryBackoff    RetryStrategy = "backoff" // Transient, re-invoke later
	RetryUserAction RetryStrategy = "user"    // Requires user intervention
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
