// Package errors provides the classified error type used across substack-dl.
//
// Every failure the pipeline can surface maps to one ErrorCategory, so the CLI
// can print a single line naming the failure kind and exit with a stable code.
//
// Key features:
//   - ErrorCategory: failure kind (invalid_input, network, feed_parse, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: hint for the caller; the pipeline itself never retries
//   - ClassifiedError: structured error with category, severity, and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: single-line presentation and exit codes
//
// Example usage:
//
//	err := errors.NetworkError("feed request failed").
//		WithContext("url", feedURL).
//		WithCause(originalErr).
//		Build()
package errors
