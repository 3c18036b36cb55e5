package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WithCause sets the underlying error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithRetry sets the retry strategy.
func (b *ErrorBuilder) WithRetry(strategy RetryStrategy) *ErrorBuilder {
	b.retry = strategy
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Retryable marks the error as worth re-invoking later.
func (b *ErrorBuilder) Retryable() *ErrorBuilder {
	return b.WithRetry(RetryBackoff)
}

// UserAction sets the retry strategy to require user action.
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	return b.WithRetry(RetryUserAction)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		retry:    b.retry,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors, one per failure kind.

func InvalidInputError(message string) *ErrorBuilder {
	return NewError(CategoryInvalidInput, message).Fatal().UserAction()
}

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserAction()
}

// NetworkError is retryable: the caller may re-invoke the tool.
func NetworkError(message string) *ErrorBuilder {
	return NewError(CategoryNetwork, message).Retryable()
}

func FeedParseError(message string) *ErrorBuilder {
	return NewError(CategoryFeedParse, message)
}

// Entry-level defects are warnings: the default build policy skips the entry.
func MalformedLinkError(message string) *ErrorBuilder {
	return NewError(CategoryMalformedLink, message).Warning()
}

func InvalidDateError(message string) *ErrorBuilder {
	return NewError(CategoryInvalidDate, message).Warning()
}

func ConvertFailedError(message string) *ErrorBuilder {
	return NewError(CategoryConvertFailed, message).Warning()
}

func DirectoryExistsError(message string) *ErrorBuilder {
	return NewError(CategoryDirectoryExists, message).UserAction()
}

func CantDeleteError(message string) *ErrorBuilder {
	return NewError(CategoryCantDelete, message).Fatal()
}

func WriteFailedError(message string) *ErrorBuilder {
	return NewError(CategoryWriteFailed, message).Fatal()
}

func CanceledError(message string) *ErrorBuilder {
	return NewError(CategoryCanceled, message)
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
