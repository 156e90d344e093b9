package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrNotDirectory   = fmt.Errorf("not a directory")
	ErrTransport      = fmt.Errorf("command transport failed")
	ErrCommandFailed  = fmt.Errorf("command reported failure")
	ErrMalformedMode  = fmt.Errorf("malformed permission mode string")
	ErrUnsupportedURI = fmt.Errorf("unsupported path locator")
	ErrConfigLoad     = fmt.Errorf("failed to load configuration")
	ErrRunnerClosed   = fmt.Errorf("runner is closed")
	ErrDialFailed     = fmt.Errorf("connection failed")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "File.List")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ErrorCode is a machine-parseable error category for monitoring and alerting.
type ErrorCode string

// Error codes. Every sentinel error maps to exactly one code.
const (
	CodeUnknown        ErrorCode = "UNKNOWN"
	CodeNotDirectory   ErrorCode = "NOT_DIRECTORY"
	CodeTransport      ErrorCode = "TRANSPORT"
	CodeCommandFailed  ErrorCode = "COMMAND_FAILED"
	CodeMalformedMode  ErrorCode = "MALFORMED_MODE"
	CodeUnsupportedURI ErrorCode = "UNSUPPORTED_URI"
	CodeConfigLoad     ErrorCode = "CONFIG_LOAD"
	CodeRunnerClosed   ErrorCode = "RUNNER_CLOSED"
	CodeDialFailed     ErrorCode = "DIAL_FAILED"
)

// errorCodeMap maps sentinel errors to their machine-parseable codes.
var errorCodeMap = map[error]ErrorCode{
	ErrNotDirectory:   CodeNotDirectory,
	ErrTransport:      CodeTransport,
	ErrCommandFailed:  CodeCommandFailed,
	ErrMalformedMode:  CodeMalformedMode,
	ErrUnsupportedURI: CodeUnsupportedURI,
	ErrConfigLoad:     CodeConfigLoad,
	ErrRunnerClosed:   CodeRunnerClosed,
	ErrDialFailed:     CodeDialFailed,
}

// ErrorCodeOf returns the machine-parseable error code for the given error.
// It unwraps DomainError and uses errors.Is to match sentinel errors.
// Returns CodeUnknown if no matching sentinel is found.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	// Fast path: direct sentinel lookup.
	if code, ok := errorCodeMap[err]; ok {
		return code
	}

	var de *DomainError
	if errors.As(err, &de) {
		if code, ok := errorCodeMap[de.Err]; ok {
			return code
		}
	}

	// Walk the error chain with errors.Is.
	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}

	return CodeUnknown
}

// Code returns the ErrorCode for this DomainError's underlying sentinel.
func (e *DomainError) Code() ErrorCode {
	if code, ok := errorCodeMap[e.Err]; ok {
		return code
	}
	return CodeUnknown
}
