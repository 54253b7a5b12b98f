package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrUnknownMethod   = errors.New("unknown method")
	ErrUnsupported     = errors.New("unsupported method")
	ErrPrecondition    = errors.New("precondition failed")
	ErrNotFound        = errors.New("not found")
	ErrDownload        = errors.New("download failed")
	ErrUnderlying      = errors.New("underlying client error")
	ErrInvalidArgument = errors.New("invalid argument")

	ErrSecretNotFound = errors.New("secret not found")
)

var kindCodes = map[error]string{
	ErrConfiguration:   "CONFIGURATION_ERROR",
	ErrUnknownMethod:   "UNKNOWN_METHOD",
	ErrUnsupported:     "UNSUPPORTED_METHOD",
	ErrPrecondition:    "PRECONDITION_FAILED",
	ErrNotFound:        "NOT_FOUND",
	ErrDownload:        "DOWNLOAD_FAILED",
	ErrUnderlying:      "UNDERLYING_ERROR",
	ErrInvalidArgument: "INVALID_ARGUMENT",
}

// Error is the single structured failure type crossing the tool boundary.
// Kind is one of the Err* sentinels above, so errors.Is works on any wrapped Error.
type Error struct {
	Kind         error
	Message      string
	Hint         string
	Alternatives []string
	Details      map[string]any
	Cause        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	msg := strings.TrimSpace(e.Message)
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if msg == "" && e.Kind != nil {
		return e.Kind.Error()
	}

	return msg
}

func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}

	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}

	return errs
}

// Code returns the stable machine-readable code for the error kind.
func (e *Error) Code() string {
	if e == nil {
		return ""
	}
	if code, ok := kindCodes[e.Kind]; ok {
		return code
	}

	return kindCodes[ErrUnderlying]
}

// AsError normalises err into an *Error. Anything that is not already a domain
// error is treated as a failure of the wrapped client.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr
	}

	return &Error{Kind: ErrUnderlying, Message: err.Error(), Cause: err}
}

func NewConfigurationError(format string, args ...any) *Error {
	return &Error{
		Kind:    ErrConfiguration,
		Message: fmt.Sprintf(format, args...),
		Hint:    "set ACTUAL_SERVER_URL or server_url in the config file",
	}
}

func NewUnknownMethodError(method string) *Error {
	return &Error{
		Kind:    ErrUnknownMethod,
		Message: fmt.Sprintf("method %q is not in the manifest", method),
		Hint:    "call list_methods to discover the supported methods",
	}
}

func NewUnsupportedError(method string) *Error {
	return &Error{
		Kind:    ErrUnsupported,
		Message: fmt.Sprintf("method %q takes a function argument and cannot be called with named parameters", method),
		Hint:    "decompose the operation into the primitive methods it wraps and call those instead",
	}
}

func NewPreconditionError(message string) *Error {
	return &Error{
		Kind:    ErrPrecondition,
		Message: message,
		Hint:    "pass a budget id or name, or call loadBudget first",
	}
}

func NewNotFoundError(message string, alternatives []string) *Error {
	return &Error{
		Kind:         ErrNotFound,
		Message:      message,
		Hint:         "use one of the listed alternatives",
		Alternatives: alternatives,
	}
}

func NewDownloadError(message string) *Error {
	return &Error{
		Kind:    ErrDownload,
		Message: message,
		Hint:    "retry the call; the remote copy may still be syncing",
	}
}

func NewInvalidArgumentError(format string, args ...any) *Error {
	return &Error{
		Kind:    ErrInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewUnderlyingError wraps a failure reported by the finance client. Details are
// diagnostic-only and never rendered unless debug output is enabled.
func NewUnderlyingError(message string, details map[string]any, cause error) *Error {
	return &Error{
		Kind:    ErrUnderlying,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
