package engine

import (
	"errors"
	"fmt"
)

// ErrEngineUnavailable means the engine's binary or session could not be
// initialized. Recoverable by trying the other engine.
var ErrEngineUnavailable = errors.New("engine unavailable")

// ErrFetchFailed means the remote resource could not be retrieved
// (private, removed, rate-limited). Recoverable by trying the other engine.
var ErrFetchFailed = errors.New("fetch failed")

// IsRecoverable reports whether the error should trigger fallback to the
// other engine
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrEngineUnavailable) || errors.Is(err, ErrFetchFailed)
}

// BothFailedError is the terminal error for a record: every engine was tried
// and each failed with a recoverable error
type BothFailedError struct {
	PreferredName string
	PreferredErr  error
	FallbackName  string
	FallbackErr   error
}

// Error implements the error interface
func (e *BothFailedError) Error() string {
	return fmt.Sprintf("both engines failed: %s: %v | %s: %v",
		e.PreferredName, e.PreferredErr, e.FallbackName, e.FallbackErr)
}

// Unwrap exposes both underlying errors to errors.Is / errors.As
func (e *BothFailedError) Unwrap() []error {
	return []error{e.PreferredErr, e.FallbackErr}
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrEngineUnavailable}, args...)...)
}

func fetchFailed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrFetchFailed}, args...)...)
}
