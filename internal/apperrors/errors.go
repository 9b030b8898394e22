package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound represents an error when a requested path or resource does not exist.
// A missing root path is fatal and aborts the run before any file is processed.
type ErrNotFound struct {
	Resource string
	Path     string
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Path)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource, path string) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		Path:     path,
	}
}

// ErrAuthentication is returned when explicit credentials are rejected by a
// provider. Missing credentials are not an error, only a reduced-capability
// mode; rejection of supplied credentials is fatal.
type ErrAuthentication struct {
	Provider string
	Reason   string
}

// Error implements the error interface.
func (e *ErrAuthentication) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("provider %s rejected credentials: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("provider %s rejected credentials", e.Provider)
}

// Is allows for error checking with errors.Is().
func (e *ErrAuthentication) Is(target error) bool {
	_, ok := target.(*ErrAuthentication)
	return ok
}

// NewAuthenticationError creates a new ErrAuthentication.
func NewAuthenticationError(provider, reason string) *ErrAuthentication {
	return &ErrAuthentication{
		Provider: provider,
		Reason:   reason,
	}
}

// ErrProvider represents a failure while talking to a subtitle provider.
// Transient failures (network errors, HTTP 5xx, rate limiting) are retried by
// the session before being surfaced as a per-language Failed result.
type ErrProvider struct {
	Provider  string
	Op        string
	Transient bool
	Err       error
}

// Error implements the error interface.
func (e *ErrProvider) Error() string {
	return fmt.Sprintf("provider %s: %s failed: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ErrProvider) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrProvider) Is(target error) bool {
	_, ok := target.(*ErrProvider)
	return ok
}

// NewProviderError creates a new ErrProvider.
func NewProviderError(provider, op string, transient bool, err error) *ErrProvider {
	return &ErrProvider{
		Provider:  provider,
		Op:        op,
		Transient: transient,
		Err:       err,
	}
}

// IsTransient reports whether err is (or wraps) a transient provider error.
func IsTransient(err error) bool {
	var pe *ErrProvider
	if errors.As(err, &pe) {
		return pe.Transient
	}
	return false
}

// ErrWrite represents a filesystem write failure for a fetched subtitle.
// It is recorded as a per-file error and does not abort the batch.
type ErrWrite struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ErrWrite) Error() string {
	return fmt.Sprintf("failed to write subtitle %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ErrWrite) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrWrite) Is(target error) bool {
	_, ok := target.(*ErrWrite)
	return ok
}

// NewWriteError creates a new ErrWrite.
func NewWriteError(path string, err error) *ErrWrite {
	return &ErrWrite{
		Path: path,
		Err:  err,
	}
}
