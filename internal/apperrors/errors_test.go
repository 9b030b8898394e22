// Package apperrors tests verify the custom error types (ErrNotFound,
// ErrAuthentication, ErrProvider, ErrWrite), their Error() messages, Is()
// matching semantics, constructor helpers, and compatibility with errors.Is()
// including through fmt.Errorf wrapping.
package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

// ---------------------------------------------------------------------------
// ErrNotFound
// ---------------------------------------------------------------------------

func TestErrNotFound_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrNotFound
		expected string
	}{
		{
			name:     "with path",
			err:      &ErrNotFound{Resource: "root path", Path: "/media/movies"},
			expected: "root path not found: /media/movies",
		},
		{
			name:     "without path",
			err:      &ErrNotFound{Resource: "subtitle"},
			expected: "subtitle not found",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrNotFound_Is(t *testing.T) {
	t.Parallel()
	err := NewNotFoundError("root path", "/tmp/nope")

	t.Run("matches another ErrNotFound", func(t *testing.T) {
		if !errors.Is(err, &ErrNotFound{}) {
			t.Error("expected errors.Is to match *ErrNotFound")
		}
	})

	t.Run("matches ErrNotFound with different fields", func(t *testing.T) {
		if !errors.Is(err, &ErrNotFound{Resource: "other", Path: "/x"}) {
			t.Error("expected errors.Is to match *ErrNotFound regardless of field values")
		}
	})

	t.Run("does not match ErrAuthentication", func(t *testing.T) {
		if errors.Is(err, &ErrAuthentication{}) {
			t.Error("expected errors.Is not to match *ErrAuthentication")
		}
	})

	t.Run("matches when wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("locate videos: %w", err)
		if !errors.Is(wrapped, &ErrNotFound{}) {
			t.Error("expected errors.Is to match through fmt.Errorf wrapping")
		}
	})
}

// ---------------------------------------------------------------------------
// ErrAuthentication
// ---------------------------------------------------------------------------

func TestErrAuthentication_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrAuthentication
		expected string
	}{
		{
			name:     "with reason",
			err:      &ErrAuthentication{Provider: "opensubtitles", Reason: "invalid password"},
			expected: "provider opensubtitles rejected credentials: invalid password",
		},
		{
			name:     "without reason",
			err:      &ErrAuthentication{Provider: "opensubtitles"},
			expected: "provider opensubtitles rejected credentials",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrAuthentication_Is(t *testing.T) {
	t.Parallel()
	err := NewAuthenticationError("opensubtitles", "401")

	if !errors.Is(err, &ErrAuthentication{}) {
		t.Error("expected errors.Is to match *ErrAuthentication")
	}
	if errors.Is(err, &ErrProvider{}) {
		t.Error("expected errors.Is not to match *ErrProvider")
	}
}

// ---------------------------------------------------------------------------
// ErrProvider
// ---------------------------------------------------------------------------

func TestErrProvider_Error(t *testing.T) {
	t.Parallel()
	err := NewProviderError("podnapisi", "search", true, errors.New("connection refused"))
	expected := "provider podnapisi: search failed: connection refused"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
}

func TestErrProvider_Unwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("boom")
	err := NewProviderError("tvsubtitles", "download", false, cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "transient provider error",
			err:      NewProviderError("opensubtitles", "search", true, errors.New("503")),
			expected: true,
		},
		{
			name:     "permanent provider error",
			err:      NewProviderError("opensubtitles", "search", false, errors.New("400")),
			expected: false,
		},
		{
			name:     "wrapped transient provider error",
			err:      fmt.Errorf("fetch en: %w", NewProviderError("podnapisi", "download", true, errors.New("timeout"))),
			expected: true,
		},
		{
			name:     "unrelated error",
			err:      errors.New("something else"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsTransient(tt.err); got != tt.expected {
				t.Errorf("IsTransient() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ErrWrite
// ---------------------------------------------------------------------------

func TestErrWrite_Error(t *testing.T) {
	t.Parallel()
	err := NewWriteError("/media/Movie.en.srt", errors.New("permission denied"))
	expected := "failed to write subtitle /media/Movie.en.srt: permission denied"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
}

func TestErrWrite_Is(t *testing.T) {
	t.Parallel()
	cause := errors.New("disk full")
	err := NewWriteError("/media/Movie.en.srt", cause)

	if !errors.Is(err, &ErrWrite{}) {
		t.Error("expected errors.Is to match *ErrWrite")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
	if errors.Is(err, &ErrNotFound{}) {
		t.Error("expected errors.Is not to match *ErrNotFound")
	}
}
