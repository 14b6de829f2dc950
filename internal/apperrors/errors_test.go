// Package apperrors tests verify the custom error types (ErrNotFound,
// ErrNetworkFailure, ErrMalformedResponse), their Error() messages,
// Is() matching semantics, and classification through KindOf including
// fmt.Errorf wrapping.
package apperrors

import (
	"context"
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
			name:     "with int ID",
			err:      NewShowNotFoundError(42),
			expected: "show with ID 42 not found",
		},
		{
			name:     "with string ID",
			err:      NewNotFoundError("episode", "abc"),
			expected: "episode with ID abc not found",
		},
		{
			name:     "with nil ID",
			err:      &ErrNotFound{Resource: "show"},
			expected: "show not found",
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

func TestErrNotFound_Is(t *testing.T) {
	t.Parallel()
	err := NewShowNotFoundError(1)

	if !errors.Is(err, &ErrNotFound{Resource: "other", ID: 99}) {
		t.Error("expected errors.Is to match *ErrNotFound regardless of field values")
	}
	if errors.Is(err, &ErrNetworkFailure{}) {
		t.Error("expected errors.Is not to match *ErrNetworkFailure")
	}
}

// ---------------------------------------------------------------------------
// ErrNetworkFailure
// ---------------------------------------------------------------------------

func TestErrNetworkFailure_Error(t *testing.T) {
	t.Parallel()

	withStatus := &ErrNetworkFailure{URL: "http://x/search/shows", StatusCode: 503}
	if got, want := withStatus.Error(), "upstream request to http://x/search/shows returned status 503"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	withErr := &ErrNetworkFailure{URL: "http://x", Err: errors.New("connection refused")}
	if got, want := withErr.Error(), "upstream request to http://x failed: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrNetworkFailure_Unwrap(t *testing.T) {
	t.Parallel()
	err := &ErrNetworkFailure{URL: "http://x", Err: context.DeadlineExceeded}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected errors.Is to reach the wrapped transport error")
	}
}

// ---------------------------------------------------------------------------
// ErrMalformedResponse
// ---------------------------------------------------------------------------

func TestErrMalformedResponse_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrMalformedResponse
		expected string
	}{
		{
			name:     "resource only",
			err:      NewMalformedResponseError("search", "", nil),
			expected: "malformed search response",
		},
		{
			name:     "with reason",
			err:      NewMalformedResponseError("search", "entry 2 has no show", nil),
			expected: "malformed search response: entry 2 has no show",
		},
		{
			name:     "with reason and cause",
			err:      NewMalformedResponseError("episodes", "decode", errors.New("unexpected EOF")),
			expected: "malformed episodes response: decode: unexpected EOF",
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

// ---------------------------------------------------------------------------
// KindOf
// ---------------------------------------------------------------------------

func TestKindOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"not found", NewShowNotFoundError(7), KindNotFound},
		{"network", &ErrNetworkFailure{URL: "u", StatusCode: 500}, KindNetworkFailure},
		{"malformed", NewMalformedResponseError("search", "", nil), KindMalformedResponse},
		{"wrapped network", fmt.Errorf("search shows: %w", &ErrNetworkFailure{URL: "u", Err: errors.New("eof")}), KindNetworkFailure},
		{"wrapped malformed", fmt.Errorf("episodes: %w", NewMalformedResponseError("episodes", "x", nil)), KindMalformedResponse},
		{"plain error", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
