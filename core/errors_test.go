package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapError(t *testing.T) {
	base := errors.New("connection reset")
	wrapped := WrapError(base, ErrTransient)
	if wrapped.Code != ErrTransient {
		t.Fatalf("code = %s", wrapped.Code)
	}
	if !errors.Is(wrapped, base) {
		t.Fatal("wrapped error must unwrap to the original")
	}

	// An AIError passes through untouched, keeping its original code.
	again := WrapError(wrapped, ErrInternal)
	if again.Code != ErrTransient {
		t.Fatalf("code = %s, want original preserved", again.Code)
	}

	if WrapError(nil, ErrTransient) != nil {
		t.Fatal("wrapping nil must return nil")
	}
}

func TestClassifyThroughWrapping(t *testing.T) {
	err := NewError(ErrRateLimited, "slow down", WithStatus(429))
	outer := fmt.Errorf("provider call: %w", err)

	if !IsRateLimited(outer) {
		t.Fatal("IsRateLimited should see through fmt wrapping")
	}
	if IsBadRequest(outer) {
		t.Fatal("IsBadRequest should not match a rate-limit error")
	}
	if IsRateLimited(nil) {
		t.Fatal("nil is never classified")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", NewError(ErrRateLimited, "429"), true},
		{"transient", NewError(ErrTransient, "503"), true},
		{"timeout", NewError(ErrTimeout, "deadline"), true},
		{"not configured", NewError(ErrNotConfigured, "no key"), true},
		{"provider error", NewError(ErrProviderError, "odd response"), true},
		{"bad request", NewError(ErrBadRequest, "400"), false},
		{"bad request marked retryable", NewError(ErrBadRequest, "400", WithRetryable(true)), true},
		{"plain error", errors.New("whatever"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Fatalf("IsRetryable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	e := NewError(ErrProviderError, "upstream failed", WithWrapped(errors.New("boom")))
	if e.Error() != "upstream failed: boom" {
		t.Fatalf("Error() = %q", e.Error())
	}
}
