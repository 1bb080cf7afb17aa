package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(CodeUnavailable, "screenshot tool not found")
	if !strings.Contains(err.Error(), "UNAVAILABLE") {
		t.Errorf("Error() = %q, want code name included", err.Error())
	}
	if !strings.Contains(err.Error(), "screenshot tool not found") {
		t.Errorf("Error() = %q, want message included", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := Wrap(cause, CodeIO, "append failed")

	if Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
	if !strings.Contains(err.Error(), "exit status 1") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestIsCode(t *testing.T) {
	err := Newf(CodeLock, "cannot lock %s", "markers.txt")
	if !IsCode(err, CodeLock) {
		t.Error("IsCode should match the error's own code")
	}
	if IsCode(err, CodeIO) {
		t.Error("IsCode should not match a different code")
	}

	// Code is found through wrapping chains.
	wrapped := fmt.Errorf("publish: %w", err)
	if !IsCode(wrapped, CodeLock) {
		t.Error("IsCode should unwrap nested errors")
	}

	if IsCode(fmt.Errorf("plain"), CodeLock) {
		t.Error("IsCode should be false for non-AppError")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{CodeUnavailable, true},
		{CodeTimeout, true},
		{CodeIO, false},
		{CodeLock, false},
		{CodeInvalidGeometry, false},
	}
	for _, tt := range tests {
		if got := IsRetryable(New(tt.code, "x")); got != tt.want {
			t.Errorf("IsRetryable(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
	if IsRetryable(fmt.Errorf("plain")) {
		t.Error("plain errors are not retryable")
	}
}

func TestWithMetadata(t *testing.T) {
	err := New(CodeInvalidGeometry, "degenerate crop").WithMetadata("display", "2")
	if err.Metadata["display"] != "2" {
		t.Errorf("Metadata[display] = %q, want %q", err.Metadata["display"], "2")
	}
	if !strings.Contains(err.Error(), "display") {
		t.Errorf("Error() = %q, want metadata included", err.Error())
	}
}
