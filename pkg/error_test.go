package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestResult_String(t *testing.T) {
	tests := []struct {
		result Result
		want   string
	}{
		{ResultSuccess, "success"},
		{ResultTimeout, "timeout"},
		{ResultAccessDenied, "access denied"},
		{ResultInputValue, "input value"},
		{Result(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.result.String(); got != tt.want {
				t.Errorf("Result.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResult_Err(t *testing.T) {
	tests := []struct {
		result  Result
		wantErr error
	}{
		{ResultSuccess, nil},
		{ResultTimeout, ErrTimeout},
		{ResultAccessDenied, ErrAccessDenied},
		{ResultInputValue, ErrInputValue},
		{Result(99), ErrProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.result.String(), func(t *testing.T) {
			err := tt.result.Err()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Result.Err() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Result.Err() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Result
	}{
		{"nil", nil, ResultSuccess},
		{"timeout", ErrTimeout, ResultTimeout},
		{"wrapped timeout", fmt.Errorf("erase at 0x8000: %w", ErrTimeout), ResultTimeout},
		{"access denied", ErrAccessDenied, ResultAccessDenied},
		{"input value", ErrInputValue, ResultInputValue},
		{"wrapped input", fmt.Errorf("write: %w", ErrInputValue), ResultInputValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultOf(tt.err); got != tt.want {
				t.Errorf("ResultOf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSentinelErrors(t *testing.T) {
	// Verify all sentinel errors are distinct
	errs := []error{
		ErrTimeout,
		ErrAccessDenied,
		ErrInputValue,
		ErrNotConfigured,
		ErrBufferTooLarge,
		ErrBufferTooSmall,
		ErrProtocol,
	}

	for i, err1 := range errs {
		if err1 == nil {
			t.Errorf("error %d is nil", i)
			continue
		}
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("error %d and %d are equal", i, j)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err     error
		wantMsg string
	}{
		{ErrTimeout, "busy-wait timeout"},
		{ErrAccessDenied, "access denied"},
		{ErrInputValue, "invalid input value"},
		{ErrNotConfigured, "transport not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("error.Error() = %v, want %v", got, tt.wantMsg)
			}
		})
	}
}
