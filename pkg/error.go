package pkg

import "errors"

// Flash driver errors.
var (
	// ErrTimeout indicates the busy-wait deadline expired before the chip
	// cleared its busy flag.
	ErrTimeout = errors.New("busy-wait timeout")

	// ErrAccessDenied indicates a write-protected region was targeted.
	// Reserved: the driver does not currently enforce protection checks.
	ErrAccessDenied = errors.New("access denied")

	// ErrInputValue indicates an out-of-range offset or length, a
	// misaligned erase region, or an absent buffer.
	ErrInputValue = errors.New("invalid input value")

	// ErrNotConfigured indicates the transport has not been initialized.
	ErrNotConfigured = errors.New("transport not configured")

	// ErrBufferTooLarge indicates a transfer exceeds the transport's
	// per-transaction limit.
	ErrBufferTooLarge = errors.New("buffer too large for transport")

	// ErrBufferTooSmall indicates the provided buffer is too small.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrProtocol indicates a framing error on a bridged transport.
	ErrProtocol = errors.New("protocol error")
)

// Result is the compact result code reported by driver operations,
// for callers that need a code rather than an error chain.
type Result int

// Result code values.
const (
	ResultSuccess      Result = iota // Operation completed
	ResultTimeout                    // Busy-wait deadline expired
	ResultAccessDenied               // Write-protected region (reserved)
	ResultInputValue                 // Invalid offset, length, or buffer
)

// String returns a string representation of the result code.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultTimeout:
		return "timeout"
	case ResultAccessDenied:
		return "access denied"
	case ResultInputValue:
		return "input value"
	default:
		return "unknown"
	}
}

// Err returns the corresponding sentinel error for the result code.
func (r Result) Err() error {
	switch r {
	case ResultSuccess:
		return nil
	case ResultTimeout:
		return ErrTimeout
	case ResultAccessDenied:
		return ErrAccessDenied
	case ResultInputValue:
		return ErrInputValue
	default:
		return ErrProtocol
	}
}

// ResultOf maps an error returned by a driver operation back to its
// result code.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, ErrTimeout):
		return ResultTimeout
	case errors.Is(err, ErrAccessDenied):
		return ResultAccessDenied
	default:
		return ResultInputValue
	}
}
