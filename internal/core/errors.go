// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// SeriesViolation pinpoints the bar at which a price series broke an
// invariant.
type SeriesViolation struct {
	Index  int
	Reason string
}

func (v *SeriesViolation) Error() string {
	return fmt.Sprintf("index %d: %s", v.Index, v.Reason)
}

// Predefined errors
var (
	// Engine errors. A backtest is all-or-nothing: any of these aborts the
	// run before simulation begins.
	ErrInvalidParameter = &Error{Code: "INVALID_PARAMETER", Message: "invalid backtest parameter"}
	ErrInsufficientData = &Error{Code: "INSUFFICIENT_DATA", Message: "insufficient data for backtest"}
	ErrDataQuality      = &Error{Code: "DATA_QUALITY", Message: "price series failed quality check"}

	// Collaborator errors
	ErrStrategyNotFound = &Error{Code: "STRATEGY_NOT_FOUND", Message: "strategy not registered"}
	ErrJobNotFound      = &Error{Code: "JOB_NOT_FOUND", Message: "job not found"}
	ErrFetchFailed      = &Error{Code: "FETCH_FAILED", Message: "fetching price history failed"}
	ErrArchiveFailed    = &Error{Code: "ARCHIVE_FAILED", Message: "archiving run artifacts failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Analysis errors
	ErrAnalysisFailed = &Error{Code: "ANALYSIS_FAILED", Message: "commentary generation failed"}
)
