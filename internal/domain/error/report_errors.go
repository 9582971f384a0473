package error

import "errors"

// Report domain errors.
var (
	// ErrInvalidPeriod is returned when a report period cannot be resolved.
	ErrInvalidPeriod = errors.New("invalid report period")

	// ErrInvalidGranularity is returned when a breakdown granularity is unknown.
	ErrInvalidGranularity = errors.New("granularity must be: week, month, quarter, or year")

	// ErrInvalidCategoryLevel is returned when a breakdown category level is out of range.
	ErrInvalidCategoryLevel = errors.New("category level must be between 1 and 3")
)

// ReportErrorCode defines error codes for report errors.
// Format: RPT-XXYYYY where XX is category and YYYY is specific error.
type ReportErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidPeriod        ReportErrorCode = "RPT-010001"
	ErrCodeInvalidGranularity   ReportErrorCode = "RPT-010002"
	ErrCodeInvalidCategoryLevel ReportErrorCode = "RPT-010003"

	// Internal errors (99XXXX)
	ErrCodeReportInternal ReportErrorCode = "RPT-990001"
)

// ReportError represents a report error with code and message.
type ReportError struct {
	Code    ReportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError with the given code and message.
func NewReportError(code ReportErrorCode, message string, err error) *ReportError {
	return &ReportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
