package error

import "errors"

// Basic expense domain errors.
var (
	ErrBasicExpenseNotFound           = errors.New("basic expense not found")
	ErrNotAuthorizedToModifyBasicExp  = errors.New("not authorized to modify basic expense")
	ErrInvalidBasicExpenseAmount      = errors.New("basic expense amount must not be negative")
	ErrInvalidBasicExpenseDateRange   = errors.New("start date must not be after end date")
	ErrBasicExpenseCategoryNotFound   = errors.New("category not found")
	ErrBasicExpenseCategoryNotExpense = errors.New("basic expenses require an expense category")
)

// BasicExpenseErrorCode defines error codes for basic expense errors.
// Format: BEX-XXYYYY where XX is category and YYYY is specific error.
type BasicExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeBasicExpenseNotFound      BasicExpenseErrorCode = "BEX-010001"
	ErrCodeNotAuthorizedBasicExpense BasicExpenseErrorCode = "BEX-010002"
	ErrCodeInvalidBasicExpenseAmount BasicExpenseErrorCode = "BEX-010003"
	ErrCodeInvalidBasicExpenseRange  BasicExpenseErrorCode = "BEX-010004"
	ErrCodeBexCategoryNotFound       BasicExpenseErrorCode = "BEX-010005"
	ErrCodeBexCategoryNotExpense     BasicExpenseErrorCode = "BEX-010006"
	ErrCodeInvalidBasicExpenseDate   BasicExpenseErrorCode = "BEX-010007"
)

// BasicExpenseError represents a basic expense error with code and message.
type BasicExpenseError struct {
	Code    BasicExpenseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BasicExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BasicExpenseError) Unwrap() error {
	return e.Err
}

// NewBasicExpenseError creates a new BasicExpenseError with the given code and message.
func NewBasicExpenseError(code BasicExpenseErrorCode, message string, err error) *BasicExpenseError {
	return &BasicExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
