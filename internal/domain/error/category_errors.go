package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found in the system.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrParentCategoryNotFound is returned when the requested parent does not exist.
	ErrParentCategoryNotFound = errors.New("parent category not found")

	// ErrCategoryNameTooLong is returned when the category name exceeds the maximum length.
	ErrCategoryNameTooLong = errors.New("category name too long")

	// ErrCategoryMaxDepth is returned when a child would exceed the maximum level.
	ErrCategoryMaxDepth = errors.New("category hierarchy cannot exceed three levels")

	// ErrCategoryTypeMismatch is returned when a child's type differs from its parent's.
	ErrCategoryTypeMismatch = errors.New("category type must match parent type")

	// ErrNotAuthorizedToModifyCategory is returned when user is not authorized to modify a category.
	ErrNotAuthorizedToModifyCategory = errors.New("not authorized to modify category")

	// ErrInvalidCategoryType is returned when the category type is invalid.
	ErrInvalidCategoryType = errors.New("invalid category type")

	// ErrCategoryHasChildren is returned when deleting a category that still has subcategories.
	ErrCategoryHasChildren = errors.New("category has subcategories")

	// ErrCategoryInUse is returned when deleting a category referenced by transactions or basic expenses.
	ErrCategoryInUse = errors.New("category is referenced by transactions or basic expenses")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeCategoryNameTooLong   CategoryErrorCode = "CAT-010001"
	ErrCodeCategoryMaxDepth      CategoryErrorCode = "CAT-010002"
	ErrCodeCategoryTypeMismatch  CategoryErrorCode = "CAT-010003"
	ErrCodeCategoryNotFound      CategoryErrorCode = "CAT-010004"
	ErrCodeParentNotFound        CategoryErrorCode = "CAT-010005"
	ErrCodeNotAuthorizedCategory CategoryErrorCode = "CAT-010006"
	ErrCodeInvalidCategoryType   CategoryErrorCode = "CAT-010007"
	ErrCodeMissingCategoryFields CategoryErrorCode = "CAT-010008"
	ErrCodeCategoryHasChildren   CategoryErrorCode = "CAT-010009"
	ErrCodeCategoryInUse         CategoryErrorCode = "CAT-010010"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
