// Package errors provides the application error type for grantledger.
// Every service-layer failure is an *AppError so handlers can render a
// consistent response without leaking internal details to clients.
package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an AppError for callers that need to branch on it.
type Kind int

const (
	KindInternal Kind = iota
	KindRejection
	KindNotFound
	KindForbidden
	KindUnauthorized
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// Headroom is set on balance rejections and holds the remaining amount the
// rejected write would have exceeded.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Headroom   *int64 `json:"headroom,omitempty"`
	StatusCode int    `json:"-"`
	Kind       Kind   `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that
// derived errors still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) clone() *AppError {
	c := *e
	return &c
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	c := sentinel.clone()
	c.Internal = internal
	return c
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	c := sentinel.clone()
	c.Message = message
	return c
}

// WithHeadroom creates a rejection carrying a custom message and the violated headroom.
func WithHeadroom(sentinel *AppError, message string, headroom int64) *AppError {
	c := sentinel.clone()
	c.Message = message
	c.Headroom = &headroom
	return c
}

// KindOf returns the kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsRejection reports whether err is a recoverable validation rejection.
func IsRejection(err error) bool { return err != nil && KindOf(err) == KindRejection }

// IsNotFound reports whether err signals a missing project, budget item, receipt or user.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized, Kind: KindUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized, Kind: KindUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden, Kind: KindForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest, Kind: KindRejection}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError, Kind: KindInternal}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
)

// Project errors.
var (
	ErrProjectNotFound       = &AppError{Code: "PROJECT_NOT_FOUND", Message: "Project not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
	ErrProjectInUse          = &AppError{Code: "PROJECT_IN_USE", Message: "Project has recorded receipts", StatusCode: http.StatusConflict, Kind: KindRejection}
	ErrFundingBelowAllocated = &AppError{Code: "FUNDING_BELOW_ALLOCATED", Message: "Total funding is below the amount already allocated in the RAB", StatusCode: http.StatusBadRequest, Kind: KindRejection}
)

// Budget item errors.
var (
	ErrBudgetItemNotFound    = &AppError{Code: "BUDGET_ITEM_NOT_FOUND", Message: "Budget item not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
	ErrBudgetItemInUse       = &AppError{Code: "BUDGET_ITEM_IN_USE", Message: "Budget item is referenced by existing receipts", StatusCode: http.StatusConflict, Kind: KindRejection}
	ErrRabLimitExceeded      = &AppError{Code: "RAB_LIMIT_EXCEEDED", Message: "Allocation exceeds the remaining project funding", StatusCode: http.StatusBadRequest, Kind: KindRejection}
	ErrAllocationBelowSpent  = &AppError{Code: "ALLOCATION_BELOW_SPENT", Message: "Allocation is below the amount already spent in this category", StatusCode: http.StatusBadRequest, Kind: KindRejection}
	ErrBudgetItemRequired    = &AppError{Code: "BUDGET_ITEM_REQUIRED", Message: "A budget item must be selected", StatusCode: http.StatusBadRequest, Kind: KindRejection}
	ErrInsufficientRabBudget = &AppError{Code: "INSUFFICIENT_CATEGORY_BALANCE", Message: "Insufficient balance in the budget category", StatusCode: http.StatusBadRequest, Kind: KindRejection}
)

// Receipt errors.
var (
	ErrReceiptNotFound = &AppError{Code: "RECEIPT_NOT_FOUND", Message: "Receipt not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
	ErrReceiptLocked   = &AppError{Code: "RECEIPT_LOCKED", Message: "Verified receipts cannot be changed", StatusCode: http.StatusConflict, Kind: KindRejection}
)
