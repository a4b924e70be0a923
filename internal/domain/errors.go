package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in the {"error":{"code","description"}} body.
const (
	CodeBadRequest     = "BAD_REQUEST_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeNotFound       = "NOT_FOUND_ERROR"
	CodeInvalidVPA     = "INVALID_VPA"
	CodeInvalidCard    = "INVALID_CARD"
	CodeExpiredCard    = "EXPIRED_CARD"
	CodeInternal       = "INTERNAL_ERROR"
)

// AppError is a structured application error carrying the HTTP status and
// the wire-level error code/description.
type AppError struct {
	Status      int    `json:"-"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Err         error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error constructors.

func ErrBadRequest(desc string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeBadRequest, Description: desc}
}

// ErrValidation builds a 400 error with a method-specific validation code
// (INVALID_VPA, INVALID_CARD, EXPIRED_CARD).
func ErrValidation(code, desc string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: code, Description: desc}
}

func ErrAuthentication(desc string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Code: CodeAuthentication, Description: desc}
}

func ErrNotFound(desc string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Description: desc}
}

func ErrInternal(desc string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: CodeInternal, Description: desc, Err: err}
}

// AsAppError attempts to extract an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ErrDuplicateID is returned by repositories when an insert hits the
// primary-key constraint. Services regenerate the identifier and retry.
var ErrDuplicateID = errors.New("duplicate identifier")
