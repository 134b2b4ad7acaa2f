package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrTokenExpired  = errors.New("token expired")
)

// Verification errors
var (
	ErrInvalidWalletFormat     = errors.New("invalid wallet address format")
	ErrSessionNotFound         = errors.New("verification session not found")
	ErrSessionExpired          = errors.New("verification session expired")
	ErrSessionAlreadyCompleted = errors.New("verification session already completed")
	ErrInvalidSignature        = errors.New("invalid wallet signature")
	ErrWalletMismatch          = errors.New("wallet does not match the session")
	ErrSourceUnavailable       = errors.New("asset source unavailable")
	ErrRoleSyncFailure         = errors.New("role synchronization failed")
	ErrSchedulerBusy           = errors.New("re-verification cycle already running")
)

// Stable error codes returned to API callers
const (
	CodeBadRequest              = "BAD_REQUEST"
	CodeInvalidInput            = "INVALID_INPUT"
	CodeNotFound                = "NOT_FOUND"
	CodeConflict                = "CONFLICT"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeInternalError           = "INTERNAL_ERROR"
	CodeInvalidWalletFormat     = "INVALID_WALLET_FORMAT"
	CodeSessionNotFound         = "SESSION_NOT_FOUND"
	CodeSessionExpired          = "SESSION_EXPIRED"
	CodeSessionAlreadyCompleted = "SESSION_ALREADY_COMPLETED"
	CodeInvalidSignature        = "INVALID_SIGNATURE"
	CodeWalletMismatch          = "WALLET_MISMATCH"
	CodeSourceUnavailable       = "SOURCE_UNAVAILABLE"
	CodeSchedulerBusy           = "SCHEDULER_BUSY"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}

// FromVerificationError maps verification failures to an actionable AppError.
// Unknown errors become internal errors.
func FromVerificationError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrInvalidWalletFormat):
		return NewAppError(http.StatusBadRequest, CodeInvalidWalletFormat,
			"That wallet address is not valid. Check the address and try again.", err)
	case errors.Is(err, ErrSessionNotFound):
		return NewAppError(http.StatusNotFound, CodeSessionNotFound,
			"Verification link not recognised. Please start a new verification.", err)
	case errors.Is(err, ErrSessionExpired):
		return NewAppError(http.StatusGone, CodeSessionExpired,
			"Your verification session expired. Please restart verification.", err)
	case errors.Is(err, ErrSessionAlreadyCompleted):
		return NewAppError(http.StatusConflict, CodeSessionAlreadyCompleted,
			"This verification link was already used. Start a new verification to check again.", err)
	case errors.Is(err, ErrInvalidSignature):
		return NewAppError(http.StatusUnauthorized, CodeInvalidSignature,
			"The signature did not match your wallet. Please restart verification and sign the exact message.", err)
	case errors.Is(err, ErrWalletMismatch):
		return NewAppError(http.StatusBadRequest, CodeWalletMismatch,
			"This session is bound to a different wallet. Sign with the wallet you started with.", err)
	case errors.Is(err, ErrSourceUnavailable):
		return NewAppError(http.StatusServiceUnavailable, CodeSourceUnavailable,
			"We could not reach the NFT indexers right now. Please try again in a few minutes.", err)
	case errors.Is(err, ErrSchedulerBusy):
		return NewAppError(http.StatusConflict, CodeSchedulerBusy,
			"A re-verification cycle is already running.", err)
	case errors.Is(err, ErrNotFound):
		return NotFound("resource not found")
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadRequest):
		return BadRequest(err.Error())
	}
	return InternalError(err)
}
