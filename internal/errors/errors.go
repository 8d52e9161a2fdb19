// Package errors defines the application error codes and their HTTP mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeMissingAuthorizationCode indicates a provider callback arrived without a code.
	ErrCodeMissingAuthorizationCode ErrorCode = "missing_authorization_code"
	// ErrCodeMissingProviderCredentials indicates the server has no client id or secret for a provider.
	ErrCodeMissingProviderCredentials ErrorCode = "missing_provider_credentials"
	// ErrCodeInvalidState indicates the callback state could not be matched to a pending login.
	ErrCodeInvalidState ErrorCode = "invalid_state"
	// ErrCodeTokenExchangeFailed indicates the provider rejected the code exchange.
	ErrCodeTokenExchangeFailed ErrorCode = "token_exchange_failed"
	// ErrCodeProfileFetchFailed indicates the provider profile could not be read or was incomplete.
	ErrCodeProfileFetchFailed ErrorCode = "profile_fetch_failed"
	// ErrCodeInvalidCredentials indicates a manual login did not match. It never says which part was wrong.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeUnknownProvider indicates a provider name outside the supported set.
	ErrCodeUnknownProvider ErrorCode = "unknown_provider"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
)

// publicMessages are safe to show to end users; provider details never leave the server.
//
//nolint:gochecknoglobals // static read-only lookup
var publicMessages = map[ErrorCode]string{
	ErrCodeMissingAuthorizationCode:   "Missing authorization code",
	ErrCodeMissingProviderCredentials: "Login provider is not configured",
	ErrCodeInvalidState:               "Login request expired or was not started here, please try again",
	ErrCodeTokenExchangeFailed:        "Could not complete login with the provider, please try again",
	ErrCodeProfileFetchFailed:         "Could not read your profile from the provider, please try again",
	ErrCodeInvalidCredentials:         "Invalid username or password",
	ErrCodeUnknownProvider:            "Unknown login provider",
	ErrCodeNotFound:                   "Not found",
	ErrCodeValidation:                 "Invalid request",
	ErrCodeInternal:                   "Internal server error",
}

// AppError is an error with a code. The message may be logged; PublicMessage is what users see.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the offending setting or input, when there is one.
	Field string
	// Status overrides the HTTP status derived from Code.
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithStatus sets an explicit HTTP status and returns the same error.
func (e *AppError) WithStatus(status int) *AppError {
	e.Status = status
	return e
}

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// MissingAuthorizationCode reports a callback without a code.
func MissingAuthorizationCode(provider string) *AppError {
	return New(ErrCodeMissingAuthorizationCode, provider+": missing authorization code")
}

// MissingProviderCredentials reports that the named setting is unset for provider.
func MissingProviderCredentials(provider, setting string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingProviderCredentials,
		Message: provider + ": provider credentials are not configured",
		Field:   setting,
	}
}

// InvalidState reports a state that could not be matched.
func InvalidState(reason string) *AppError {
	return New(ErrCodeInvalidState, "invalid login state: "+reason)
}

// InvalidCredentials is the single generic failure for manual logins.
func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, publicMessages[ErrCodeInvalidCredentials])
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool {
	return isCode(err, ErrCodeInvalidCredentials)
}

// IsInvalidState checks if an error is an InvalidState error.
func IsInvalidState(err error) bool {
	return isCode(err, ErrCodeInvalidState)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// HTTPStatus maps an error to the status the HTTP layer should answer with.
// Errors that are not AppErrors are internal.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	if appErr.Status != 0 {
		return appErr.Status
	}
	switch appErr.Code {
	case ErrCodeMissingAuthorizationCode, ErrCodeInvalidState, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeNotFound, ErrCodeUnknownProvider:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the end-user text for err. It never includes the cause.
func PublicMessage(err error) string {
	if msg, ok := publicMessages[GetCode(err)]; ok {
		return msg
	}
	return publicMessages[ErrCodeInternal]
}
