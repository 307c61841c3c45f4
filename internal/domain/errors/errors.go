// Package errors defines the application's error taxonomy. Each predefined
// error carries a stable business code for callers that map errors onto
// user-facing messaging, plus a Spanish default message matching the UI locale.
package errors

import (
	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	errorCode string
	message   string
}

// NewBaseError creates a new base error
func NewBaseError(errorCode, message string) *BaseError {
	return &BaseError{
		errorCode: errorCode,
		message:   message,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Predefined error types
var (
	// Transport/availability errors. Non-fatal: they trigger the local
	// fallback paths and are never surfaced as a crash.
	ErrConnection = NewBaseError(
		"REMOTE_UNREACHABLE",
		"No hay conexión con el servidor",
	)

	ErrRemoteWrite = NewBaseError(
		"REMOTE_WRITE_FAILED",
		"El registro se guardó localmente pero no se pudo sincronizar",
	)

	// Identity errors that represent a real authorization decision. These
	// propagate to the caller and never trigger the local fallback.
	ErrInvalidCredentials = NewBaseError(
		"INVALID_CREDENTIALS",
		"Correo o contraseña incorrectos",
	)

	ErrEmailAlreadyInUse = NewBaseError(
		"EMAIL_ALREADY_IN_USE",
		"Este correo ya está registrado",
	)

	ErrWeakPassword = NewBaseError(
		"WEAK_PASSWORD",
		"La contraseña es demasiado débil",
	)

	// ErrGoogleAuthUnavailable covers the authorization/configuration failure
	// class of Google sign-in (e.g. domain not permitted). Callers may retry
	// through the manual-identity fallback path.
	ErrGoogleAuthUnavailable = NewBaseError(
		"GOOGLE_AUTH_UNAVAILABLE",
		"El inicio de sesión con Google no está disponible",
	)

	// ErrProfileNotFound is internal: a missing profile document is always
	// auto-repaired and never surfaced to callers.
	ErrProfileNotFound = NewBaseError(
		"PROFILE_NOT_FOUND",
		"No se encontró el perfil del usuario",
	)

	ErrUserNotFound = NewBaseError(
		"USER_NOT_FOUND",
		"No se encontró el usuario",
	)

	ErrLastActiveUser = NewBaseError(
		"LAST_ACTIVE_USER",
		"Debe haber al menos un usuario activo",
	)

	ErrValidationFailed = NewBaseError(
		"VALIDATION_FAILED",
		"Los datos introducidos no son válidos",
	)
)
