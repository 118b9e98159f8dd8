// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrDuplicateAction   = errors.New("duplicate action")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenExpired      = errors.New("token expired")
	ErrInsufficientDrops = errors.New("insufficient water drops")
	ErrPlantNotReady     = errors.New("plant not fully grown")
)

// AppError is an error that already knows how it should be rendered to
// the client.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "VALIDATION_ERROR")
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Unauthorized"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(resource string) *AppError {
	message := "Not found"
	if resource != "" {
		message = resource + " not found"
	}
	return NewAppError(ErrNotFound, message, http.StatusNotFound, "NOT_FOUND")
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrDuplicateKey, message, http.StatusConflict, "CONFLICT")
}

func DuplicateActionError(message string) *AppError {
	return NewAppError(ErrDuplicateAction, message, http.StatusBadRequest, "DUPLICATE_ACTION")
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "Session expired", http.StatusUnauthorized, "TOKEN_EXPIRED")
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "Invalid token", http.StatusUnauthorized, "TOKEN_INVALID")
}

// StatusFor maps a domain error onto the AppError it should render as.
// Unknown errors come back nil so the caller can treat them as internal.
func StatusFor(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError("")
	case errors.Is(err, ErrDuplicateKey):
		return ConflictError("Already exists")
	case errors.Is(err, ErrDuplicateAction):
		return DuplicateActionError("Already done")
	case errors.Is(err, ErrInvalidInput):
		return ValidationError("Invalid input")
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrInsufficientDrops):
		return NewAppError(err, "Not enough water drops", http.StatusBadRequest, "INSUFFICIENT_DROPS")
	case errors.Is(err, ErrPlantNotReady):
		return NewAppError(err, "Plant is not fully grown yet", http.StatusBadRequest, "PLANT_NOT_READY")
	}

	return nil
}
