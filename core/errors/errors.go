package errors

import "fmt"

type ErrorCode string

const (
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Calendar sync codes
	ErrCalendarNotConnected ErrorCode = "CALENDAR_NOT_CONNECTED"
	ErrGoogleAuth           ErrorCode = "GOOGLE_AUTH_ERROR"
	ErrSyncInProgress       ErrorCode = "SYNC_IN_PROGRESS"
	ErrExternalAPI          ErrorCode = "EXTERNAL_API_ERROR"
)

// AppError is the application-wide error type. Code drives the HTTP mapping
// in the base controller, Err keeps the underlying cause for logging.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is an *AppError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	if ae, ok := err.(*AppError); ok {
		return ae.Code == code
	}
	return false
}
