package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrFlanNotFound is returned when a flan does not exist or is hidden from the caller.
	ErrFlanNotFound = errors.New("flan not found")
	// ErrSlugTaken is returned when another flan already uses the slug.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrInvalidSlug is returned when a slug is empty or has characters outside [a-z0-9_-].
	ErrInvalidSlug = errors.New("invalid slug")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("a user with that username already exists")
	// ErrPasswordTooLong is returned when a password exceeds what bcrypt can hash.
	ErrPasswordTooLong = errors.New("password is too long")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidSession is returned when a session token is invalid, expired or revoked.
	ErrInvalidSession = errors.New("invalid or expired session")
	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidPrice is returned when a price is negative or not a number.
	ErrInvalidPrice = errors.New("invalid price")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrFlanNotFound):
		return NewHTTPError(http.StatusNotFound, ErrFlanNotFound.Error(), "FLAN_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrSlugTaken):
		return NewHTTPError(http.StatusConflict, ErrSlugTaken.Error(), "SLUG_TAKEN")
	case errors.Is(err, ErrInvalidSlug):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidSlug.Error(), "INVALID_SLUG")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, ErrUsernameTaken.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrPasswordTooLong):
		return NewHTTPError(http.StatusBadRequest, ErrPasswordTooLong.Error(), "PASSWORD_TOO_LONG")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidSession):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidSession.Error(), "INVALID_SESSION")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidPrice):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidPrice.Error(), "INVALID_PRICE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
