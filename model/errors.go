package model

import (
	"errors"
	"net/http"
)

// sentinel errors used across services
// the error text doubles as the API error code, so keep them stable
var (
	ErrMissingCredentials = errors.New("MISSING_CREDENTIALS")
	ErrUserNotFound       = errors.New("USER_NOT_FOUND")
	ErrRateLimited        = errors.New("RATE_LIMIT_REACHED")
	ErrForbidden          = errors.New("FORBIDDEN")
	ErrUpstream           = errors.New("UPSTREAM_ERROR")
	ErrEmptyModelResponse = errors.New("EMPTY_MODEL_RESPONSE")
	ErrModelResponseParse = errors.New("MODEL_RESPONSE_PARSE")
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAPIError converts an internal error to the response body returned to clients
func NewAPIError(errReason error) APIError {
	switch {
	case errors.Is(errReason, ErrUserNotFound):
		return APIError{
			Code:    ErrUserNotFound.Error(),
			Message: "github user not found. check the username and try again",
		}

	case errors.Is(errReason, ErrRateLimited):
		return APIError{
			Code:    ErrRateLimited.Error(),
			Message: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again",
		}

	case errors.Is(errReason, ErrForbidden):
		return APIError{
			Code:    ErrForbidden.Error(),
			Message: "github refused the request. check the token permissions",
		}

	case errors.Is(errReason, ErrUpstream):
		return APIError{
			Code:    ErrUpstream.Error(),
			Message: "unable to fetch data from github. wait few minutes and try again",
		}

	default:
		return APIError{
			Code:    "GENERIC_ERROR",
			Message: "internal server error. contact our support with the reason code for assistance",
		}
	}
}

// HTTPStatusForError picks the response status for an analysis failure
func HTTPStatusForError(errReason error) int {
	switch {
	case errors.Is(errReason, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(errReason, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(errReason, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(errReason, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
