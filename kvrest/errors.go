package kvrest

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/kbukum/kvrest/errors"
	"github.com/kbukum/kvrest/httpclient"
)

// StatusError is returned when the service answers with any status other
// than 200 or 201.
type StatusError struct {
	StatusCode int
	// Body is the raw response body, often a plain-text reason.
	Body     []byte
	Method   string
	Endpoint string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("kvrest: %s %s: HTTP %d", e.Method, e.Endpoint, e.StatusCode)
	if len(e.Body) > 0 {
		msg += ": " + truncate(e.Body, 256)
	}
	return msg
}

// AsStatusError unwraps err to a *StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	se, ok := AsStatusError(err)
	return ok && se.StatusCode == code
}

// IsNotFound reports a 404 from the service.
func IsNotFound(err error) bool { return IsStatus(err, http.StatusNotFound) }

// IsUnauthorized reports a 401 or 403 from the service.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden)
}

// IsConflict reports a 409 from the service.
func IsConflict(err error) bool { return IsStatus(err, http.StatusConflict) }

// ToAppError maps any error returned by this package onto an AppError with a
// machine-readable code. Input errors are returned unchanged.
func ToAppError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	if se, ok := AsStatusError(err); ok {
		var appErr *apperrors.AppError
		switch {
		case se.StatusCode == http.StatusNotFound:
			appErr = apperrors.NotFound("resource", se.Endpoint)
		case se.StatusCode == http.StatusConflict:
			appErr = apperrors.AlreadyExists("resource")
		case se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden:
			appErr = apperrors.Unauthorized(string(se.Body))
		default:
			appErr = apperrors.ExternalServiceError("kvrest", se.StatusCode, nil)
		}
		return appErr.WithCause(err).WithDetail("body", string(se.Body))
	}

	var de *DecodeError
	if errors.As(err, &de) {
		return apperrors.Undecodable(de.Raw, err)
	}
	if errors.Is(err, ErrEmptyResult) {
		return apperrors.Undecodable(nil, err)
	}

	switch {
	case httpclient.IsCanceled(err):
		return apperrors.Canceled("kvrest request", err)
	case httpclient.IsTimeout(err):
		return apperrors.Timeout("kvrest request", err)
	case httpclient.IsConnection(err):
		return apperrors.ConnectionFailed("kvrest", err)
	}
	return apperrors.Internal(err)
}
