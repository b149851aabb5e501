package webhook

import (
	"errors"
	"net/http"
)

var (
	ErrMalformedBody    = errors.New("malformed webhook body")
	ErrUnknownEventKind = errors.New("unknown event kind")
	ErrBodyTooLarge     = errors.New("webhook body too large")
	ErrIPNotAllowed     = errors.New("source address not allowed")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrResolve          = errors.New("failed to resolve subscribers")
)

// statusFor maps a request error to the HTTP status returned to the forge.
func statusFor(err error) int {
	var authErr *AuthError
	switch {
	case errors.As(err, &authErr):
		switch authErr.Reason {
		case ReasonMissingSignature:
			return http.StatusUnauthorized
		case ReasonUnsupportedDigest:
			return http.StatusNotImplemented
		default:
			return http.StatusForbidden
		}
	case errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrIPNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
