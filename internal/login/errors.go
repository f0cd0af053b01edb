package login

import "errors"

var (
	// ErrAuthRejected is returned when the token endpoint answers with a non-2xx status
	ErrAuthRejected = errors.New("authentication rejected")

	// ErrMalformedResponse is returned when a 2xx body is not a JSON object
	// carrying a non-empty access_token
	ErrMalformedResponse = errors.New("malformed token response")

	// ErrTransport is returned when the request could not be completed
	ErrTransport = errors.New("token endpoint unreachable")

	// ErrStorage is returned when an issued token could not be persisted
	ErrStorage = errors.New("failed to persist access token")
)

// Outcome classifies a submission error for logging and metrics
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrAuthRejected):
		return "rejected"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return "transport"
	}
}
