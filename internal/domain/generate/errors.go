package generate

import "errors"

var (
	// ErrInvalidPrompt indicates the prompt itself was rejected as malformed.
	// Caller error; never retried.
	ErrInvalidPrompt = errors.New("invalid prompt")
	// ErrUnavailable indicates a transient upstream failure. Retryable.
	ErrUnavailable = errors.New("generation upstream unavailable")
	// ErrRejected indicates the upstream refused the request, e.g. a content
	// policy violation. Never retried.
	ErrRejected = errors.New("generation rejected by upstream")
	// ErrTimeout indicates the attempt exceeded its deadline. Retryable up to
	// the bounded attempt count.
	ErrTimeout = errors.New("generation timed out")
)

// Retryable reports whether err is worth another attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout)
}
