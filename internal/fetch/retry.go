package fetch

import (
	"errors"
	"math/rand/v2"
	"time"
)

// MaxRetries is the default number of attempts for transient failures.
const MaxRetries = 3

// transientError marks failures worth retrying: network errors and 5xx
// responses from government servers that shed load during budget week.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}
