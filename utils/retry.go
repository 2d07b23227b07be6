package utils

import (
	"fmt"
	"time"
)

// Retry runs fn up to attempts times, waiting backoff, 2*backoff,
// 4*backoff... between failures. attempts == 1 means a single try with
// no waiting. Returns nil on the first success, otherwise the last error
// after all attempts are exhausted.
func Retry(attempts int, backoff time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt < attempts && backoff > 0 {
			time.Sleep(backoff << uint(attempt-1))
		}
	}

	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
