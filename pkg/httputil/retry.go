package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// maxRetryAfter caps a server-requested wait so a bad header cannot stall
// the CLI.
const maxRetryAfter = 30 * time.Second

// RetryableError marks a transient failure: a network error, a 5xx or a
// 429 from the spreadsheet host. After is the wait the server asked for in
// Retry-After, zero if none.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// retryAfter wraps err as retryable and records the Retry-After header of
// resp, given either in seconds or as an HTTP date.
func retryAfter(err error, resp *http.Response, now time.Time) error {
	re := &RetryableError{Err: err}
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return re
	}
	if secs, perr := strconv.Atoi(v); perr == nil && secs > 0 {
		re.After = time.Duration(secs) * time.Second
	} else if at, perr := http.ParseTime(v); perr == nil && at.After(now) {
		re.After = at.Sub(now)
	}
	re.After = min(re.After, maxRetryAfter)
	return re
}

// Retry calls fn up to attempts times. Only a [RetryableError] is retried;
// the wait doubles after each attempt and is stretched to the error's After
// when the server asked for longer. It returns the last error, or ctx.Err()
// if ctx ends while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := max(delay, re.After)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return err
}

// RetryWithBackoff is [Retry] with 3 attempts starting at one second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// IsRetryable reports whether err wraps a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
