package store

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Backends wrap transient failures (timeouts, dropped connections) with
// this type.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. Returns the last error if all attempts fail, or
// ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// retrying retries the retryable failures of a network backend.
type retrying struct {
	Store
	attempts int
	delay    time.Duration
}

// WithRetry wraps s so every operation is retried up to attempts times,
// starting at delay and doubling.
func WithRetry(s Store, attempts int, delay time.Duration) Store {
	return &retrying{Store: s, attempts: attempts, delay: delay}
}

func (r *retrying) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := Retry(ctx, r.attempts, r.delay, func() error {
		var err error
		data, err = r.Store.Load(ctx, key)
		return err
	})
	return data, err
}

func (r *retrying) Save(ctx context.Context, key string, data []byte) error {
	return Retry(ctx, r.attempts, r.delay, func() error {
		return r.Store.Save(ctx, key, data)
	})
}

func (r *retrying) Delete(ctx context.Context, key string) error {
	return Retry(ctx, r.attempts, r.delay, func() error {
		return r.Store.Delete(ctx, key)
	})
}

func (r *retrying) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := Retry(ctx, r.attempts, r.delay, func() error {
		var err error
		keys, err = r.Store.List(ctx)
		return err
	})
	return keys, err
}
