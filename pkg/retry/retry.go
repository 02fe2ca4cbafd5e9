// Package retry polls an operation until its result satisfies a predicate.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrExhausted is returned when every attempt produced a result that did not
// satisfy the predicate.
var ErrExhausted = errors.New("retry attempts exhausted")

var errNotReady = errors.New("result not ready")

// Policy bounds the number of attempts and the delay between them. The delay
// starts at InitialDelay and grows by Multiplier up to MaxDelay.
type Policy struct {
	MaxAttempts  uint
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  5,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     4 * time.Second,
		Multiplier:   2,
	}
}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0

	return b
}

// Until calls fn until ready reports true for its result. An error from fn
// stops the loop and is returned as is.
func Until[T any](ctx context.Context, policy Policy, fn func(ctx context.Context) (T, error), ready func(T) bool) (T, error) {
	attempts := policy.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	operation := func() (T, error) {
		result, err := fn(ctx)
		if err != nil {
			return result, backoff.Permanent(err)
		}

		if !ready(result) {
			return result, errNotReady
		}

		return result, nil
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy.backOff()),
		backoff.WithMaxTries(attempts),
	)
	if errors.Is(err, errNotReady) {
		return result, fmt.Errorf("%w after %d attempts", ErrExhausted, attempts)
	}

	return result, err
}
