package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// Breaker fails fast while the wrapped translator keeps failing
type Breaker struct {
	next Translator
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next. Three consecutive failures open the circuit for
// thirty seconds.
func NewBreaker(next Translator) *Breaker {
	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(breakerSettings(next.Name())),
	}
}

func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: serviceHealthy,
	}
}

// abandonedError is a failure of a call whose caller went away first
type abandonedError struct {
	err error
}

func (e *abandonedError) Error() string { return e.err.Error() }
func (e *abandonedError) Unwrap() error { return e.err }

// callerErr marks err as abandoned when ctx ended, so that it does not
// count against the service
func callerErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return &abandonedError{err: err}
	}
	return err
}

// serviceHealthy reports whether err leaves the service's health
// untouched. A caller giving up says nothing about the service; a client
// timeout does.
func serviceHealthy(err error) bool {
	var abandoned *abandonedError
	return err == nil || errors.As(err, &abandoned)
}

// Name returns the wrapped provider name
func (b *Breaker) Name() string {
	return b.next.Name()
}

// State returns the circuit state
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Translate forwards to the wrapped translator unless the circuit is open
func (b *Breaker) Translate(ctx context.Context, text, from, to string) Result {
	out, err := b.cb.Execute(func() (interface{}, error) {
		r := b.next.Translate(ctx, text, from, to)
		if r.Err != nil {
			return nil, callerErr(ctx, r.Err)
		}
		return r.Text, nil
	})
	if err != nil {
		return Failed(fmt.Errorf("%s: %w", b.next.Name(), err))
	}
	return Result{Text: out.(string)}
}
