package adventure

import (
	"time"

	backoff "github.com/cenkalti/backoff/v5"
)

// Stop is returned by a BackoffPolicy to signal that the retry adapter should
// give up instead of waiting again.
const Stop = backoff.Stop

// DefaultMaxElapsedTime bounds a default retry sequence's total duration.
const DefaultMaxElapsedTime = 15 * time.Minute

// BackoffPolicy produces successive wait durations for repeated failures.
// NextBackOff advances the policy's state and returns either the next wait
// interval or Stop. A policy never sleeps itself; the retry adapter owns the
// timer.
//
// Policy state is owned by exactly one retry sequence. Derive returns a fresh
// instance with the same configuration and reset counters; the retry adapter
// derives one per send so that independent sequences never share state.
type BackoffPolicy interface {
	NextBackOff() time.Duration
	Derive() BackoffPolicy
}

// ExponentialPolicy is a jittered exponential backoff built on
// cenkalti/backoff, with give-up bounds on elapsed time and attempt count.
// Intervals grow from InitialInterval by Multiplier per failure, are spread by
// RandomizationFactor to avoid synchronized retry storms, and are capped at
// MaxInterval.
//
// The zero value is not usable; construct with NewExponentialPolicy and adjust
// fields before the first NextBackOff call.
type ExponentialPolicy struct {
	InitialInterval     time.Duration
	RandomizationFactor float64
	Multiplier          float64
	MaxInterval         time.Duration

	// MaxElapsedTime stops the policy once the retry sequence has run this
	// long, counting from the first NextBackOff call. Zero means no bound.
	MaxElapsedTime time.Duration

	// MaxAttempts stops the policy after this many sends in total, counting
	// the initial one. Zero means no bound. With MaxAttempts = N the policy
	// returns N-1 intervals and then Stop, so the adapter issues exactly N
	// sends.
	MaxAttempts int

	inner    *backoff.ExponentialBackOff
	attempts int
	deadline time.Time
}

// NewExponentialPolicy returns a policy with the standard
// exponential-backoff-with-jitter presets: 500ms initial interval, 1.5
// multiplier, 0.5 randomization factor, 60s interval cap, and a 15 minute
// elapsed-time bound.
func NewExponentialPolicy() *ExponentialPolicy {
	return &ExponentialPolicy{
		InitialInterval:     backoff.DefaultInitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         backoff.DefaultMaxInterval,
		MaxElapsedTime:      DefaultMaxElapsedTime,
	}
}

// NextBackOff implements the BackoffPolicy interface. The first call arms the
// underlying backoff and the elapsed-time deadline.
func (p *ExponentialPolicy) NextBackOff() time.Duration {
	if p.inner == nil {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = p.InitialInterval
		bo.RandomizationFactor = p.RandomizationFactor
		bo.Multiplier = p.Multiplier
		bo.MaxInterval = p.MaxInterval
		bo.Reset()
		p.inner = bo
		if p.MaxElapsedTime > 0 {
			p.deadline = time.Now().Add(p.MaxElapsedTime)
		}
	}

	if p.MaxAttempts > 0 && p.attempts >= p.MaxAttempts-1 {
		return Stop
	}

	next := p.inner.NextBackOff()
	if !p.deadline.IsZero() && time.Now().Add(next).After(p.deadline) {
		return Stop
	}

	p.attempts++
	return next
}

// Derive implements the BackoffPolicy interface, copying configuration only.
func (p *ExponentialPolicy) Derive() BackoffPolicy {
	return &ExponentialPolicy{
		InitialInterval:     p.InitialInterval,
		RandomizationFactor: p.RandomizationFactor,
		Multiplier:          p.Multiplier,
		MaxInterval:         p.MaxInterval,
		MaxElapsedTime:      p.MaxElapsedTime,
		MaxAttempts:         p.MaxAttempts,
	}
}

// ConstantPolicy waits a fixed Interval between attempts, with an optional
// attempt bound. Mostly useful in tests and for callers that want the retry
// loop without exponential growth.
type ConstantPolicy struct {
	Interval    time.Duration
	MaxAttempts int

	attempts int
}

// NextBackOff implements the BackoffPolicy interface.
func (p *ConstantPolicy) NextBackOff() time.Duration {
	if p.MaxAttempts > 0 && p.attempts >= p.MaxAttempts-1 {
		return Stop
	}
	p.attempts++
	return p.Interval
}

// Derive implements the BackoffPolicy interface.
func (p *ConstantPolicy) Derive() BackoffPolicy {
	return &ConstantPolicy{Interval: p.Interval, MaxAttempts: p.MaxAttempts}
}
