package adventure

import "time"

// RetryOption configures a retry adapter.
type RetryOption func(*retryConfig)

// PaginateOption configures a paginator.
type PaginateOption func(*paginateConfig)

type retryConfig struct {
	policy  BackoffPolicy
	decide  func(err error) bool
	logger  Logger
	metrics *MetricsCollector
}

func newRetryConfig(opts ...RetryOption) *retryConfig {
	cfg := &retryConfig{
		policy: NewExponentialPolicy(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

type paginateConfig struct {
	logger  Logger
	metrics *MetricsCollector
}

func newPaginateConfig(opts ...PaginateOption) *paginateConfig {
	cfg := &paginateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithBackoffPolicy replaces the default exponential policy. The supplied
// policy acts as a prototype: the adapter derives a fresh instance per send.
func WithBackoffPolicy(policy BackoffPolicy) RetryOption {
	return func(cfg *retryConfig) {
		cfg.policy = policy
	}
}

// WithInitialInterval sets the first backoff interval.
func WithInitialInterval(d time.Duration) RetryOption {
	return func(cfg *retryConfig) {
		cfg.exponential().InitialInterval = d
	}
}

// WithMultiplier sets the backoff growth factor.
func WithMultiplier(f float64) RetryOption {
	return func(cfg *retryConfig) {
		cfg.exponential().Multiplier = f
	}
}

// WithRandomizationFactor sets the jitter spread (0.0 to 1.0).
func WithRandomizationFactor(f float64) RetryOption {
	return func(cfg *retryConfig) {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		cfg.exponential().RandomizationFactor = f
	}
}

// WithMaxInterval caps the backoff interval.
func WithMaxInterval(d time.Duration) RetryOption {
	return func(cfg *retryConfig) {
		cfg.exponential().MaxInterval = d
	}
}

// WithMaxElapsedTime bounds the total duration of one retry sequence.
// Zero removes the bound.
func WithMaxElapsedTime(d time.Duration) RetryOption {
	return func(cfg *retryConfig) {
		cfg.exponential().MaxElapsedTime = d
	}
}

// WithMaxAttempts bounds the number of sends per retry sequence, counting the
// initial one. Zero removes the bound.
func WithMaxAttempts(n int) RetryOption {
	return func(cfg *retryConfig) {
		cfg.exponential().MaxAttempts = n
	}
}

// exponential returns the configured policy as an *ExponentialPolicy so the
// interval options can adjust it, installing a default one if a custom policy
// of another type is in place.
func (cfg *retryConfig) exponential() *ExponentialPolicy {
	if p, ok := cfg.policy.(*ExponentialPolicy); ok {
		return p
	}
	p := NewExponentialPolicy()
	cfg.policy = p
	return p
}

// WithRetryDecision installs an explicit retryability predicate. It takes
// priority over the wrapped request's own RetriableRequest implementation.
func WithRetryDecision(fn func(err error) bool) RetryOption {
	return func(cfg *retryConfig) {
		cfg.decide = fn
	}
}

// WithRetryLogger enables debug logging for the retry adapter.
func WithRetryLogger(logger Logger) RetryOption {
	return func(cfg *retryConfig) {
		cfg.logger = logger
	}
}

// WithMetricsCollector records retry metrics to the given collector.
func WithMetricsCollector(mc *MetricsCollector) RetryOption {
	return func(cfg *retryConfig) {
		cfg.metrics = mc
	}
}

// WithPageLogger enables debug logging for a paginator.
func WithPageLogger(logger Logger) PaginateOption {
	return func(cfg *paginateConfig) {
		cfg.logger = logger
	}
}

// WithPageMetrics records pagination metrics to the given collector.
func WithPageMetrics(mc *MetricsCollector) PaginateOption {
	return func(cfg *paginateConfig) {
		cfg.metrics = mc
	}
}
