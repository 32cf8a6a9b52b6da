package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/infra/prometheus"
)

const (
	ReasonCount = "count"
	ReasonBytes = "bytes"

	decisionAdmitted = "admitted"
	decisionRejected = "rejected"

	bytesPerKilobyte = 1024
)

var ErrInvalidConfig = errors.New("invalid rate limit config")

type Config struct {
	BurstEvents            int           `mapstructure:"burst_events"`
	BurstKilobytes         int           `mapstructure:"burst_kilobytes"`
	EventsPerSecond        float64       `mapstructure:"events_per_second"`
	KilobytesPerSecond     float64       `mapstructure:"kilobytes_per_second"`
	ExceededNotifyInterval time.Duration `mapstructure:"exceeded_notify_interval"`
}

func DefaultConfig() Config {
	return Config{
		BurstEvents:            100,
		BurstKilobytes:         500,
		EventsPerSecond:        10,
		KilobytesPerSecond:     50,
		ExceededNotifyInterval: time.Minute,
	}
}

func (c Config) Validate() error {
	if c.BurstEvents <= 0 || c.BurstKilobytes <= 0 {
		return fmt.Errorf("%w: burst values must be positive", ErrInvalidConfig)
	}
	if c.EventsPerSecond <= 0 || c.KilobytesPerSecond <= 0 {
		return fmt.Errorf("%w: steady state rates must be positive", ErrInvalidConfig)
	}
	return nil
}

type Decision struct {
	Admitted bool
	// Reason names the bucket that rejected the event.
	Reason string
	// Signalled is true when this rejection raised the limit exceeded signal.
	Signalled bool
}

// ExceededFunc receives the throttled limit exceeded signal of an event type.
type ExceededFunc func(eventType, reason string)

type LimiterOpts struct {
	TimeProvider func() time.Time
	OnExceeded   ExceededFunc
}

type typeState struct {
	mu       sync.Mutex
	count    *TokenBucket
	bytes    *TokenBucket
	throttle *signalThrottle
}

// Limiter admits events per event type when both the count bucket and the
// byte bucket of that type have enough tokens.
type Limiter struct {
	cfg          Config
	timeProvider func() time.Time
	onExceeded   ExceededFunc

	mu    sync.RWMutex
	types map[string]*typeState
}

func NewLimiter(cfg Config, opts *LimiterOpts) *Limiter {
	l := &Limiter{
		cfg:          cfg,
		timeProvider: time.Now,
		types:        make(map[string]*typeState),
	}
	if opts != nil {
		if opts.TimeProvider != nil {
			l.timeProvider = opts.TimeProvider
		}
		l.onExceeded = opts.OnExceeded
	}
	return l
}

// Admit never blocks and never fails: a rejected event is simply dropped by
// the caller.
func (l *Limiter) Admit(eventType string, sizeBytes int) Decision {
	state := l.state(eventType)

	state.mu.Lock()
	now := l.timeProvider()
	state.count.AdvanceTime(now)
	state.bytes.AdvanceTime(now)

	var decision Decision
	switch {
	case !state.count.CanConsume(1):
		decision.Reason = ReasonCount
	case !state.bytes.CanConsume(sizeBytes):
		decision.Reason = ReasonBytes
	default:
		state.count.Consume(1)
		state.bytes.Consume(sizeBytes)
		decision.Admitted = true
	}
	if !decision.Admitted {
		decision.Signalled = state.throttle.allow(now)
	}
	state.mu.Unlock()

	if decision.Admitted {
		prometheus.RateLimitDecisions.WithLabelValues(eventType, decisionAdmitted).Inc()
		return decision
	}
	prometheus.RateLimitDecisions.WithLabelValues(eventType, decisionRejected).Inc()
	if decision.Signalled {
		prometheus.RateLimitExceededSignals.WithLabelValues(eventType).Inc()
		if l.onExceeded != nil {
			l.onExceeded(eventType, decision.Reason)
		}
	}
	return decision
}

// Available reports the remaining event and byte tokens of a type.
func (l *Limiter) Available(eventType string) (events float64, bytes float64) {
	state := l.state(eventType)
	state.mu.Lock()
	defer state.mu.Unlock()
	now := l.timeProvider()
	state.count.AdvanceTime(now)
	state.bytes.AdvanceTime(now)
	return state.count.Available(), state.bytes.Available()
}

func (l *Limiter) state(eventType string) *typeState {
	l.mu.RLock()
	state, ok := l.types[eventType]
	l.mu.RUnlock()
	if ok {
		return state
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if state, ok = l.types[eventType]; ok {
		return state
	}
	now := l.timeProvider()
	state = &typeState{
		count: NewTokenBucket(l.cfg.BurstEvents, l.cfg.EventsPerSecond, now),
		bytes: NewTokenBucket(
			l.cfg.BurstKilobytes*bytesPerKilobyte,
			l.cfg.KilobytesPerSecond*bytesPerKilobyte,
			now,
		),
		throttle: newSignalThrottle(l.cfg.ExceededNotifyInterval),
	}
	l.types[eventType] = state
	return state
}
