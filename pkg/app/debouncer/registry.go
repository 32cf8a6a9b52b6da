package debouncer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
)

// Callback delivers one accumulated batch. It is invoked at most once per bucket.
type Callback func(ctx context.Context, groupingKey string, memberEventIDs []string) error

type Option func(*Policy)

// WithTimeZoneSource resolves the zone of a scheduled hour policy per grouping
// key, for example from a user preference. An empty or unknown zone falls
// back to the policy default.
func WithTimeZoneSource(source func(groupingKey string) string) Option {
	return func(p *Policy) {
		p.timeZoneSource = source
	}
}

// WithMaxWait caps how long a bucket may accumulate after its first event.
// The cap is kept in whole minutes; a partial minute rounds up.
func WithMaxWait(d time.Duration) Option {
	return func(p *Policy) {
		if d <= 0 {
			p.Timing.MaxWaitMinutes = 0
			return
		}
		p.Timing.MaxWaitMinutes = int((d + time.Minute - 1) / time.Minute)
	}
}

type Policy struct {
	Name     string
	Timing   bucket.Timing
	Callback Callback

	timeZoneSource func(groupingKey string) string
}

type PolicyInfo struct {
	Name   string        `json:"name"`
	Timing bucket.Timing `json:"timing"`
	Rule   string        `json:"rule"`
}

// timingFor returns the timing applied to a new bucket of groupingKey.
func (p *Policy) timingFor(groupingKey string) bucket.Timing {
	t := p.Timing
	if t.Kind != bucket.KindScheduledHour || p.timeZoneSource == nil {
		return t
	}
	tz := p.timeZoneSource(groupingKey)
	if tz == "" {
		return t
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return t
	}
	t.TimeZone = tz
	return t
}

// Registry holds the policies of a process. It is built once at startup and
// passed to the debouncer.
type Registry struct {
	mu       sync.RWMutex
	policies map[string]*Policy
}

func NewRegistry() *Registry {
	return &Registry{
		policies: make(map[string]*Policy),
	}
}

func (r *Registry) Register(name string, timing bucket.Timing, callback Callback, opts ...Option) error {
	if name == "" {
		return fmt.Errorf("%w: policy name is required", ErrConfiguration)
	}
	if callback == nil {
		return fmt.Errorf("%w: policy %q has no callback", ErrConfiguration, name)
	}
	p := &Policy{Name: name, Timing: timing, Callback: callback}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.Timing.Validate(); err != nil {
		return invalidTiming(name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.policies[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePolicy, name)
	}
	r.policies[name] = p
	return nil
}

// MustRegister panics on error. Meant for wiring code at startup.
func (r *Registry) MustRegister(name string, timing bucket.Timing, callback Callback, opts ...Option) {
	if err := r.Register(name, timing, callback, opts...); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (*Policy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.policies[name]
	return p, ok
}

// Names returns the registered policy names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Policies() []PolicyInfo {
	names := r.Names()
	out := make([]PolicyInfo, 0, len(names))
	for _, name := range names {
		p, ok := r.Lookup(name)
		if !ok {
			continue
		}
		out = append(out, PolicyInfo{Name: p.Name, Timing: p.Timing, Rule: p.Timing.String()})
	}
	return out
}
