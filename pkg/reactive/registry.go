package reactive

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Mode selects which subscribers a write runs.
type Mode uint8

const (
	// ModeBroadcast runs every subscriber on every write.
	ModeBroadcast Mode = iota

	// ModeFiltered runs only subscribers whose path equals the written path,
	// is a prefix of it, or extends it, compared segment by segment.
	ModeFiltered
)

// String returns the string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeBroadcast:
		return "broadcast"
	case ModeFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// ParseMode parses "broadcast" or "filtered". The empty string is broadcast.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "broadcast":
		return ModeBroadcast, true
	case "filtered":
		return ModeFiltered, true
	}
	return ModeBroadcast, false
}

// Resolver reads the current value at a dotted path.
type Resolver interface {
	Resolve(path string) (any, error)
}

// DerivedResolver is a Resolver with top-level names whose values are
// computed at read time and whose dependencies are not recorded. In
// ModeFiltered every subscriber under a derived name runs on every write.
type DerivedResolver interface {
	Resolver
	IsDerived(name string) bool
}

// Callback receives the freshly resolved value of a subscriber's path.
type Callback func(value any) error

// Subscriber pairs a dotted path with the callback that renders it.
type Subscriber struct {
	ID       uint64
	Path     string
	segs     []string
	callback Callback
}

// Observer is told about every notify pass. Used for metrics.
type Observer interface {
	ObserveNotify(changed string, ran int, elapsed time.Duration, err error)
}

// Registry is an ordered list of subscribers and the notify operation.
type Registry struct {
	resolver Resolver
	mode     Mode
	observer Observer
	logger   *slog.Logger

	// subs is append-only; mu guards it so a pass can copy it and run
	// callbacks without holding the lock.
	subs []*Subscriber
	mu   sync.RWMutex
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMode sets the notification mode.
func WithMode(mode Mode) RegistryOption {
	return func(r *Registry) {
		r.mode = mode
	}
}

// WithObserver sets an observer for notify passes.
func WithObserver(o Observer) RegistryOption {
	return func(r *Registry) {
		r.observer = o
	}
}

// WithLogger sets the logger. Passes are logged at debug level.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a registry whose subscribers resolve their paths
// through resolver.
func NewRegistry(resolver Resolver, opts ...RegistryOption) *Registry {
	r := &Registry{
		resolver: resolver,
		mode:     ModeBroadcast,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Add appends a subscriber. Subscribers are never deduplicated: two adds for
// the same path are two independent subscribers.
func (r *Registry) Add(path string, fn Callback) *Subscriber {
	sub := &Subscriber{
		ID:       nextID(),
		Path:     path,
		segs:     SplitPath(path),
		callback: fn,
	}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()

	return sub
}

// Len returns the number of subscribers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// Paths returns every subscriber's path in registration order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, len(r.subs))
	for i, sub := range r.subs {
		paths[i] = sub.Path
	}
	return paths
}

// Mode returns the registry's notification mode.
func (r *Registry) Mode() Mode {
	return r.mode
}

// Notify runs every subscriber in registration order. It stops at the first
// subscriber whose path fails to resolve or whose callback fails and returns
// that error; subscribers after it do not run.
func (r *Registry) Notify() error {
	return r.run("", nil)
}

// NotifyPath is called by the store after a write to path. In ModeBroadcast
// it is Notify; in ModeFiltered it skips subscribers unrelated to path,
// except those under a derived name of a DerivedResolver.
func (r *Registry) NotifyPath(path string) error {
	if r.mode != ModeFiltered {
		return r.run(path, nil)
	}
	changed := SplitPath(path)
	derived, _ := r.resolver.(DerivedResolver)
	return r.run(path, func(sub *Subscriber) bool {
		if derived != nil && len(sub.segs) > 0 && derived.IsDerived(sub.segs[0]) {
			return true
		}
		return overlaps(sub.segs, changed)
	})
}

func (r *Registry) run(changed string, keep func(*Subscriber) bool) error {
	// Copy subscribers while holding lock
	r.mu.RLock()
	subs := make([]*Subscriber, len(r.subs))
	copy(subs, r.subs)
	r.mu.RUnlock()

	start := time.Now()
	ran := 0
	var err error
	for _, sub := range subs {
		if keep != nil && !keep(sub) {
			continue
		}
		ran++
		if err = r.runOne(sub); err != nil {
			break
		}
	}

	if r.logger.Enabled(context.Background(), slog.LevelDebug) {
		r.logger.Debug("notify", "changed", changed, "ran", ran, "subscribers", len(subs), "error", err)
	}
	if r.observer != nil {
		r.observer.ObserveNotify(changed, ran, time.Since(start), err)
	}
	return err
}

func (r *Registry) runOne(sub *Subscriber) error {
	value, err := r.resolver.Resolve(sub.Path)
	if err != nil {
		return err
	}
	return sub.callback(value)
}

// overlaps reports whether one segment list is a prefix of the other.
func overlaps(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
