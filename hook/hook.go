package hook

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/probeum/classkit"
	"github.com/probeum/classkit/classfile"
	"github.com/probeum/classkit/errors"
)

// DefaultCacheSize bounds the decoded-class cache when no size is given.
const DefaultCacheSize = 256

// Hook is the dispatch boundary between a class-load event source and a set
// of observers. Each event carries a class name and the raw class bytes;
// the hook parses the bytes once, caches the tree and fans it out. A Hook
// is safe for concurrent use.
type Hook struct {
	cache    *classCache
	maxDepth int
	prefixes []string

	mu        sync.Mutex
	observers []classkit.ClassObserver
	stats     Stats
}

// Stats is a snapshot of hook counters.
type Stats struct {
	Loaded    uint64 // class-load events seen
	Parsed    uint64 // events whose bytes were decoded
	Failed    uint64 // events whose bytes did not parse
	CacheHits uint64 // events served from the decoded-class cache
	Skipped   uint64 // events rejected by the name filter
}

// Option configures a Hook.
type Option func(*Hook) error

// WithObserver registers an observer at construction time.
func WithObserver(obs classkit.ClassObserver) Option {
	return func(h *Hook) error {
		h.observers = append(h.observers, obs)
		return nil
	}
}

// WithFilter restricts dispatch to classes whose internal name starts with
// one of the given prefixes ("java/util/", "com/example/"). No filter means
// every class is dispatched.
func WithFilter(prefixes ...string) Option {
	return func(h *Hook) error {
		h.prefixes = append(h.prefixes, prefixes...)
		return nil
	}
}

// WithCacheSize sets the decoded-class cache capacity. A size of 0 disables
// caching.
func WithCacheSize(size int) Option {
	return func(h *Hook) error {
		if size == 0 {
			h.cache = nil
			return nil
		}
		c, err := newClassCache(size)
		if err != nil {
			return err
		}
		h.cache = c
		return nil
	}
}

// WithMaxDepth overrides the attribute nesting cap used when parsing.
func WithMaxDepth(depth int) Option {
	return func(h *Hook) error {
		h.maxDepth = depth
		return nil
	}
}

// New creates a Hook with a default-sized cache.
func New(opts ...Option) (*Hook, error) {
	h := &Hook{maxDepth: classfile.DefaultMaxDepth}
	cache, err := newClassCache(DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	h.cache = cache

	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Register adds an observer. Observers registered during dispatch see only
// subsequent events.
func (h *Hook) Register(obs classkit.ClassObserver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, obs)
}

// OnClassFile handles one class-load event: parse the bytes (or reuse a
// cached tree), then hand the tree to observers in registration order,
// stopping at the first observer error. A parse failure is an expected
// input condition: it is logged, counted and returned, never escalated to a
// panic. The returned tree aliases data.
func (h *Hook) OnClassFile(ctx context.Context, name string, data []byte) (*classfile.ClassFile, error) {
	h.count(func(s *Stats) { s.Loaded++ })

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !h.wants(name) {
		h.count(func(s *Stats) { s.Skipped++ })
		return nil, nil
	}

	cf, err := h.decode(name, data)
	if err != nil {
		return nil, err
	}

	for _, obs := range h.snapshot() {
		if err := obs.ObserveClass(ctx, name, cf); err != nil {
			Logger().Warn("class observer failed",
				zap.String("class", name),
				zap.Error(err))
			return cf, errors.Hook("observer failed for "+name, err)
		}
	}
	return cf, nil
}

// Stats returns a snapshot of the hook's counters.
func (h *Hook) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

func (h *Hook) decode(name string, data []byte) (*classfile.ClassFile, error) {
	if h.cache != nil {
		if cf, ok := h.cache.get(name, data); ok {
			h.count(func(s *Stats) { s.CacheHits++ })
			return cf, nil
		}
	}

	cf, err := classfile.ParseDepth(data, h.maxDepth)
	if err != nil {
		h.count(func(s *Stats) { s.Failed++ })
		Logger().Warn("class bytes did not parse",
			zap.String("class", name),
			zap.Int("size", len(data)),
			zap.Error(err))
		return nil, err
	}
	h.count(func(s *Stats) { s.Parsed++ })

	if h.cache != nil {
		h.cache.put(name, data, cf)
	}
	return cf, nil
}

func (h *Hook) wants(name string) bool {
	if len(h.prefixes) == 0 {
		return true
	}
	for _, p := range h.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func (h *Hook) snapshot() []classkit.ClassObserver {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.observers[:len(h.observers):len(h.observers)]
}

func (h *Hook) count(f func(*Stats)) {
	h.mu.Lock()
	f(&h.stats)
	h.mu.Unlock()
}
