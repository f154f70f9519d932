// Package modelholder provides lazy,
// thread-safe ownership of one or more text->vector models keyed by name,
// with per-name double-checked locking so concurrent first-requests for the
// same name don't double-load.
package modelholder

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Encoder turns text into a fixed-dimension vector. The embedding model
// itself is an external collaborator behind this interface.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Loader constructs an Encoder for a given model name. It is expected to be
// slow (process startup, weights download, handshake with a remote
// inference server); the Holder ensures it runs at most once per name.
type Loader func(ctx context.Context, name string) (Encoder, error)

// Stats reports load-count, cache hits, and load-duration per model.
type Stats struct {
	LoadCount   int64
	CacheHits   int64
	LoadDuration time.Duration
}

type entry struct {
	mu      sync.Mutex
	loaded  bool
	encoder Encoder
	err     error
	stats   Stats
}

// Holder owns the loaded encoders, keyed by model name.
type Holder struct {
	loader  Loader
	mu      sync.RWMutex
	models  map[string]*entry
}

// New constructs a Holder backed by loader.
func New(loader Loader) *Holder {
	return &Holder{loader: loader, models: make(map[string]*entry)}
}

func (h *Holder) entryFor(name string) *entry {
	h.mu.RLock()
	e, ok := h.models[name]
	h.mu.RUnlock()
	if ok {
		return e
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok = h.models[name]; ok {
		return e
	}
	e = &entry{}
	h.models[name] = e
	return e
}

// Get returns the Encoder for name, loading it on first use. Concurrent
// callers for the same name block on the same per-name mutex; callers for
// different names never contend with each other.
func (h *Holder) Get(ctx context.Context, name string) (Encoder, error) {
	e := h.entryFor(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		e.stats.CacheHits++
		return e.encoder, e.err
	}
	start := time.Now()
	enc, err := h.loader(ctx, name)
	e.stats.LoadDuration = time.Since(start)
	e.stats.LoadCount++
	e.loaded = true
	e.encoder, e.err = enc, err
	if err != nil {
		// Allow a later call to retry rather than caching a permanent
		// failure, since transient load errors (network blip fetching
		// model weights) shouldn't poison the holder forever.
		e.loaded = false
	}
	return e.encoder, e.err
}

// Stats returns a snapshot for name, or the zero value if name was never
// requested.
func (h *Holder) Stats(name string) Stats {
	h.mu.RLock()
	e, ok := h.models[name]
	h.mu.RUnlock()
	if !ok {
		return Stats{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// MustEncode is a convenience for callers holding a model name constant,
// wrapping the not-found case with context.
func (h *Holder) MustEncode(ctx context.Context, name, text string) ([]float32, error) {
	enc, err := h.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("modelholder: load %q: %w", name, err)
	}
	return enc.Encode(ctx, text)
}
