// Package cache implements the two-level namespaced cache store: a
// temporary, TTL-bounded tier and a permanent, never-expiring tier
// expressed as a single backend distinguished only by whether a TTL is
// set, with an optional Redis-backed remote tier and an always-present
// in-process fallback.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Recognized namespaces.
const (
	NSTranslationTemp      = "translation:temp"
	NSTranslationPermanent = "translation:permanent"
	NSEnrichmentTemp       = "enrichment:temp"
	NSEnrichmentPermanent  = "enrichment:permanent"
	NSDenseEmbeddings      = "search:dense:embeddings"
	NSDenseResults         = "search:dense:results"
	NSBM25Results          = "search:bm25:results"
	NSHybridFinal          = "search:hybrid:final"
	NSPrefilter            = "search:prefilter"
)

// ErrNotFound is a not-found sentinel that no function in this package
// returns; Store.Get reports a miss as a plain boolean instead.
var ErrNotFound = errors.New("cache: not found")

// entry is what is actually stored: a value plus a write timestamp and an
// optional expiry. ExpiresAt.IsZero() means permanent.
type entry struct {
	Value     json.RawMessage `json:"value"`
	WrittenAt time.Time       `json:"written_at"`
	ExpiresAt time.Time       `json:"expires_at,omitempty"`
}

func (e entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// nsStats holds atomic per-namespace counters.
type nsStats struct {
	hits, misses, sets, permanentSets, errorsCount int64
}

// Stats is the read-only snapshot returned by Store.Stats.
type Stats struct {
	Hits, Misses, Sets, PermanentSets, Errors int64
}

// Store is the cache store. The zero value is not usable; construct with
// New.
type Store struct {
	local    sync.Map // ns+":"+key -> entry
	redis    redis.UniversalClient
	statsMu  sync.RWMutex
	statsByN map[string]*nsStats
	clock    func() time.Time
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithRedis attaches a remote tier. When nil (or never supplied), the Store
// operates in memory-only mode.
func WithRedis(client redis.UniversalClient) Option {
	return func(s *Store) { s.redis = client }
}

// WithClock overrides the wall clock, for deterministic TTL tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// New constructs a Store. Passing no options yields a process-local,
// in-memory-only cache.
func New(opts ...Option) *Store {
	s := &Store{
		statsByN: make(map[string]*nsStats),
		clock:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) statsFor(ns string) *nsStats {
	s.statsMu.RLock()
	st, ok := s.statsByN[ns]
	s.statsMu.RUnlock()
	if ok {
		return st
	}
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if st, ok = s.statsByN[ns]; ok {
		return st
	}
	st = &nsStats{}
	s.statsByN[ns] = st
	return st
}

// Stats returns a snapshot of the counters for ns.
func (s *Store) Stats(ns string) Stats {
	st := s.statsFor(ns)
	return Stats{
		Hits:          atomic.LoadInt64(&st.hits),
		Misses:        atomic.LoadInt64(&st.misses),
		Sets:          atomic.LoadInt64(&st.sets),
		PermanentSets: atomic.LoadInt64(&st.permanentSets),
		Errors:        atomic.LoadInt64(&st.errorsCount),
	}
}

func composite(ns, key string) string { return ns + ":" + key }

// HashKey builds a content-defined key from arbitrary parts, so logically
// equal inputs always map to the same key. MD5 keeps keys compatible with
// entries written by earlier deployments; this is a cache key, not a
// security boundary.
func HashKey(parts ...string) string {
	h := md5.New()
	for i, p := range parts {
		if i > 0 {
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get reads a value for ns/key into dst (via JSON unmarshal) and reports
// whether it was found and unexpired.
func (s *Store) Get(ctx context.Context, ns, key string, dst any) bool {
	st := s.statsFor(ns)
	full := composite(ns, key)

	if s.redis != nil {
		raw, err := s.redis.Get(ctx, full).Bytes()
		if err == nil {
			var e entry
			if jsonErr := json.Unmarshal(raw, &e); jsonErr == nil && !e.expired(s.clock()) {
				if unmarshalInto(e.Value, dst) {
					atomic.AddInt64(&st.hits, 1)
					return true
				}
			}
		} else if !errors.Is(err, redis.Nil) {
			// Remote unavailable: fall through to local tier.
			atomic.AddInt64(&st.errorsCount, 1)
			log.Debug().Err(err).Str("namespace", ns).Msg("cache_remote_get_error")
		}
	}

	if v, ok := s.local.Load(full); ok {
		e := v.(entry)
		if !e.expired(s.clock()) {
			if unmarshalInto(e.Value, dst) {
				atomic.AddInt64(&st.hits, 1)
				return true
			}
		} else {
			s.local.Delete(full)
		}
	}
	atomic.AddInt64(&st.misses, 1)
	return false
}

func unmarshalInto(raw json.RawMessage, dst any) bool {
	if dst == nil {
		return true
	}
	return json.Unmarshal(raw, dst) == nil
}

// Set writes value to ns/key with the given TTL. ttl<=0 is treated as "no
// expiry" at the call site's risk; use SetPermanent to make that intent
// explicit and exempt from accidental TTL-less temp writes.
func (s *Store) Set(ctx context.Context, ns, key string, value any, ttl time.Duration) error {
	return s.write(ctx, ns, key, value, ttl, false)
}

// SetPermanent writes value to ns/key with no TTL. This is a hard invariant
//: entries written here must never expire automatically, because
// they back expensive third-party fetches.
func (s *Store) SetPermanent(ctx context.Context, ns, key string, value any) error {
	return s.write(ctx, ns, key, value, 0, true)
}

func (s *Store) write(ctx context.Context, ns, key string, value any, ttl time.Duration, permanent bool) error {
	st := s.statsFor(ns)
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	now := s.clock()
	e := entry{Value: raw, WrittenAt: now}
	if !permanent && ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	full := composite(ns, key)

	// Local write always happens so a remote error never loses the write
	//.
	s.local.Store(full, e)

	if s.redis != nil {
		encoded, err := json.Marshal(e)
		if err != nil {
			atomic.AddInt64(&st.errorsCount, 1)
			return nil
		}
		var redisErr error
		if permanent {
			redisErr = s.redis.Set(ctx, full, encoded, 0).Err()
		} else if ttl > 0 {
			redisErr = s.redis.Set(ctx, full, encoded, ttl).Err()
		} else {
			redisErr = s.redis.Set(ctx, full, encoded, 0).Err()
		}
		if redisErr != nil {
			atomic.AddInt64(&st.errorsCount, 1)
			log.Debug().Err(redisErr).Str("namespace", ns).Msg("cache_remote_set_error")
		}
	}

	if permanent {
		atomic.AddInt64(&st.permanentSets, 1)
	} else {
		atomic.AddInt64(&st.sets, 1)
	}
	return nil
}

// ClearNamespace removes every local entry under ns and, if a remote tier
// is attached, scans and deletes matching remote keys. Returns the number
// of entries removed from the local tier.
func (s *Store) ClearNamespace(ctx context.Context, ns string) int {
	prefix := ns + ":"
	count := 0
	s.local.Range(func(k, _ any) bool {
		ks := k.(string)
		if len(ks) >= len(prefix) && ks[:len(prefix)] == prefix {
			s.local.Delete(ks)
			count++
		}
		return true
	})
	if s.redis != nil {
		iter := s.redis.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			if err := s.redis.Del(ctx, iter.Val()).Err(); err != nil {
				log.Debug().Err(err).Str("key", iter.Val()).Msg("cache_remote_clear_error")
			}
		}
	}
	return count
}
