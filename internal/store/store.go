/*
file: rudis/internal/store/store.go
*/

// Package store implements the concurrent, TTL-aware key-value map at the
// heart of the server: a fixed number of independently locked shards, each
// holding a map[string]*entry, selected by a hash of the key.
package store

import (
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ErrNotInteger is returned by IncrBy when the stored bytes don't parse as
// a signed 64-bit decimal integer, or the arithmetic would overflow one.
var ErrNotInteger = &notIntegerError{}

type notIntegerError struct{}

func (*notIntegerError) Error() string { return "value is not an integer or out of range" }

// entry pairs a stored byte value with its optional expiry instant. A zero
// expiresAt means the entry never expires.
type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// defaultShardCount is the number of independent lock domains the store is
// split across. 32 is large enough to spread lock contention across dozens
// of concurrent connections without the bookkeeping of a dynamically
// resized shard table this workload doesn't need.
const defaultShardCount = 32

type shard struct {
	mu   sync.RWMutex
	data map[string]*entry
}

// Store is the concurrent key-value map at the core of the server.
// Zero value is not usable; construct with New.
type Store struct {
	shards []*shard
}

// New constructs a Store with the default shard count.
func New() *Store { return NewN(defaultShardCount) }

// NewN constructs a Store with an explicit number of shards; n must be at
// least 1. Exposed mainly so tests can exercise both a single-shard store
// (to pin down cross-key atomicity expectations) and a sharded one.
func NewN(n int) *Store {
	if n < 1 {
		n = 1
	}
	s := &Store{shards: make([]*shard, n)}
	for i := range s.shards {
		s.shards[i] = &shard{data: make(map[string]*entry)}
	}
	return s
}

func (s *Store) shardIndex(key string) int {
	return int(xxhash.Sum64String(key) % uint64(len(s.shards)))
}

func (s *Store) shardFor(key string) *shard {
	return s.shards[s.shardIndex(key)]
}

// Get returns the current value for key and true, or (nil, false) if the
// key is absent or its entry has expired. An expired entry found along the
// way is removed.
func (s *Store) Get(key string) ([]byte, bool) {
	sh := s.shardFor(key)

	sh.mu.RLock()
	e, ok := sh.data[key]
	if !ok {
		sh.mu.RUnlock()
		return nil, false
	}
	expired := e.expired(time.Now())
	sh.mu.RUnlock()
	if !expired {
		return e.value, true
	}

	// Lazily expired: upgrade to exclusive access and remove it. Re-check
	// under the write lock since another goroutine may have already raced
	// us to it.
	sh.mu.Lock()
	if e2, ok := sh.data[key]; ok && e2.expired(time.Now()) {
		delete(sh.data, key)
	}
	sh.mu.Unlock()
	return nil, false
}

// Set unconditionally installs value for key with the given optional TTL.
// A zero ttl (time.Duration(0); see also SetNoTTL) clears any previous
// expiry, so the key never expires.
func (s *Store) Set(key string, value []byte, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.set(key, value, exp)
}

// SetNoTTL installs value for key with no expiry.
func (s *Store) SetNoTTL(key string, value []byte) {
	s.set(key, value, time.Time{})
}

func (s *Store) set(key string, value []byte, exp time.Time) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	sh.data[key] = &entry{value: value, expiresAt: exp}
	sh.mu.Unlock()
}

// Del removes each listed key that is present and not expired, and returns
// the count actually removed. Expired entries encountered are also removed
// but do not count.
//
// When keys span more than one shard, shards are locked in ascending index
// order so that two concurrent Del calls over overlapping key sets can
// never deadlock against each other.
func (s *Store) Del(keys ...string) int {
	now := time.Now()

	byShard := make(map[int][]string)
	for _, key := range keys {
		idx := s.shardIndex(key)
		byShard[idx] = append(byShard[idx], key)
	}
	indices := make([]int, 0, len(byShard))
	for idx := range byShard {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	removed := 0
	for _, idx := range indices {
		sh := s.shards[idx]
		sh.mu.Lock()
		for _, key := range byShard[idx] {
			if e, ok := sh.data[key]; ok {
				if !e.expired(now) {
					removed++
				}
				delete(sh.data, key)
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Exists returns the number of listed keys that are present and not
// expired. Duplicates in keys count multiple times, matching Redis.
func (s *Store) Exists(keys ...string) int {
	now := time.Now()
	count := 0
	for _, key := range keys {
		sh := s.shardFor(key)
		sh.mu.RLock()
		if e, ok := sh.data[key]; ok && !e.expired(now) {
			count++
		}
		sh.mu.RUnlock()
	}
	return count
}

// Expire sets key's expiry to now+ttl if key exists and is not already
// expired, returning true; otherwise it returns false without effect.
func (s *Store) Expire(key string, ttl time.Duration) bool {
	sh := s.shardFor(key)
	now := time.Now()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.data[key]
	if !ok {
		return false
	}
	if e.expired(now) {
		delete(sh.data, key)
		return false
	}
	e.expiresAt = now.Add(ttl)
	return true
}

// IncrBy adds delta to the integer value stored at key (treating an
// absent-or-expired key as 0), stores the canonical base-10 ASCII of the
// result, and returns it. It returns ErrNotInteger, leaving the stored
// value unchanged, if the current bytes don't parse as a signed 64-bit
// decimal integer or the addition would overflow one.
func (s *Store) IncrBy(key string, delta int64) (int64, error) {
	sh := s.shardFor(key)
	now := time.Now()

	sh.mu.Lock()
	defer sh.mu.Unlock()

	var current int64
	var exp time.Time
	if e, ok := sh.data[key]; ok && !e.expired(now) {
		n, err := parseStoredInt(e.value)
		if err != nil {
			return 0, ErrNotInteger
		}
		current = n
		exp = e.expiresAt
	}

	sum, overflow := addInt64(current, delta)
	if overflow {
		return 0, ErrNotInteger
	}

	sh.data[key] = &entry{value: []byte(strconv.FormatInt(sum, 10)), expiresAt: exp}
	return sum, nil
}

// parseStoredInt enforces the type-coherence rule for arithmetic commands:
// optional leading '-', no leading zeros except "0" itself, no whitespace,
// base-10 ASCII.
func parseStoredInt(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, ErrNotInteger
	}
	digits := b
	if b[0] == '-' {
		digits = b[1:]
		if len(digits) == 0 {
			return 0, ErrNotInteger
		}
	}
	if len(digits) > 1 && digits[0] == '0' {
		return 0, ErrNotInteger
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, ErrNotInteger
		}
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, ErrNotInteger
	}
	return n, nil
}

func addInt64(a, b int64) (sum int64, overflow bool) {
	sum = a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, true
	}
	if a == math.MinInt64 && b == math.MinInt64 {
		return 0, true
	}
	return sum, false
}

// Keys returns every non-expired key matching pattern under the glob rules
// in glob.go. Order is unspecified. Expired entries discovered during the
// scan are removed and do not appear.
func (s *Store) Keys(pattern string) []string {
	now := time.Now()
	var out []string
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, e := range sh.data {
			if e.expired(now) {
				delete(sh.data, key)
				continue
			}
			if Match(pattern, key) {
				out = append(out, key)
			}
		}
		sh.mu.Unlock()
	}
	return out
}

// DBSize returns the number of non-expired entries across all shards, as
// of a snapshot taken atomically per-shard.
func (s *Store) DBSize() int {
	now := time.Now()
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, e := range sh.data {
			if !e.expired(now) {
				total++
			}
		}
		sh.mu.RUnlock()
	}
	return total
}

// FlushDB removes all entries from every shard.
func (s *Store) FlushDB() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.data = make(map[string]*entry)
		sh.mu.Unlock()
	}
}
