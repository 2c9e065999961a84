package verify

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/torc-lang/torc/contract"
	"github.com/torc-lang/torc/ttype"
)

// ContentHash computes the obligation cache key: a BLAKE2b digest over the
// obligation's kind and predicate only (never its description), per §4.3
// stage 2. BLAKE2b is used rather than the on-disk format's SHA-256 (§4.5)
// so the two hash domains can never collide or be confused in the cache
// key, per SPEC_FULL.md's domain-stack wiring note.
func ContentHash(kind ttype.ObligationKind, p ttype.Predicate) [32]byte {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "kind:%d|", kind)
	writePredicate(h, p)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func writePredicate(w interface{ Write([]byte) (int, error) }, p ttype.Predicate) {
	fmt.Fprintf(w, "(%d", p.Kind)
	fmt.Fprintf(w, ",b=%t,i=%d,f=%g,v=%s,ao=%d,co=%d,bv=%s,fn=%s", p.BoolVal, p.IntVal, p.FloatVal, p.VarName,
		p.ArithOp, p.CompareOp, p.BoundVar, p.FuncName)
	if p.RangeLow != nil {
		writePredicate(w, *p.RangeLow)
	}
	if p.RangeHigh != nil {
		writePredicate(w, *p.RangeHigh)
	}
	for _, o := range p.Operands {
		writePredicate(w, o)
	}
	for _, a := range p.Args {
		writePredicate(w, a)
	}
	fmt.Fprint(w, ")")
}

// CacheEntry is the immutable record a content-addressed cache stores:
// decided status, the deciding solver's identity, and optional witness
// bytes. Entries are write-once — a second write with a different status
// for the same key is rejected, per §5's mutation discipline.
type CacheEntry struct {
	Status     contract.ProofStatus
	SolverName string
	Witness    []byte
}

// ErrCacheConflict is returned by Store when an existing entry's status
// disagrees with the one being written.
var ErrCacheConflict = errors.New("cache entry exists with a different status")

// Cache is the content-addressed obligation cache. Reads are not lock-free:
// Lookup takes the read lock to consult the map and the write lock to count
// a hit. Writes are per-entry and idempotent.
type Cache struct {
	mu      sync.RWMutex
	entries map[[32]byte]CacheEntry
	hits    int
	backing BackingStore
}

// BackingStore is the optional persistence collaborator §4.3 "Cache
// contract" allows — the core's cache works in-memory without one; a
// collaborator (or the Redis-backed store below) may supply one to survive
// process restarts.
type BackingStore interface {
	Load(ctx context.Context, key [32]byte) (CacheEntry, bool, error)
	Save(ctx context.Context, key [32]byte, entry CacheEntry) error
}

// NewCache returns an empty in-memory cache with no backing store.
func NewCache() *Cache {
	return &Cache{entries: make(map[[32]byte]CacheEntry)}
}

// NewCacheWithBackingStore returns a cache that consults backing on miss and
// persists every new decision to it.
func NewCacheWithBackingStore(backing BackingStore) *Cache {
	c := NewCache()
	c.backing = backing
	return c
}

// Lookup consults the cache for key, falling back to the backing store (if
// configured) on a local miss. A hit increments the cache-hit counter.
func (c *Cache) Lookup(ctx context.Context, key [32]byte) (CacheEntry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return entry, true
	}
	if c.backing == nil {
		return CacheEntry{}, false
	}
	loaded, found, err := c.backing.Load(ctx, key)
	if err != nil || !found {
		// Corruption or a genuine miss both yield a cache miss, never an
		// incorrect verdict (§4.3 "Cache contract").
		return CacheEntry{}, false
	}
	c.mu.Lock()
	c.entries[key] = loaded
	c.hits++
	c.mu.Unlock()
	return loaded, true
}

// Store writes entry for key, idempotently: a second write with the same
// status is a no-op, and a write that would change a key's decided status is
// rejected rather than silently overwritten.
func (c *Cache) Store(ctx context.Context, key [32]byte, entry CacheEntry) error {
	c.mu.Lock()
	existing, ok := c.entries[key]
	if ok {
		if existing.Status != entry.Status {
			c.mu.Unlock()
			return ErrCacheConflict
		}
		c.mu.Unlock()
		return nil
	}
	c.entries[key] = entry
	c.mu.Unlock()
	if c.backing != nil {
		return c.backing.Save(ctx, key, entry)
	}
	return nil
}

// HitCount returns the number of cache hits observed so far.
func (c *Cache) HitCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits
}

// RedisCacheStore is a BackingStore over go-redis, the collaborator-provided
// persistence layer §4.3 explicitly allows. Keys are hex-encoded content
// hashes under a fixed prefix; values are a tiny status|solver|witness wire
// encoding, not a general serialization format (the on-disk graph format
// owns that concern, per §4.5).
type RedisCacheStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCacheStore wraps an existing *redis.Client (which may point at a
// real server or, in tests, a github.com/alicebob/miniredis/v2 instance).
func NewRedisCacheStore(client *redis.Client) *RedisCacheStore {
	return &RedisCacheStore{client: client, prefix: "torc:obligation:"}
}

func (s *RedisCacheStore) key(k [32]byte) string {
	return s.prefix + hex.EncodeToString(k[:])
}

func (s *RedisCacheStore) Load(ctx context.Context, key [32]byte) (CacheEntry, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return CacheEntry{}, false, nil
	}
	if err != nil {
		return CacheEntry{}, false, err
	}
	entry, err := decodeCacheEntry(raw)
	if err != nil {
		return CacheEntry{}, false, nil // corruption -> miss, not an error
	}
	return entry, true, nil
}

func (s *RedisCacheStore) Save(ctx context.Context, key [32]byte, entry CacheEntry) error {
	return s.client.Set(ctx, s.key(key), encodeCacheEntry(entry), 0).Err()
}

func encodeCacheEntry(e CacheEntry) []byte {
	out := []byte{byte(e.Status)}
	nameBytes := []byte(e.SolverName)
	out = append(out, byte(len(nameBytes)))
	out = append(out, nameBytes...)
	out = append(out, e.Witness...)
	return out
}

func decodeCacheEntry(raw []byte) (CacheEntry, error) {
	if len(raw) < 2 {
		return CacheEntry{}, errors.New("short cache entry")
	}
	status := contract.ProofStatus(raw[0])
	nameLen := int(raw[1])
	if len(raw) < 2+nameLen {
		return CacheEntry{}, errors.New("truncated cache entry")
	}
	name := string(raw[2 : 2+nameLen])
	witness := raw[2+nameLen:]
	return CacheEntry{Status: status, SolverName: name, Witness: witness}, nil
}
