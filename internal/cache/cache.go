// Package cache implements the two-tier cache used by the external-data
// orchestrator and the source adapters: a bounded in-process map in front of
// a persistent document store. Cache failures never reach callers; every
// error degrades to a miss and is logged.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enricher/internal/db"
)

const (
	// DefaultCapacity bounds the in-process tier.
	DefaultCapacity = 100
	// DefaultTTL is applied when Set is called with ttl <= 0.
	DefaultTTL = time.Hour
	// DefaultMaxEntryBytes rejects oversized payloads (10 MB).
	DefaultMaxEntryBytes = 10 << 20
	// maxKeyLength is the persistent store's key length cap.
	maxKeyLength = 500
)

// Store is the persistent tier. *db.DB satisfies it; tests supply fakes.
type Store interface {
	GetCacheEntry(ctx context.Context, key string) (*db.CacheEntryRow, error)
	UpsertCacheEntry(ctx context.Context, row *db.CacheEntryRow) error
	DeleteCacheEntry(ctx context.Context, key string) error
	DeleteCacheEntriesByPrefix(ctx context.Context, prefix string) (int64, error)
	DeleteExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error)
}

// Entry is one in-process cache record.
type Entry struct {
	Key       string
	Data      json.RawMessage
	Source    string
	Hits      int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Valid reports whether the entry has not expired at the given time.
func (e *Entry) Valid(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// Stats is a snapshot of cache counters.
type Stats struct {
	MemoryEntries  int   `json:"memory_entries"`
	MemoryHits     int64 `json:"memory_hits"`
	PersistentHits int64 `json:"persistent_hits"`
	Misses         int64 `json:"misses"`
	Evictions      int64 `json:"evictions"`
	Rejected       int64 `json:"rejected"`
}

// Config holds cache tunables.
type Config struct {
	Capacity      int
	DefaultTTL    time.Duration
	MaxEntryBytes int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:      DefaultCapacity,
		DefaultTTL:    DefaultTTL,
		MaxEntryBytes: DefaultMaxEntryBytes,
	}
}

// Service is the two-tier cache. The memory tier evicts in insertion order
// (FIFO, not true LRU) when full, a faithful port of the original behavior.
// The store may be nil, in which case only the memory tier is used.
type Service struct {
	mu    sync.Mutex
	mem   map[string]*Entry
	order []string // insertion order, oldest first

	cfg   Config
	store Store
	log   *zap.Logger

	memoryHits     int64
	persistentHits int64
	misses         int64
	evictions      int64
	rejected       int64

	now func() time.Time // overridable for tests
}

// New creates a cache service. store and log may be nil.
func New(store Store, cfg Config, log *zap.Logger) *Service {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.MaxEntryBytes <= 0 {
		cfg.MaxEntryBytes = DefaultMaxEntryBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		mem:   make(map[string]*Entry),
		cfg:   cfg,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// SanitizeKey replaces characters the document store cannot use and caps the
// key length.
func SanitizeKey(key string) string {
	replacer := strings.NewReplacer("/", "_", " ", "_", "#", "_", "?", "_", "[", "_", "]", "_")
	key = replacer.Replace(key)
	if len(key) > maxKeyLength {
		key = key[:maxKeyLength]
	}
	return key
}

// Get returns the cached payload for key, or (nil, false) on a miss. Reads
// check the memory tier first; a persistent hit backfills the memory tier.
// Expired persistent entries are lazily deleted.
func (s *Service) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	key = SanitizeKey(key)
	now := s.now()

	s.mu.Lock()
	if entry, ok := s.mem[key]; ok {
		if entry.Valid(now) {
			entry.Hits++
			s.memoryHits++
			data := entry.Data
			s.mu.Unlock()
			return data, true
		}
		s.removeLocked(key)
	}
	s.mu.Unlock()

	if s.store == nil {
		s.recordMiss()
		return nil, false
	}

	row, err := s.store.GetCacheEntry(ctx, key)
	if err != nil {
		s.log.Warn("cache: persistent read failed", zap.String("key", key), zap.Error(err))
		s.recordMiss()
		return nil, false
	}
	if row == nil {
		s.recordMiss()
		return nil, false
	}
	if !now.Before(row.ExpiresAt) {
		// Lazy deletion of expired persistent entries.
		if err := s.store.DeleteCacheEntry(ctx, key); err != nil {
			s.log.Warn("cache: expired entry delete failed", zap.String("key", key), zap.Error(err))
		}
		s.recordMiss()
		return nil, false
	}

	entry := &Entry{
		Key:       row.Key,
		Data:      row.Data,
		Source:    row.Source,
		Hits:      row.Hits,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}
	s.mu.Lock()
	s.insertLocked(entry)
	s.persistentHits++
	s.mu.Unlock()

	return entry.Data, true
}

// Set stores a payload under key with the given TTL (DefaultTTL when ttl <=
// 0). Payloads larger than MaxEntryBytes are logged and skipped. Set never
// returns an error.
func (s *Service) Set(ctx context.Context, key string, data any, ttl time.Duration, source string) {
	key = SanitizeKey(key)
	if ttl <= 0 {
		ttl = s.cfg.DefaultTTL
	}

	payload, err := json.Marshal(data)
	if err != nil {
		s.log.Warn("cache: marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if len(payload) > s.cfg.MaxEntryBytes {
		s.mu.Lock()
		s.rejected++
		s.mu.Unlock()
		s.log.Warn("cache: entry too large, not cached",
			zap.String("key", key), zap.Int("bytes", len(payload)))
		return
	}

	now := s.now()
	entry := &Entry{
		Key:       key,
		Data:      payload,
		Source:    source,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	s.mu.Lock()
	s.insertLocked(entry)
	s.mu.Unlock()

	if s.store != nil {
		row := &db.CacheEntryRow{
			Key:       entry.Key,
			Data:      entry.Data,
			Source:    entry.Source,
			CreatedAt: entry.CreatedAt,
			ExpiresAt: entry.ExpiresAt,
		}
		if err := s.store.UpsertCacheEntry(ctx, row); err != nil {
			s.log.Warn("cache: persistent write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Delete removes a single key from both tiers.
func (s *Service) Delete(ctx context.Context, key string) {
	key = SanitizeKey(key)

	s.mu.Lock()
	s.removeLocked(key)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.DeleteCacheEntry(ctx, key); err != nil {
			s.log.Warn("cache: delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Invalidate removes all keys with the given prefix from both tiers.
func (s *Service) Invalidate(ctx context.Context, prefix string) {
	prefix = SanitizeKey(prefix)

	s.mu.Lock()
	for _, key := range append([]string(nil), s.order...) {
		if strings.HasPrefix(key, prefix) {
			s.removeLocked(key)
		}
	}
	s.mu.Unlock()

	if s.store != nil {
		if _, err := s.store.DeleteCacheEntriesByPrefix(ctx, prefix); err != nil {
			s.log.Warn("cache: prefix invalidation failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

// ClearUserCache removes every cached entry belonging to one user. Cache keys
// are namespaced as "<userID>:...".
func (s *Service) ClearUserCache(ctx context.Context, userID string) {
	s.Invalidate(ctx, userID+":")
}

// Stats returns a snapshot of the cache counters.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		MemoryEntries:  len(s.mem),
		MemoryHits:     s.memoryHits,
		PersistentHits: s.persistentHits,
		Misses:         s.misses,
		Evictions:      s.evictions,
		Rejected:       s.rejected,
	}
}

func (s *Service) recordMiss() {
	s.mu.Lock()
	s.misses++
	s.mu.Unlock()
}

// insertLocked adds an entry to the memory tier, evicting the oldest-inserted
// entry when at capacity. Caller holds s.mu.
func (s *Service) insertLocked(entry *Entry) {
	if _, exists := s.mem[entry.Key]; exists {
		s.mem[entry.Key] = entry
		return
	}
	if len(s.mem) >= s.cfg.Capacity {
		s.evictOldestLocked()
	}
	s.mem[entry.Key] = entry
	s.order = append(s.order, entry.Key)
}

// evictOldestLocked drops the oldest-inserted entry. Caller holds s.mu.
func (s *Service) evictOldestLocked() {
	if len(s.order) == 0 {
		return
	}
	oldest := s.order[0]
	s.order = s.order[1:]
	delete(s.mem, oldest)
	s.evictions++
}

// removeLocked deletes a key from the memory tier. Caller holds s.mu.
func (s *Service) removeLocked(key string) {
	if _, ok := s.mem[key]; !ok {
		return
	}
	delete(s.mem, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
