package storage

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	pkgredis "github.com/pressforge/core/internal/pkg/redis"
	"go.uber.org/zap"
)

// Store is the unified read/modify/delete abstraction over options and meta
// buckets. Reads go through a request-scoped cache tier and an optional Redis
// tier; every write path updates both tiers so a subsequent read observes the
// new value without a cache miss.
//
// Read-modify-write paths (UpdateOptionKey and friends) re-read fresh on every
// call but take no lock across processes: concurrent writers to the same
// option can race, last writer wins.
type Store struct {
	backend Backend
	rc      *pkgredis.Client
	log     *zap.Logger

	mu       sync.RWMutex
	cache    map[string]any
	useCache bool
}

func New(backend Backend, rc *pkgredis.Client, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		backend:  backend,
		rc:       rc,
		log:      log,
		cache:    map[string]any{},
		useCache: true,
	}
}

func cacheKey(kind TargetKind, objectID, key string) string {
	return string(kind) + ":" + objectID + ":" + key
}

// SetUseCache toggles the request-scoped tier; disabling it also drops
// everything cached so far.
func (s *Store) SetUseCache(use bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useCache = use
	if !use {
		s.cache = map[string]any{}
	}
}

// ClearCache evicts cached entries. With a prefix, only keys whose cache key
// starts with it are dropped (e.g. "post_meta:42:" for one post); the Redis
// tier is scope-invalidated the same way.
func (s *Store) ClearCache(ctx context.Context, prefix string) {
	s.mu.Lock()
	if prefix == "" {
		s.cache = map[string]any{}
	} else {
		for k := range s.cache {
			if strings.HasPrefix(k, prefix) {
				delete(s.cache, k)
			}
		}
	}
	s.mu.Unlock()

	if s.rc != nil {
		if err := s.rc.DelPrefix(ctx, "pf:store:"+prefix); err != nil {
			s.log.Warn("redis cache clear failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

// Get returns the stored value for (kind, objectID, key), or def when absent
// or on error. Values come back as decoded JSON (map[string]any, []any,
// string, float64, bool). The result is a detached copy the caller owns;
// mutating it never reaches the cache tier.
func (s *Store) Get(ctx context.Context, kind TargetKind, objectID, key string, def any) any {
	ck := cacheKey(kind, objectID, key)

	s.mu.RLock()
	if s.useCache {
		if v, ok := s.cache[ck]; ok {
			s.mu.RUnlock()
			return cloneValue(v)
		}
	}
	s.mu.RUnlock()

	if s.rc != nil {
		raw, ok, err := s.rc.Get(ctx, "pf:store:"+ck)
		if err != nil {
			s.log.Warn("redis get failed", zap.String("key", ck), zap.Error(err))
		} else if ok {
			if v, derr := decode(raw); derr == nil {
				s.cacheSet(ck, v)
				return cloneValue(v)
			}
		}
	}

	raw, found, err := s.backend.Read(kind, objectID, key)
	if err != nil {
		s.log.Error("backend read failed", zap.String("key", ck), zap.Error(err))
		return def
	}
	if !found {
		return def
	}
	v, err := decode(raw)
	if err != nil {
		s.log.Warn("stored value is not valid json", zap.String("key", ck), zap.Error(err))
		return def
	}
	s.cacheSet(ck, v)
	s.redisSet(ctx, ck, raw)
	return cloneValue(v)
}

// Update persists value and refreshes both cache tiers. Returns false on
// encode/write failure.
func (s *Store) Update(ctx context.Context, kind TargetKind, objectID, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Error("value not encodable", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.backend.Write(kind, objectID, key, string(raw)); err != nil {
		s.log.Error("backend write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	ck := cacheKey(kind, objectID, key)
	// round-trip through JSON so cached values match what a later read decodes
	decoded, err := decode(string(raw))
	if err != nil {
		decoded = value
	}
	s.cacheSet(ck, decoded)
	s.redisSet(ctx, ck, string(raw))
	return true
}

// Delete removes the stored value and evicts it from both tiers.
func (s *Store) Delete(ctx context.Context, kind TargetKind, objectID, key string) bool {
	if err := s.backend.Delete(kind, objectID, key); err != nil {
		s.log.Error("backend delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	ck := cacheKey(kind, objectID, key)
	s.mu.Lock()
	delete(s.cache, ck)
	s.mu.Unlock()
	if s.rc != nil {
		if err := s.rc.Del(ctx, "pf:store:"+ck); err != nil {
			s.log.Warn("redis delete failed", zap.String("key", ck), zap.Error(err))
		}
	}
	return true
}

// GetOption reads a whole option value (one options page's settings map).
func (s *Store) GetOption(ctx context.Context, name string, def any) any {
	return s.Get(ctx, KindOption, "", name, def)
}

// UpdateOption writes a whole option value.
func (s *Store) UpdateOption(ctx context.Context, name string, value any) bool {
	return s.Update(ctx, KindOption, "", name, value)
}

// DeleteOption removes a whole option value.
func (s *Store) DeleteOption(ctx context.Context, name string) bool {
	return s.Delete(ctx, KindOption, "", name)
}

// GetOptionKey reads one key inside an option's settings map.
func (s *Store) GetOptionKey(ctx context.Context, name, key string, def any) any {
	m, ok := s.GetOption(ctx, name, nil).(map[string]any)
	if !ok {
		return def
	}
	v, ok := m[key]
	if !ok {
		return def
	}
	return v
}

// UpdateOptionKey sets one key inside an option's settings map without
// replacing the rest of the map. The option is re-read fresh from the backend
// first so a stale cache cannot clobber other keys; there is no cross-process
// lock, so simultaneous writers can still lose updates.
func (s *Store) UpdateOptionKey(ctx context.Context, name, key string, value any) bool {
	m := s.freshOptionMap(name)
	m[key] = value
	return s.UpdateOption(ctx, name, m)
}

// DeleteOptionKey removes one key inside an option's settings map.
func (s *Store) DeleteOptionKey(ctx context.Context, name, key string) bool {
	m := s.freshOptionMap(name)
	if _, ok := m[key]; !ok {
		return true
	}
	delete(m, key)
	return s.UpdateOption(ctx, name, m)
}

func (s *Store) freshOptionMap(name string) map[string]any {
	raw, found, err := s.backend.Read(KindOption, "", name)
	if err != nil || !found {
		return map[string]any{}
	}
	v, err := decode(raw)
	if err != nil {
		return map[string]any{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

func (s *Store) cacheSet(ck string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.useCache {
		s.cache[ck] = v
	}
}

func (s *Store) redisSet(ctx context.Context, ck, raw string) {
	if s.rc == nil {
		return
	}
	if err := s.rc.Set(ctx, "pf:store:"+ck, raw, 0); err != nil {
		s.log.Warn("redis set failed", zap.String("key", ck), zap.Error(err))
	}
}

// cloneValue returns a caller-owned copy of a decoded JSON value so cached
// maps and slices cannot be mutated through Get results.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}

func decode(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}
