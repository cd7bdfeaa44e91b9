package storage

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Transients are short-TTL values stored straight in Redis, bypassing both
// cache tiers. With no Redis configured every transient read misses.

func transientKey(name string) string { return "pf:transient:" + name }

// SetTransient stores a value with an expiration.
func (s *Store) SetTransient(ctx context.Context, name string, value any, ttl time.Duration) bool {
	if s.rc == nil {
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Error("transient not encodable", zap.String("name", name), zap.Error(err))
		return false
	}
	if err := s.rc.Set(ctx, transientKey(name), string(raw), ttl); err != nil {
		s.log.Warn("transient set failed", zap.String("name", name), zap.Error(err))
		return false
	}
	return true
}

// GetTransient reads a transient, returning def when absent or expired.
func (s *Store) GetTransient(ctx context.Context, name string, def any) any {
	if s.rc == nil {
		return def
	}
	raw, ok, err := s.rc.Get(ctx, transientKey(name))
	if err != nil || !ok {
		return def
	}
	v, err := decode(raw)
	if err != nil {
		return def
	}
	return v
}

// DeleteTransient removes a transient before its TTL expires.
func (s *Store) DeleteTransient(ctx context.Context, name string) bool {
	if s.rc == nil {
		return false
	}
	return s.rc.Del(ctx, transientKey(name)) == nil
}
