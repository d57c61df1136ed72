// Package cache keeps conversion reports and rate-limit counters in memory.
package cache

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store 是转换结果与限流计数共用的内存缓存接口。
type Store interface {
	Set(key string, value any, ttl time.Duration)
	Get(key string) (any, bool)
	Delete(key string)
	// Increment adds delta to the counter at key, creating it with ttl when
	// missing, and returns the new value and its expiry.
	Increment(key string, delta int64, ttl time.Duration) (int64, time.Time, error)
	// Namespace returns a view whose keys are prefixed with prefix.
	Namespace(prefix string) Store
}

// Options 配置内存缓存行为。
type Options struct {
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
	Prefix          string
}

// NewStore creates a go-cache backed store.
func NewStore(opts Options) Store {
	defaultTTL := opts.DefaultTTL
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	cleanup := opts.CleanupInterval
	if cleanup <= 0 {
		cleanup = defaultTTL
	}
	return &goCacheStore{
		backend:    gocache.New(defaultTTL, cleanup),
		defaultTTL: defaultTTL,
		prefix:     normalizePrefix(opts.Prefix),
	}
}

type goCacheStore struct {
	backend    *gocache.Cache
	defaultTTL time.Duration
	prefix     string
}

func (s *goCacheStore) Set(key string, value any, ttl time.Duration) {
	s.backend.Set(s.prefixed(key), value, s.normalizeTTL(ttl))
}

func (s *goCacheStore) Get(key string) (any, bool) {
	return s.backend.Get(s.prefixed(key))
}

func (s *goCacheStore) Delete(key string) {
	s.backend.Delete(s.prefixed(key))
}

func (s *goCacheStore) Increment(key string, delta int64, ttl time.Duration) (int64, time.Time, error) {
	k := s.prefixed(key)
	// Add 只在键不存在（或已过期）时成功，窗口从第一次计数开始。
	if err := s.backend.Add(k, delta, s.normalizeTTL(ttl)); err == nil {
		_, exp, _ := s.backend.GetWithExpiration(k)
		return delta, exp, nil
	}
	current, err := s.backend.IncrementInt64(k, delta)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("cache increment %q: %w", key, err)
	}
	_, exp, _ := s.backend.GetWithExpiration(k)
	return current, exp, nil
}

func (s *goCacheStore) Namespace(prefix string) Store {
	return &goCacheStore{
		backend:    s.backend,
		defaultTTL: s.defaultTTL,
		prefix:     joinPrefixes(s.prefix, prefix),
	}
}

func (s *goCacheStore) prefixed(key string) string {
	key = strings.TrimSpace(key)
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *goCacheStore) normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return s.defaultTTL
	}
	return ttl
}

func normalizePrefix(prefix string) string {
	return strings.Trim(prefix, ": ")
}

func joinPrefixes(parts ...string) string {
	var normalized []string
	for _, part := range parts {
		if trimmed := normalizePrefix(part); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return strings.Join(normalized, ":")
}
