package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisOverlayKey      = "digitora:state:download_overlay"
	redisEntitlementsKey = "digitora:state:entitlements"
)

// RedisStore keeps the overlay and entitlement set as two JSON values in
// Redis. Values have no TTL; the state lives as long as the deployment.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed state store.
func NewRedisStore(addr, password string) (*RedisStore, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}, nil
}

// LoadOverlay reads the extras overlay. Missing or corrupt values load as
// an empty overlay.
func (s *RedisStore) LoadOverlay() (map[string]int, error) {
	overlay := map[string]int{}
	if err := s.getJSON(redisOverlayKey, &overlay); err != nil {
		return map[string]int{}, err
	}
	if overlay == nil {
		overlay = map[string]int{}
	}
	return overlay, nil
}

// SaveOverlay writes the extras overlay.
func (s *RedisStore) SaveOverlay(overlay map[string]int) error {
	if overlay == nil {
		overlay = map[string]int{}
	}
	return s.setJSON(redisOverlayKey, overlay)
}

// LoadEntitlements reads the entitlement id list. Missing or corrupt
// values load as an empty set.
func (s *RedisStore) LoadEntitlements() ([]string, error) {
	var ids []string
	if err := s.getJSON(redisEntitlementsKey, &ids); err != nil {
		return []string{}, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// SaveEntitlements writes the entitlement id list.
func (s *RedisStore) SaveEntitlements(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return s.setJSON(redisEntitlementsKey, ids)
}

func (s *RedisStore) getJSON(key string, dst any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		slog.Warn("state value corrupt, starting empty", "key", key, "error", err)
	}
	return nil
}

func (s *RedisStore) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
