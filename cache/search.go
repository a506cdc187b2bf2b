package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"shareit/model"
)

// Search caches item search results under a TTL. Entries are not invalidated
// on item mutation; staleness is bounded by the TTL.
type Search struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSearch(rdb *redis.Client, ttl time.Duration) *Search {
	return &Search{rdb: rdb, ttl: ttl}
}

func (s *Search) key(text string) string {
	sum := sha1.Sum([]byte(strings.ToLower(text)))
	return fmt.Sprintf("search:%x", sum[:])
}

func (s *Search) Get(ctx context.Context, text string) ([]model.Item, bool) {
	if s == nil || s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, s.key(text)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []model.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (s *Search) Set(ctx context.Context, text string, items []model.Item) {
	if s == nil || s.rdb == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = s.rdb.Set(ctx, s.key(text), raw, s.ttl).Err()
}
