package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"sort"
	"time"

	"github.com/honeynil/rotrade/internal/infrastructure/redis"
	"github.com/honeynil/rotrade/internal/models"
)

const activeListingsKey = "listings:active"

// listingsCache holds the public listings feed. Cache errors are logged and
// treated as misses; the database stays the source of truth.
type listingsCache struct {
	client redis.RedisClient
	ttl    time.Duration
	now    func() time.Time
}

func (c listingsCache) get(ctx context.Context) ([]models.Listing, bool) {
	if c.client == nil || c.ttl <= 0 {
		return nil, false
	}
	raw, err := c.client.Get(ctx, activeListingsKey)
	if err != nil {
		if !stderrors.Is(err, redis.ErrKeyNotFound) {
			slog.Error("failed to read listings cache", "error", err)
		}
		return nil, false
	}
	var listings []models.Listing
	if err := json.Unmarshal([]byte(raw), &listings); err != nil {
		slog.Error("failed to unmarshal listings cache", "error", err)
		return nil, false
	}
	c.refreshFeatured(listings)
	return listings, true
}

// refreshFeatured drops featuring that expired after the feed was cached and
// restores the feed order: featured first, then newest first.
func (c listingsCache) refreshFeatured(listings []models.Listing) {
	now := time.Now()
	if c.now != nil {
		now = c.now()
	}
	for i := range listings {
		listings[i].IsFeatured = listings[i].FeaturedAt(now)
	}
	sort.SliceStable(listings, func(i, j int) bool {
		if listings[i].IsFeatured != listings[j].IsFeatured {
			return listings[i].IsFeatured
		}
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}

func (c listingsCache) set(ctx context.Context, listings []models.Listing) {
	if c.client == nil || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(listings)
	if err != nil {
		slog.Error("failed to marshal listings", "error", err)
		return
	}
	if err := c.client.Set(ctx, activeListingsKey, string(raw), c.ttl); err != nil {
		slog.Error("failed to cache listings", "error", err)
	}
}

func (c listingsCache) invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, activeListingsKey); err != nil {
		slog.Error("failed to invalidate listings cache", "error", err)
	}
}
