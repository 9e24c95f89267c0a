package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"linkPulse/domain"
	"linkPulse/pkg/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

// PolicyCache is a time-bounded cache of offer policy snapshots. Staleness
// is bounded by the TTL; admin-side mutations call Invalidate. Cache
// failures degrade to the repository, they never fail the request.
type PolicyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPolicyCache(client *redis.Client, ttl time.Duration) *PolicyCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &PolicyCache{
		client: client,
		ttl:    ttl,
	}
}

func offerKey(id string) string {
	return fmt.Sprintf("offer:policy:%s", id)
}

func (c *PolicyCache) GetOffer(ctx context.Context, id string) (*domain.Offer, bool) {
	val, err := c.client.Get(ctx, offerKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Failed to read offer policy cache", "offer_id", id, err)
		}
		return nil, false
	}

	var offer domain.Offer
	if err := json.Unmarshal([]byte(val), &offer); err != nil {
		logger.Warn("Failed to unmarshal cached offer policy", "offer_id", id, err)
		return nil, false
	}

	return &offer, true
}

func (c *PolicyCache) SetOffer(ctx context.Context, offer *domain.Offer) {
	raw, err := json.Marshal(offer)
	if err != nil {
		logger.Warn("Failed to marshal offer policy", "offer_id", offer.ID, err)
		return
	}

	if err := c.client.Set(ctx, offerKey(offer.ID), raw, c.ttl).Err(); err != nil {
		logger.Warn("Failed to write offer policy cache", "offer_id", offer.ID, err)
	}
}

// Invalidate drops the cached snapshot for an offer.
func (c *PolicyCache) Invalidate(ctx context.Context, offerID string) error {
	if err := c.client.Del(ctx, offerKey(offerID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate offer policy cache: %w", err)
	}

	return nil
}
