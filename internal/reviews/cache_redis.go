// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/platform/constants"
)

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed review cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

/*
Get retrieves a cached peer review record.

Description: Returns (nil, nil) when the key is absent or expired.

Parameters:
  - context: context.Context
  - key: string (msid/versionIdentifier)

Returns:
  - *article.PeerReview: The cached record, or nil on a miss
  - error: Connectivity or decoding errors
*/
func (cache *RedisCache) Get(context context.Context, key string) (*article.PeerReview, error) {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixPeerReview + key

	// Get the payload from Redis
	payload, err := cache.client.Get(context, redisKey).Bytes()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_review_get_failed: %w", err)
	}

	// Decode the stored record
	var review article.PeerReview
	if err := json.Unmarshal(payload, &review); err != nil {
		return nil, fmt.Errorf("redis_review_decode_failed: %w", err)
	}

	return &review, nil
}

/*
Set stores a peer review record with a TTL.

Parameters:
  - context: context.Context
  - key: string (msid/versionIdentifier)
  - review: *article.PeerReview
  - ttl: time.Duration

Returns:
  - error: Encoding or storage failures
*/
func (cache *RedisCache) Set(context context.Context, key string, review *article.PeerReview, ttl time.Duration) error {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixPeerReview + key

	// Encode the record
	payload, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("redis_review_encode_failed: %w", err)
	}

	// Set the payload with TTL
	if err := cache.client.Set(context, redisKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_review_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}
