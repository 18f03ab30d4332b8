// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

/*
Package reviews integrates the external docmap service that publishes
peer review material for preprints.

Review content does not live in the article store. It is owned by the
review platform and fetched on demand, then cached because docmap
responses are slow and review bodies change rarely.

Components:

  - Fetcher: retrieves the peer review record for one article version.
  - Cache: TTL storage for fetched records (Redis or in-process).
  - Service: the cache-through composition used by ingestion.
*/
package reviews

import (
	"context"
	"log/slog"
	"time"

	"github.com/lectern-pub/lectern/internal/article"
)

// DefaultCacheTTL bounds how stale a cached peer review record may get.
const DefaultCacheTTL = 6 * time.Hour

// Fetcher retrieves peer review material for an article version.
//
// A nil record with a nil error means the version has no published
// review activity yet.
type Fetcher interface {
	Fetch(ctx context.Context, msid, versionIdentifier string) (*article.PeerReview, error)
}

// Cache stores fetched peer review records under a version key.
//
// Get returns (nil, nil) on a cache miss. The cache is an explicit
// dependency passed in by the composition root, never package state.
type Cache interface {
	Get(ctx context.Context, key string) (*article.PeerReview, error)
	Set(ctx context.Context, key string, review *article.PeerReview, ttl time.Duration) error
}

// Service is a cache-through wrapper around a [Fetcher].
type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewService wires a Fetcher and a Cache together.
func NewService(fetcher Fetcher, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		ttl:     DefaultCacheTTL,
		logger:  logger,
	}
}

// GetPeerReview returns the peer review record for a version, consulting
// the cache first.
//
// Fetch failures are returned to the caller. Cache failures are logged
// and treated as misses so a broken Redis never blocks ingestion.
func (service *Service) GetPeerReview(ctx context.Context, msid, versionIdentifier string) (*article.PeerReview, error) {
	key := msid + "/" + versionIdentifier

	// 1. Cache lookup
	cached, err := service.cache.Get(ctx, key)
	if err != nil {
		service.logger.Warn("review_cache_read_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	} else if cached != nil {
		return cached, nil
	}

	// 2. Upstream fetch
	review, err := service.fetcher.Fetch(ctx, msid, versionIdentifier)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, nil
	}

	// 3. Populate the cache for the next reader
	if err := service.cache.Set(ctx, key, review, service.ttl); err != nil {
		service.logger.Warn("review_cache_write_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	return review, nil
}
