// Package cache holds the Redis-backed collection cache for gallery reads.
//
// The transform sync protocol depends on its invalidation contract: every
// successful project mutation deletes the cached collection views, so any
// read issued after a write's success response observes the new state. Cache
// faults degrade to a direct database read and are never surfaced to callers.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/openfolio/showcase-engine/pkg/models"
)

const allProjectsKey = "projects:all"

func ownerKey(id uuid.UUID) string {
	return "projects:owner:" + id.String()
}

// ProjectCache caches full-collection project reads. A nil Redis client
// disables caching: Get always misses and Set/Invalidate are no-ops.
type ProjectCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProjectCache creates a project collection cache.
func NewProjectCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ProjectCache {
	return &ProjectCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.Named("project-cache"),
	}
}

// Get returns the cached collection for the given owner scope (nil owner is
// the unscoped "all projects" view) and whether it was present.
func (c *ProjectCache) Get(ctx context.Context, owner *uuid.UUID) ([]models.Project, bool) {
	if c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.key(owner)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Failed to read collection cache", zap.Error(err))
		}
		return nil, false
	}

	var projects []models.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		c.logger.Warn("Discarding undecodable collection cache entry", zap.Error(err))
		return nil, false
	}
	return projects, true
}

// Set stores the collection for the given owner scope.
func (c *ProjectCache) Set(ctx context.Context, owner *uuid.UUID, projects []models.Project) {
	if c.rdb == nil {
		return
	}

	raw, err := json.Marshal(projects)
	if err != nil {
		c.logger.Warn("Failed to encode collection for cache", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, c.key(owner), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write collection cache", zap.Error(err))
	}
}

// Invalidate drops the unscoped collection view plus the per-owner views of
// the given owners. Called after every acknowledged mutation; a failed
// delete only extends staleness up to the cache TTL.
func (c *ProjectCache) Invalidate(ctx context.Context, owners ...uuid.UUID) {
	if c.rdb == nil {
		return
	}

	keys := []string{allProjectsKey}
	for _, owner := range owners {
		if owner != uuid.Nil {
			keys = append(keys, ownerKey(owner))
		}
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("Failed to invalidate collection cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *ProjectCache) key(owner *uuid.UUID) string {
	if owner == nil {
		return allProjectsKey
	}
	return ownerKey(*owner)
}
