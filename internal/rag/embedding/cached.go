package embedding

import (
	"context"

	"github.com/agentdoc/agentdoc/internal/data/redisCache"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

// Cached decorates a Client with a content-hash vector cache so re-uploads and
// repeated queries do not re-bill the provider. Cache misses and cache errors
// both fall through to the wrapped client.
type Cached struct {
	inner  Client
	cache  *redisCache.Store
	logger *logger_i.Logger
}

func NewCached(inner Client, cache *redisCache.Store) *Cached {
	return &Cached{
		inner:  inner,
		cache:  cache,
		logger: logger_i.NewLogger("embedding_cache"),
	}
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, found := c.cache.GetVector(ctx, text); found {
		c.logger.Debug("embedding cache hit")
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.SetVector(ctx, text, vec)
	return vec, nil
}

func (c *Cached) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if vec, found := c.cache.GetVector(ctx, text); found {
			results[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return results, nil
	}

	fresh, err := c.inner.EmbedMany(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, vec := range fresh {
		results[missingIdx[j]] = vec
		c.cache.SetVector(ctx, missing[j], vec)
	}
	return results, nil
}
