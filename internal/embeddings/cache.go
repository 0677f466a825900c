package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/answerlab/answer-agent/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedEmbedder wraps an Embedder with a Redis cache keyed by the SHA-256
// of model and text. Cache failures fall through to the inner embedder.
type CachedEmbedder struct {
	inner  Embedder
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewCachedEmbedder(inner Embedder, client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedEmbedder) GenerateEmbedding(ctx context.Context, text string) (models.Embedding, error) {
	key := cacheKey(text)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		var embedding models.Embedding
		if err := json.Unmarshal([]byte(cached), &embedding); err == nil && len(embedding.Vector) > 0 {
			c.logger.Debug().Str("key", key).Msg("embedding cache hit")
			return embedding, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn().Err(err).Msg("embedding cache read failed")
	}

	embedding, err := c.inner.GenerateEmbedding(ctx, text)
	if err != nil {
		return models.Embedding{}, err
	}

	payload, err := json.Marshal(embedding)
	if err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Msg("embedding cache write failed")
		}
	}

	return embedding, nil
}

func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embedding:%s", hex.EncodeToString(sum[:]))
}
