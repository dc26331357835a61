package redisCache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

// Store caches embedding vectors keyed by a content hash. A Store constructed
// from an offline redis (or a nil *Store) degrades to a no-op: gets miss, sets
// drop. Embedding clients never need to know whether redis is up.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger_i.Logger
}

func New(ctx context.Context) *Store {
	logger := logger_i.NewLogger("Redis Embedding Cache")

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = config.RedisAddr
	}
	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		DB:                    config.RedisEmbeddingCacheDB,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline, embedding cache disabled", "error", err.Error())
		return nil
	}

	logger.Info("Redis embedding cache init successfully")
	store := &Store{
		client: client,
		ttl:    config.RedisEmbeddingCacheTTL,
		logger: logger,
	}
	go store.closeOnDone(ctx)
	return store
}

// NewWithClient wires an existing client, used by tests with miniredis.
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
		logger: logger_i.NewLogger("Redis Embedding Cache"),
	}
}

func (s *Store) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	s.logger.Info("Closing redis embedding cache")
	if err := s.client.Close(); err != nil {
		s.logger.Error("Error closing redis client", "error", err)
	}
}

func (s *Store) GetVector(ctx context.Context, text string) ([]float32, bool) {
	if s == nil {
		return nil, false
	}
	val, err := s.client.Get(ctx, vectorKey(text)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	} else if err != nil {
		s.logger.Warn("cache get failed", "error", err)
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal([]byte(val), &vec); err != nil {
		return nil, false
	}
	return vec, true
}

func (s *Store) SetVector(ctx context.Context, text string, vec []float32) {
	if s == nil {
		return
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, vectorKey(text), data, s.ttl).Err(); err != nil {
		s.logger.Warn("cache set failed", "error", err)
	}
}

func vectorKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + hex.EncodeToString(sum[:])
}
