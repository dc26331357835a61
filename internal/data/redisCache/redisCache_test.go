package redisCache

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestVectorRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewWithClient(client, time.Hour)
	ctx := context.Background()

	if _, found := cache.GetVector(ctx, "hello"); found {
		t.Fatal("unexpected hit on empty cache")
	}

	vec := []float32{0.1, -0.5, 0.9}
	cache.SetVector(ctx, "hello", vec)

	got, found := cache.GetVector(ctx, "hello")
	if !found {
		t.Fatal("vector not found after set")
	}
	if !reflect.DeepEqual(got, vec) {
		t.Errorf("got %v, want %v", got, vec)
	}

	// Same text, different whitespace is a different key.
	if _, found := cache.GetVector(ctx, "hello "); found {
		t.Error("distinct texts share a cache key")
	}
}

func TestVectorExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewWithClient(client, time.Minute)
	ctx := context.Background()

	cache.SetVector(ctx, "hello", []float32{1})
	mr.FastForward(2 * time.Minute)

	if _, found := cache.GetVector(ctx, "hello"); found {
		t.Error("vector survived its TTL")
	}
}

func TestNilStoreIsNoop(t *testing.T) {
	var cache *Store
	ctx := context.Background()

	cache.SetVector(ctx, "hello", []float32{1})
	if _, found := cache.GetVector(ctx, "hello"); found {
		t.Error("nil store returned a hit")
	}
}
