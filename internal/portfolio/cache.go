package portfolio

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "portfolio:doc"

// CachedLoader is a read-through Redis cache in front of another
// Loader. Cache failures fall back to the inner loader; they never fail
// the request.
type CachedLoader struct {
	inner  Loader
	client *redis.Client
	ttl    time.Duration
}

func NewCachedLoader(inner Loader, client *redis.Client, ttl time.Duration) *CachedLoader {
	return &CachedLoader{inner: inner, client: client, ttl: ttl}
}

func (l *CachedLoader) Load(ctx context.Context) (string, error) {
	if l.client == nil || l.ttl <= 0 {
		return l.inner.Load(ctx)
	}

	text, err := l.client.Get(ctx, cacheKey).Result()
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Printf("[warn] portfolio cache read failed: %v", err)
	}

	text, err = l.inner.Load(ctx)
	if err != nil {
		return "", err
	}

	if err := l.client.Set(ctx, cacheKey, text, l.ttl).Err(); err != nil {
		log.Printf("[warn] portfolio cache write failed: %v", err)
	}
	return text, nil
}
