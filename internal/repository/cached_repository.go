package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pasch/receivables-engine/internal/domain"
)

const titlesCacheKey = "titles:all"

type cachedTitleRepository struct {
	inner TitleRepository
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedTitleRepository wraps a title source with a read-through Redis
// cache. Cache failures degrade to the inner source; they never fail a query.
func NewCachedTitleRepository(inner TitleRepository, redisClient *redis.Client, ttl time.Duration) TitleRepository {
	return &cachedTitleRepository{
		inner: inner,
		redis: redisClient,
		ttl:   ttl,
	}
}

func (r *cachedTitleRepository) ListTitles(ctx context.Context) ([]*domain.Title, error) {
	cached, err := r.redis.Get(ctx, titlesCacheKey).Result()
	if err == nil {
		var titles []*domain.Title
		if unmarshalErr := json.Unmarshal([]byte(cached), &titles); unmarshalErr == nil {
			return titles, nil
		}
		// Unreadable cache entry; fall through and repopulate.
		r.redis.Del(ctx, titlesCacheKey)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("titles cache read failed: %v", err)
	}

	titles, err := r.inner.ListTitles(ctx)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(titles); marshalErr == nil {
		if setErr := r.redis.Set(ctx, titlesCacheKey, payload, r.ttl).Err(); setErr != nil {
			log.Printf("titles cache write failed: %v", setErr)
		}
	}

	return titles, nil
}
