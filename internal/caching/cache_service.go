package caching

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "clinicalfresh"

type CacheService interface {
	// Unread notification counts
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, bool, error)
	SetUnreadCount(ctx context.Context, userID uuid.UUID, count int, ttl time.Duration) error
	DeleteUnreadCount(ctx context.Context, userID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// MarkOnce reports true the first time key is seen within ttl.
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Unmark releases a key taken by MarkOnce.
	Unmark(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService wraps a client built by the caller.
func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

// NewRedisClient builds the shared client from an address that may carry a
// redis:// or rediss:// scheme.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if opts, err := redis.ParseURL(addr); err == nil {
		if password != "" {
			opts.Password = password
		}
		return redis.NewClient(opts), nil
	}
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), nil
}

func unreadKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:notifications:unread:%s", keyPrefix, userID.String())
}

func (r *redisCacheService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	val, err := r.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil // cache miss
		}
		return 0, false, err
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (r *redisCacheService) SetUnreadCount(ctx context.Context, userID uuid.UUID, count int, ttl time.Duration) error {
	return r.client.Set(ctx, unreadKey(userID), count, ttl).Err()
}

func (r *redisCacheService) DeleteUnreadCount(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, unreadKey(userID)).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func onceKey(key string) string {
	return fmt.Sprintf("%s:once:%s", keyPrefix, key)
}

func (r *redisCacheService) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, onceKey(key), time.Now().Unix(), ttl).Result()
}

func (r *redisCacheService) Unmark(ctx context.Context, key string) error {
	return r.client.Del(ctx, onceKey(key)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
