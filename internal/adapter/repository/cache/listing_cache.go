package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	boardKeyPrefix = "listings:board:"
	boardGenKey    = "listings:board:gen"
)

// ListingCache keeps the sorted board in Redis as one JSON document per generation.
// Invalidate bumps the generation counter; stale snapshots expire with their TTL.
type ListingCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func NewListingCache(client *redis.Client, log *logger.Logger) *ListingCache {
	return &ListingCache{client: client, logger: log.Named("ListingCache")}
}

func boardKey(gen int64) string {
	return boardKeyPrefix + strconv.FormatInt(gen, 10)
}

// GetAll returns the current generation and its board, or a nil board on a miss.
func (c *ListingCache) GetAll(ctx context.Context) (int64, []*domain.Listing, error) {
	gen, err := c.client.Get(ctx, boardGenKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, nil, fmt.Errorf("redis get %s: %w", boardGenKey, err)
	}

	key := boardKey(gen)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return gen, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	listings, err := decodeBoard(data)
	if err != nil {
		c.logger.Warn("Dropping unreadable board snapshot", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return gen, nil, nil
	}
	return gen, listings, nil
}

func (c *ListingCache) SetAll(ctx context.Context, gen int64, listings []*domain.Listing, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	return c.client.Set(ctx, boardKey(gen), data, ttl).Err()
}

func (c *ListingCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, boardGenKey).Err()
}

func decodeBoard(data []byte) ([]*domain.Listing, error) {
	listings := []*domain.Listing{}
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}
