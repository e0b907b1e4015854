package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtfinder/constants"
	"courtfinder/dto"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// GetFromRedis đọc JSON từ Redis vào target, found=false khi key không tồn tại
func GetFromRedis(ctx context.Context, rdb *redis.Client, key string, target interface{}) (bool, error) {
	cachedData, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(cachedData, target); err != nil {
		return false, err
	}
	return true, nil
}

// SetToRedis lưu value dưới dạng JSON với thời hạn ttl
func SetToRedis(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	dataJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, dataJSON, ttl).Err()
}

func DeleteFromRedis(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err()
}

// RatingCache lưu điểm trung bình của sân
type RatingCache interface {
	Get(ctx context.Context, courtID int64) (*dto.CourtRatingResponse, bool, error)
	Set(ctx context.Context, courtID int64, rating *dto.CourtRatingResponse) error
	Invalidate(ctx context.Context, courtID int64) error
}

type RedisRatingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRatingCache(rdb *redis.Client, ttl time.Duration) *RedisRatingCache {
	if ttl <= 0 {
		ttl = constants.RatingCacheTTL
	}
	return &RedisRatingCache{rdb: rdb, ttl: ttl}
}

func ratingCacheKey(courtID int64) string {
	return fmt.Sprintf(constants.RatingCacheKeyFormat, courtID)
}

func (c *RedisRatingCache) Get(ctx context.Context, courtID int64) (*dto.CourtRatingResponse, bool, error) {
	var rating dto.CourtRatingResponse
	found, err := GetFromRedis(ctx, c.rdb, ratingCacheKey(courtID), &rating)
	if err != nil || !found {
		return nil, false, err
	}
	return &rating, true, nil
}

func (c *RedisRatingCache) Set(ctx context.Context, courtID int64, rating *dto.CourtRatingResponse) error {
	return SetToRedis(ctx, c.rdb, ratingCacheKey(courtID), rating, c.ttl)
}

func (c *RedisRatingCache) Invalidate(ctx context.Context, courtID int64) error {
	return DeleteFromRedis(ctx, c.rdb, ratingCacheKey(courtID))
}
