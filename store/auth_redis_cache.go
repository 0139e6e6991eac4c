package store

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

type AuthRedisCache struct {
	client *redis.Client
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewAuthRedisCache(client *redis.Client, tracer trace.Tracer, logger *logrus.Logger) domain.AuthCache {
	return &AuthRedisCache{
		client: client,
		tracer: tracer,
		logger: logger,
	}
}

func (a *AuthRedisCache) PostCacheData(ctx context.Context, key string, value string, ttl time.Duration) error {
	_, span := a.tracer.Start(ctx, "AuthRedisCache.PostCacheData")
	defer span.End()

	if err := a.client.Set(key, value, ttl).Err(); err != nil {
		span.SetStatus(codes.Error, "Error posting cached value")
		a.logger.WithError(err).Error("redis set failed")
		return err
	}
	return nil
}

// GetCachedValue returns domain.ErrNotFound when key is absent.
func (a *AuthRedisCache) GetCachedValue(ctx context.Context, key string) (string, error) {
	_, span := a.tracer.Start(ctx, "AuthRedisCache.GetCachedValue")
	defer span.End()

	value, err := a.client.Get(key).Result()
	if err == redis.Nil {
		return "", domain.ErrNotFound
	}
	if err != nil {
		span.SetStatus(codes.Error, "Error getting cached value")
		a.logger.WithError(err).Error("redis get failed")
		return "", err
	}
	return value, nil
}

func (a *AuthRedisCache) DelCachedValue(ctx context.Context, key string) error {
	_, span := a.tracer.Start(ctx, "AuthRedisCache.DelCachedValue")
	defer span.End()

	if err := a.client.Del(key).Err(); err != nil {
		span.SetStatus(codes.Error, "Error deleting cached value")
		a.logger.WithError(err).Error("redis del failed")
		return err
	}
	return nil
}
