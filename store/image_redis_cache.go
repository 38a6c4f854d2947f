package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ImageRedisCache struct {
	cli    *redis.Client
	logger *logrus.Logger
	tracer trace.Tracer
}

func NewImageRedisCache(client *redis.Client, logger *logrus.Logger, tracer trace.Tracer) *ImageRedisCache {
	return &ImageRedisCache{
		cli:    client,
		logger: logger,
		tracer: tracer,
	}
}

// Check connection function
func (cache *ImageRedisCache) Ping() {
	val, _ := cache.cli.Ping().Result()
	cache.logger.Println(val)
}

// Set key-value pair with default expiration
func (cache *ImageRedisCache) Post(ctx context.Context, imageName string, image []byte) error {
	ctx, span := cache.tracer.Start(ctx, "ImageCache.Post")
	defer span.End()

	err := cache.cli.Set(constructKey(imageName), image, 30*time.Minute).Err()
	if err == nil {
		cache.logger.Println("Cache hit - set image")
	}
	return err
}

// Get value by key
func (cache *ImageRedisCache) Get(ctx context.Context, imageName string) ([]byte, error) {
	ctx, span := cache.tracer.Start(ctx, "ImageCache.Get")
	defer span.End()

	value, err := cache.cli.Get(constructKey(imageName)).Bytes()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	cache.logger.Println("Cache hit - get image")
	return value, nil
}

// Check if given key exists
func (cache *ImageRedisCache) Exists(imageName string) bool {
	cnt, err := cache.cli.Exists(constructKey(imageName)).Result()
	if err != nil {
		return false
	}
	return cnt == 1
}

func constructKey(imageName string) string {
	return fmt.Sprintf("uploads:%s", imageName)
}
