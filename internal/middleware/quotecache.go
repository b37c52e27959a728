package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	quoteCachePrefix = "quotecache:v1:"
	cacheStateHeader = "X-Cache"
)

type cachedQuote struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// QuoteCache serves repeated GET requests for quote endpoints from Redis so
// short bursts of identical lookups hit the upstream services once. Only
// successful responses are stored; everything else passes through.
func QuoteCache(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		cacheKey := quoteCachePrefix + string(c.Request().URI().RequestURI())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil {
			var stored cachedQuote
			if err := json.Unmarshal([]byte(cached), &stored); err == nil {
				c.Set(fiber.HeaderContentType, stored.ContentType)
				c.Set(cacheStateHeader, "HIT")
				return c.Status(stored.Status).SendString(stored.Body)
			}
			logger.Warn("failed to decode cached quote", slog.String("key", cacheKey), slog.Any("error", err))
		} else if err != redis.Nil {
			// A broken cache must not take the quote endpoints down.
			logger.Error("quote cache lookup failed", slog.String("key", cacheKey), slog.Any("error", err))
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status != fiber.StatusOK {
			return nil
		}

		payload, err := json.Marshal(cachedQuote{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        string(c.Response().Body()),
		})
		if err != nil {
			logger.Error("failed to encode quote for caching", slog.String("key", cacheKey), slog.Any("error", err))
			return nil
		}

		persistCtx, persistCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer persistCancel()

		if err := cache.Set(persistCtx, cacheKey, payload, ttl).Err(); err != nil {
			logger.Error("failed to persist quote response", slog.String("key", cacheKey), slog.Any("error", err))
		}
		c.Set(cacheStateHeader, "MISS")

		return nil
	}
}
