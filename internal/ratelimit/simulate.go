package ratelimit

import (
	"context"

	"github.com/rextra/rextra/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// SimulateLimiter throttles the purchase-simulation endpoint per client.
// It stays nil and inert when redis is not configured.
type SimulateLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewSimulateLimiter(cfg config.Config, log *zap.Logger) *SimulateLimiter {
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
		DB:       cfg.RateLimit.RedisDB,
	})

	log.Named("ratelimit").Info("simulate rate limiter enabled",
		zap.String("redis_addr", cfg.RateLimit.RedisAddr),
		zap.Float64("rate", cfg.RateLimit.SimulateRate),
		zap.Int("burst", cfg.RateLimit.SimulateBurst),
	)

	return &SimulateLimiter{
		bucket: NewTokenBucket(client),
		rate:   cfg.RateLimit.SimulateRate,
		burst:  cfg.RateLimit.SimulateBurst,
	}
}

func (l *SimulateLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *SimulateLimiter) Allow(ctx context.Context, clientKey string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, "ratelimit:simulate:"+clientKey, l.rate, l.burst)
}

var Module = fx.Module("ratelimit",
	fx.Provide(NewSimulateLimiter),
)
