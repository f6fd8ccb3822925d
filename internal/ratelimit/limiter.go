package ratelimit

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/retentionops/portal/internal/config"
)

// RequestLimiter throttles the two endpoints that accept unauthenticated
// or external traffic: login attempts and lead submissions. A nil limiter
// allows everything, so callers never branch on configuration.
type RequestLimiter struct {
	bucket *TokenBucket
	cfg    config.RateLimitConfig
	log    *zap.Logger
}

func NewRequestLimiter(cfg config.Config, log *zap.Logger) (*RequestLimiter, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
		DB:       cfg.RateLimit.RedisDB,
	})

	return &RequestLimiter{
		bucket: NewTokenBucket(client),
		cfg:    cfg.RateLimit,
		log:    log.Named("ratelimit"),
	}, nil
}

func (l *RequestLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// AllowLogin keys by client address so a brute-force source cannot
// exhaust attempts across many accounts.
func (l *RequestLimiter) AllowLogin(ctx context.Context, clientAddr string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.allow(ctx, "rl:login:"+clientAddr, l.cfg.LoginRate, l.cfg.LoginBurst)
}

// AllowLeadSubmit keys by affiliate so one integration cannot flood
// the intake pipeline.
func (l *RequestLimiter) AllowLeadSubmit(ctx context.Context, affiliateKey string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.allow(ctx, "rl:lead:"+affiliateKey, l.cfg.LeadSubmitRate, l.cfg.LeadSubmitBurst)
}

func (l *RequestLimiter) allow(ctx context.Context, key string, rate float64, burst int) (*Result, error) {
	ttl := time.Duration(l.cfg.WindowTTLSeconds) * time.Second
	res, err := l.bucket.Allow(ctx, key, rate, burst, ttl)
	if err != nil {
		// Redis being down should degrade to open, not lock everyone out.
		l.log.Warn("rate limit check failed, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)
		return &Result{Allowed: true}, nil
	}
	return res, nil
}
