package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/loan-match/internal/cache"
	"github.com/iwvelando/loan-match/internal/config"
	"github.com/iwvelando/loan-match/internal/profile"
	"github.com/iwvelando/loan-match/internal/recommend"
	"github.com/iwvelando/loan-match/internal/store"
	"github.com/iwvelando/loan-match/pkg/constants"
	"github.com/iwvelando/loan-match/pkg/events"
	"go.uber.org/zap"
)

// app wires the repositories and services seeded from one configuration.
type app struct {
	offers   *store.Memory[recommend.LoanOffer]
	profiles *profile.Service
	cache    cache.Cache
	bus      *events.Bus
	closers  []func() error
}

func newApp(conf *config.Configuration, logger *zap.Logger) (*app, error) {
	offers, err := store.NewMemory(conf.Offers...)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers: %w", err)
	}
	profiles, err := store.NewMemory(conf.Profiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	applications, err := store.NewMemory(conf.Applications...)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}

	bus := events.NewBus(logger)
	a := &app{
		offers:   offers,
		profiles: profile.NewService(profiles, applications, bus, logger),
		bus:      bus,
	}

	if err := a.configureCache(conf.Cache, logger); err != nil {
		return nil, err
	}

	logger.Info("loaded data",
		zap.String("op", "main.newApp"),
		zap.Int("offers", len(conf.Offers)),
		zap.Int("profiles", len(conf.Profiles)),
		zap.Int("applications", len(conf.Applications)),
	)
	return a, nil
}

func (a *app) configureCache(cfg config.CacheConfig, logger *zap.Logger) error {
	ttl, err := cfg.TTLDuration()
	if err != nil {
		return err
	}

	if strings.EqualFold(cfg.Backend, constants.CacheBackendRedis) {
		redisCache := cache.NewRedis(cfg.RedisAddress, ttl)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, falling back to the memory cache",
				zap.String("op", "main.configureCache"),
				zap.String("address", cfg.RedisAddress),
				zap.Error(err),
			)
			_ = redisCache.Close()
		} else {
			a.cache = redisCache
			a.closers = append(a.closers, redisCache.Close)
			return nil
		}
	}

	a.cache = cache.NewMemory(ttl)
	return nil
}

// logEvents subscribes a logger to every topic the application publishes.
func (a *app) logEvents(logger *zap.Logger) {
	for _, topic := range []string{events.TopicRecommendationsGenerated, events.TopicApplicationSubmitted} {
		a.bus.Subscribe(topic, func(e events.Event) {
			logger.Info("event published",
				zap.String("op", "main.logEvents"),
				zap.String("topic", e.Topic),
				zap.String("eventID", e.ID),
				zap.Any("payload", e.Payload),
			)
		})
	}
}

func (a *app) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
