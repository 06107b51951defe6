package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheuskafuri/jsweekly/internal/cache"
	"github.com/matheuskafuri/jsweekly/internal/config"
	"github.com/matheuskafuri/jsweekly/internal/issue"
	"github.com/matheuskafuri/jsweekly/internal/logger"
	"github.com/matheuskafuri/jsweekly/internal/source"
)

// app holds everything a command needs once config is loaded.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	cache    *cache.Cache
	fetcher  *source.HTTPFetcher
	resolver *issue.Resolver
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := applyOverrides(cfg); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	c := cache.New(store)

	fetcher := source.NewHTTPFetcher(source.Options{
		Timeout:      cfg.FetchTimeout(),
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	})

	return &app{
		cfg:      cfg,
		log:      log,
		cache:    c,
		fetcher:  fetcher,
		resolver: issue.NewResolver(cfg, fetcher, c, log),
	}, nil
}

func (a *app) Close() error {
	err := a.cache.Close()
	_ = a.log.Sync()
	return err
}

// applyOverrides lets global flags win over the config file.
func applyOverrides(cfg *config.Config) error {
	if flagCache != "" {
		if err := config.ValidateBackend(flagCache); err != nil {
			return err
		}
		cfg.Cache.Backend = flagCache
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case config.BackendSQLite, "":
		return cache.OpenSQLite(cfg.CachePath())
	case config.BackendFile:
		return cache.OpenFile(cfg.CachePath())
	case config.BackendMemory:
		return cache.NewMemory(), nil
	case config.BackendRedis:
		r := cfg.Cache.Redis
		return cache.OpenRedis(ctx, cache.RedisOptions{
			Address:  r.Address,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
	}
	return nil, errors.New("unknown cache backend " + cfg.Cache.Backend)
}

// cacheLocation describes where the configured backend keeps its data.
func cacheLocation(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case config.BackendMemory:
		return "in-process memory"
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d (prefix %q)", cfg.Cache.Redis.Address, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
	}
	return cfg.CachePath()
}
