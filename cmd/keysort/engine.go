package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/keysort"
	"github.com/aretw0/keysort/internal/adapters/file"
	"github.com/aretw0/keysort/internal/adapters/redis"
	"github.com/aretw0/keysort/internal/config"
	"github.com/aretw0/keysort/internal/logging"
	"github.com/aretw0/keysort/pkg/adapters/dataset"
	"github.com/aretw0/keysort/pkg/adapters/loam"
	"github.com/aretw0/keysort/pkg/adapters/memory"
	"github.com/aretw0/keysort/pkg/metrics"
	"github.com/aretw0/keysort/pkg/ports"
)

// app bundles what a command needs after reading config and flags.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	engine   *keysort.Engine
	metrics  *metrics.Collector
	registry *prometheus.Registry
	closers  []func() error
}

// loadConfig reads the project file and applies flag overrides on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath
	}
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return config.Config{}, fmt.Errorf("config file: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if flags.Changed("traits") {
		cfg.Traits, _ = flags.GetString("traits")
	}
	if flags.Changed("items") {
		cfg.Items, _ = flags.GetString("items")
		cfg.ItemsDir = ""
	}
	if flags.Changed("items-dir") {
		cfg.ItemsDir, _ = flags.GetString("items-dir")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("store") {
		cfg.Store.Kind, _ = flags.GetString("store")
	}
	return cfg, cfg.Validate()
}

// setup builds the engine for cmd. With instrument set, a prometheus
// registry is created and the engine reports to it.
func setup(cmd *cobra.Command, instrument bool) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		logger: logging.NewWithWriter(cmd.ErrOrStderr(), level, cfg.LogJSON),
	}

	traits := dataset.NewFileLoader(cfg.Traits, cfg.Items)
	var items ports.ItemLoader = traits
	if cfg.ItemsDir != "" {
		l, err := loam.Open(cfg.ItemsDir)
		if err != nil {
			return nil, err
		}
		items = l
	}

	opts := []keysort.Option{
		keysort.WithTraitLoader(traits),
		keysort.WithItemLoader(items),
		keysort.WithLogger(a.logger),
		keysort.WithStrictResolution(cfg.Strict),
	}

	store, err := a.openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	if store != nil {
		opts = append(opts, keysort.WithStore(store))
	}

	if instrument {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		a.metrics = metrics.New(a.registry)
		opts = append(opts, keysort.WithMetrics(a.metrics))
	}

	a.engine, err = keysort.New(opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) (ports.KeyStore, error) {
	switch a.cfg.Store.Kind {
	case "", config.StoreNone:
		return nil, nil
	case config.StoreMemory:
		return memory.NewStore(), nil
	case config.StoreFile:
		return file.New(a.cfg.Store.Path), nil
	case config.StoreRedis:
		rc := a.cfg.Store.Redis
		s := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		a.closers = append(a.closers, s.Close)
		if err := s.Ping(ctx); err != nil {
			// A cache outage should not stop the build.
			a.logger.Warn("redis unreachable, key cache disabled", "addr", rc.Addr, "err", err)
			return nil, nil
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store kind %q", a.cfg.Store.Kind)
}

// Close releases store connections.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Debug("close failed", "err", err)
		}
	}
}

// buildKey runs the engine and logs where the key came from.
func (a *app) buildKey(ctx context.Context) (*keysort.Result, error) {
	res, err := a.engine.Build(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("key ready", "id", res.ID, "cached", res.Cached)
	return res, nil
}
