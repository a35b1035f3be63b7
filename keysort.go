package keysort

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/keysort/internal/presentation/outline"
	"github.com/aretw0/keysort/internal/runtime"
	"github.com/aretw0/keysort/pkg/domain"
	"github.com/aretw0/keysort/pkg/metrics"
	"github.com/aretw0/keysort/pkg/ports"
	"github.com/aretw0/keysort/pkg/schema"
)

// Build constructs a key from items and the trait order with default
// settings: unresolved groups are kept and nothing is logged.
func Build(items []domain.Item, traits []domain.Trait) (*domain.Key, error) {
	return runtime.NewBuilder().Build(context.Background(), items, traits)
}

// Render returns the key as an indented outline, one line per answer.
func Render(key *domain.Key) string {
	return outline.String(key)
}

// Engine is the high-level entry point: it loads a dataset, builds the key
// and keeps finished keys in an optional store.
type Engine struct {
	traits  ports.TraitLoader
	items   ports.ItemLoader
	store   ports.KeyStore
	metrics *metrics.Collector
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	strict  bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithTraitLoader sets where the trait order comes from.
func WithTraitLoader(l ports.TraitLoader) Option {
	return func(e *Engine) {
		e.traits = l
	}
}

// WithItemLoader sets where items come from.
func WithItemLoader(l ports.ItemLoader) Option {
	return func(e *Engine) {
		e.items = l
	}
}

// WithDataset sets both loaders from one source.
func WithDataset(l ports.DatasetLoader) Option {
	return func(e *Engine) {
		e.traits = l
		e.items = l
	}
}

// WithStore caches built keys under the dataset fingerprint.
func WithStore(s ports.KeyStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMetrics records builds and cache lookups in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) {
		e.metrics = c
	}
}

// WithStrictResolution makes builds fail with domain.ErrUnresolved when the
// traits run out before every item is separated.
func WithStrictResolution(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// New initializes an Engine. Both a trait and an item loader are required.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.traits == nil || eng.items == nil {
		return nil, errors.New("keysort: trait and item loaders are required")
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.metrics != nil {
		eng.hooks = eng.hooks.Merge(eng.metrics.Hooks())
	}
	return eng, nil
}

// Result is a built (or cached) key and its dataset fingerprint.
type Result struct {
	Key    *domain.Key
	ID     string
	Cached bool
}

// Load reads the dataset from the configured loaders.
func (e *Engine) Load(ctx context.Context) ([]domain.Item, []domain.Trait, error) {
	traits, err := e.traits.LoadTraits(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load traits: %w", err)
	}
	items, err := e.items.LoadItems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load items: %w", err)
	}
	return items, traits, nil
}

// Validate loads the dataset and checks it field by field without building.
// Problems are reported together as a *schema.AggregateError.
func (e *Engine) Validate(ctx context.Context) error {
	items, traits, err := e.Load(ctx)
	if err != nil {
		return err
	}
	return schema.ValidateDataset(items, traits)
}

// Build loads the dataset and returns its key, from the store when an
// identical dataset was built before.
func (e *Engine) Build(ctx context.Context) (*Result, error) {
	items, traits, err := e.Load(ctx)
	if err != nil {
		return nil, err
	}

	id, err := domain.Fingerprint(items, traits)
	if err != nil {
		return nil, fmt.Errorf("fingerprint dataset: %w", err)
	}
	logger := e.logger.With("key_id", shortID(id))

	if key := e.cached(ctx, logger, id); key != nil {
		return &Result{Key: key, ID: id, Cached: true}, nil
	}

	key, err := e.builder().Build(ctx, items, traits)
	if err != nil {
		return nil, err
	}

	if e.store != nil {
		if err := e.store.Save(ctx, id, key); err != nil {
			logger.Warn("failed to cache key", "err", err)
		}
	}
	return &Result{Key: key, ID: id}, nil
}

// cached returns a stored key for id, or nil when the build must run.
// In strict mode a stored key with unresolved nodes is not reused, so that
// the build reports the error.
func (e *Engine) cached(ctx context.Context, logger *slog.Logger, id string) *domain.Key {
	if e.store == nil {
		return nil
	}
	key, err := e.store.Load(ctx, id)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
		e.observeCache(false)
		return nil
	case err != nil:
		logger.Warn("key store lookup failed, rebuilding", "err", err)
		e.observeCache(false)
		return nil
	case e.strict && len(key.Unresolved()) > 0:
		e.observeCache(false)
		return nil
	}
	logger.Debug("using cached key")
	e.observeCache(true)
	return key
}

func (e *Engine) observeCache(hit bool) {
	if e.metrics != nil {
		e.metrics.ObserveCache(hit)
	}
}

func (e *Engine) builder() *runtime.Builder {
	policy := runtime.ResidualAllow
	if e.strict {
		policy = runtime.ResidualReject
	}
	return runtime.NewBuilder(
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithResidualPolicy(policy),
	)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
