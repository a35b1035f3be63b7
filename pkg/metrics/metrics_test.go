package metrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keysort/internal/runtime"
	"github.com/aretw0/keysort/pkg/domain"
	"github.com/aretw0/keysort/pkg/metrics"
)

var arrangement = domain.Trait{Name: "arrangement", TrueLabel: "opposite", FalseLabel: "alternate"}

func item(genus, species, value string) domain.Item {
	return domain.NewItem(genus, species).With("arrangement", domain.Label(value))
}

func TestCollector_BuildHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	b := runtime.NewBuilder(runtime.WithLifecycleHooks(c.Hooks()))
	_, err := b.Build(context.Background(), []domain.Item{
		item("Acer", "rubrum", "opposite"),
		item("Fraxinus", "americana", "opposite"),
		item("Prunus", "serotina", "alternate"),
	}, []domain.Trait{arrangement})
	require.NoError(t, err)

	// root + unresolved opposite group + one leaf
	assert.Equal(t, 2.0, testutil.ToFloat64(c.NodesCreated("option")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.NodesCreated("leaf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Builds("success")))

	_, err = b.Build(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Builds("error")))

	count, err := testutil.GatherAndCount(reg, "keysort_unresolved_nodes_total", "keysort_build_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCollector_Deferral(t *testing.T) {
	c := metrics.New(prometheus.NewRegistry())
	hooks := c.Hooks()
	hooks.OnDeferral(context.Background(), &domain.DeferralEvent{From: "a", To: "b"})
	hooks.OnBuildComplete(context.Background(), &domain.BuildEvent{Err: errors.New("x")})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Deferrals()))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Builds("error")))
}

func TestCollector_CacheAndIdentify(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	c.ObserveCache(true)
	c.ObserveCache(false)
	c.ObserveCache(false)
	c.ObserveIdentification(metrics.ResultResolved)

	count, err := testutil.GatherAndCount(reg, "keysort_cache_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per result")

	count, err = testutil.GatherAndCount(reg, "keysort_identifications_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	assert.Panics(t, func() { metrics.New(reg) })
}
