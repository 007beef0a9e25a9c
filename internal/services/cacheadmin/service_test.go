package cacheadmin_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/cache-service/internal/core/cache"
	domainerrors "github.com/unifiedui/cache-service/internal/domain/errors"
	rediscache "github.com/unifiedui/cache-service/internal/infrastructure/cache/redis"
	"github.com/unifiedui/cache-service/internal/pkg/metrics"
	"github.com/unifiedui/cache-service/internal/services/cacheadmin"
	"github.com/unifiedui/cache-service/internal/testutils"
)

func setupService(t *testing.T) (*miniredis.Miniredis, cacheadmin.Service) {
	t.Helper()

	mr := testutils.RunMiniredis(t)
	client, err := rediscache.NewClient(rediscache.Config{
		Host: mr.Host(),
		Port: testutils.MiniredisPort(t, mr),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	svc, err := cacheadmin.NewService(&cacheadmin.Config{CacheClient: client})
	require.NoError(t, err)
	return mr, svc
}

func TestNewService_RequiresClient(t *testing.T) {
	_, err := cacheadmin.NewService(nil)
	assert.Error(t, err)

	_, err = cacheadmin.NewService(&cacheadmin.Config{})
	assert.Error(t, err)
}

func TestService_Status(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, &cacheadmin.Status{State: "connected", Enabled: true, Database: 0}, status)

	require.NoError(t, svc.Disable())
	status, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, &cacheadmin.Status{State: "disabled", Enabled: false}, status)
}

func TestService_GetRawAndDecoded(t *testing.T) {
	mr, svc := setupService(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("doc", `{"a":[1,2]}`))

	raw, err := svc.Get(ctx, "doc", false)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2]}`, raw.Value)

	decoded, err := svc.Get(ctx, "doc", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{float64(1), float64(2)}}, decoded.Value)

	missing, err := svc.Get(ctx, "nope", false)
	require.NoError(t, err)
	assert.Equal(t, cache.StatusNotFound, missing.Status)
	assert.Nil(t, missing.Value)
}

func TestService_ValidatesInput(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, " ", false)
	assert.True(t, domainerrors.IsValidationError(err))

	_, err = svc.Set(ctx, "k", "v", -time.Second)
	assert.True(t, domainerrors.IsValidationError(err))

	_, err = svc.Delete(ctx, "")
	assert.True(t, domainerrors.IsValidationError(err))

	_, err = svc.Expire(ctx, "k", -time.Second)
	assert.True(t, domainerrors.IsValidationError(err))

	_, err = svc.UseDatabase(ctx, -1)
	assert.True(t, domainerrors.IsValidationError(err))

	_, err = svc.IncrBy(ctx, "", 1)
	assert.True(t, domainerrors.IsValidationError(err))
}

func TestService_KeysDefaultsToEverything(t *testing.T) {
	mr, svc := setupService(t)
	require.NoError(t, mr.Set("b", "1"))
	require.NoError(t, mr.Set("a", "1"))

	keys, err := svc.Keys(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys.Value)
}

func TestService_Operations(t *testing.T) {
	mr, svc := setupService(t)
	ctx := context.Background()

	set, err := svc.Set(ctx, "n", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, set.Value)

	exists, err := svc.Exists(ctx, "n")
	require.NoError(t, err)
	assert.True(t, exists.Value)

	up, err := svc.IncrBy(ctx, "n", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), up.Value)

	down, err := svc.DecrBy(ctx, "n", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), down.Value)

	exp, err := svc.Expire(ctx, "n", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, exp.Value)
	assert.Equal(t, 5*time.Second, mr.TTL("n"))

	use, err := svc.UseDatabase(ctx, 3)
	require.NoError(t, err)
	assert.True(t, use.Value)
	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Database)

	flushed, err := svc.FlushDatabase(ctx, false)
	require.NoError(t, err)
	assert.True(t, flushed.Value)

	last, err := svc.LastError(ctx)
	require.NoError(t, err)
	assert.Equal(t, cache.StatusNotFound, last.Status)

	assert.NoError(t, svc.Ping(ctx))
}

func TestService_EnableDisable(t *testing.T) {
	mr, svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.Disable())
	res, err := svc.Set(ctx, "k", "v", 0)
	require.NoError(t, err)
	assert.True(t, res.IsDisabled())
	assert.False(t, mr.Exists("k"))

	svc.Enable()
	res, err = svc.Set(ctx, "k", "v", 0)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.True(t, mr.Exists("k"))
}

func TestService_ConcurrentCallers(t *testing.T) {
	mr, svc := setupService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("c:%02d", i)
			_, err := svc.Set(ctx, key, i, 0)
			assert.NoError(t, err)
			_, err = svc.IncrBy(ctx, "c:total", 1)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	total, err := mr.Get("c:total")
	require.NoError(t, err)
	assert.Equal(t, "20", total)

	keys, err := svc.Keys(ctx, "c:??")
	require.NoError(t, err)
	assert.Len(t, keys.Value, 20)
}

func TestService_RecordsMetrics(t *testing.T) {
	mr := testutils.RunMiniredis(t)
	client, err := rediscache.NewClient(rediscache.Config{Host: mr.Host(), Port: testutils.MiniredisPort(t, mr)})
	require.NoError(t, err)
	defer client.Close()

	collector := metrics.NewCollector("test")
	svc, err := cacheadmin.NewService(&cacheadmin.Config{CacheClient: client, Metrics: collector})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Get(ctx, "missing", false)
	require.NoError(t, err)
	require.NoError(t, mr.Set("text", "abc"))
	_, err = svc.IncrBy(ctx, "text", 1)
	require.Error(t, err)

	problems, err := testutil.GatherAndLint(collector.Registry())
	require.NoError(t, err)
	assert.Empty(t, problems)

	families, err := collector.Registry().Gather()
	require.NoError(t, err)
	outcomes := map[string]bool{}
	for _, mf := range families {
		if mf.GetName() != "test_cache_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			outcomes[labels["operation"]+"/"+labels["outcome"]] = true
		}
	}
	assert.True(t, outcomes["get/not_found"])
	assert.True(t, outcomes["incr_by/error"])
}
