// Package redis implements the bench.Adapter contract against Redis,
// storing each record's generated value as a plain string at a key derived
// from the harness's key encoding, grounded on the pack's own
// go-redis/v9-based persistence and rate-limiting patterns.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/dbutils"
	"github.com/surrealdb/crud-bench/internal/docker"
	"github.com/surrealdb/crud-bench/internal/keys"
	"github.com/surrealdb/crud-bench/internal/values"
)

const (
	defaultImage = "redis:7"
	defaultPort  = "6379"

	keyPrefix           = "bench:"
	containerNamePrefix = "crud-bench-redis"
)

// Adapter implements bench.Adapter for Redis.
type Adapter struct {
	bench.UnsupportedBatches

	client    *goredis.Client
	container *docker.Container
	sync      bool
}

// New creates an unconnected Redis adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() string   { return "redis" }
func (a *Adapter) Blocking() bool { return false }

func (a *Adapter) Startup(ctx context.Context, tmpl *values.Template, cfg bench.StartupConfig) error {
	a.sync = cfg.Sync
	image := cfg.Image
	if image == "" {
		image = defaultImage
	}

	addr := cfg.Endpoint
	if addr == "" {
		container, err := startContainer(ctx, image, cfg.Privileged)
		if err != nil {
			return fmt.Errorf("failed to start redis container: %w", err)
		}
		a.container = container
		addr = "localhost:" + defaultPort
	}

	a.client = goredis.NewClient(&goredis.Options{Addr: addr})
	return a.client.Ping(ctx).Err()
}

func (a *Adapter) Shutdown(ctx context.Context) error {
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	if a.container != nil {
		if err := a.container.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop redis container: %w", err)
		}
	}
	return nil
}

func (a *Adapter) redisKey(k keys.Key) string { return keyPrefix + k.String() }

func (a *Adapter) Create(ctx context.Context, key keys.Key, value []byte) (time.Duration, error) {
	start := time.Now()
	err := a.client.Set(ctx, a.redisKey(key), value, 0).Err()
	if err == nil && a.sync {
		err = a.client.Do(ctx, "WAIT", 0, 1000).Err()
	}
	return time.Since(start), err
}

func (a *Adapter) Read(ctx context.Context, key keys.Key) (time.Duration, bool, error) {
	start := time.Now()
	_, err := a.client.Get(ctx, a.redisKey(key)).Result()
	elapsed := time.Since(start)
	if err == goredis.Nil {
		return elapsed, false, nil
	}
	if err != nil {
		return elapsed, false, err
	}
	return elapsed, true, nil
}

func (a *Adapter) Update(ctx context.Context, key keys.Key, value []byte) (time.Duration, error) {
	return a.Create(ctx, key, value)
}

func (a *Adapter) Delete(ctx context.Context, key keys.Key) (time.Duration, error) {
	start := time.Now()
	err := a.client.Del(ctx, a.redisKey(key)).Err()
	return time.Since(start), err
}

func (a *Adapter) Scan(ctx context.Context, d bench.ScanDescriptor) (time.Duration, int, error) {
	start := time.Now()
	var (
		cursor uint64
		count  int
		full   = d.Projection == bench.ProjectionFull
	)
	for {
		var batch []string
		var err error
		batch, cursor, err = a.client.Scan(ctx, cursor, keyPrefix+"*", 1000).Result()
		if err != nil {
			return time.Since(start), count, err
		}
		if full {
			for _, k := range batch {
				if _, err := a.client.Get(ctx, k).Result(); err != nil && err != goredis.Nil {
					return time.Since(start), count, err
				}
			}
		}
		count += len(batch)
		if cursor == 0 {
			break
		}
		if d.Limit > 0 && count >= d.Limit {
			count = d.Limit
			break
		}
	}
	return time.Since(start), count, nil
}

func startContainer(ctx context.Context, image string, privileged bool) (*docker.Container, error) {
	containerName := fmt.Sprintf("%s-%d", containerNamePrefix, time.Now().UnixNano())
	ports := map[string]string{"6379/tcp": defaultPort}

	container, err := dbutils.CreateContainerWithRetry(ctx, containerName, image, ports, privileged, nil)
	if err != nil {
		return nil, err
	}

	checkFunc := func(ctx context.Context) error {
		client := goredis.NewClient(&goredis.Options{Addr: "localhost:" + defaultPort})
		defer client.Close()
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(ctx).Err()
	}

	if err := container.WaitForHealthy(ctx, 60*time.Second, checkFunc); err != nil {
		_ = container.Stop(ctx)
		return nil, fmt.Errorf("redis health check failed: %w", err)
	}
	return container, nil
}
