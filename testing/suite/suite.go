// Package suite starts a throwaway Redis container for snapshot store tests.
package suite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/logger"
)

const (
	containerTTL = 120 // seconds before docker hard-kills the container
	maxWait      = 120 * time.Second

	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"

	// GameKeyPattern matches every snapshot key written by the game repository.
	GameKeyPattern = "game:*"
)

// Suite is a test harness backed by its own Redis container.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
}

// New starts Redis and returns a client on an empty database. Snapshot keys
// are removed again when the test ends.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWait)
	t.Cleanup(cancel)

	client := startRedis(ctx, t)

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	st := &Suite{
		T:       t,
		Logger:  logger.New(os.Stdout, "info"),
		Storage: client,
	}

	t.Cleanup(func() {
		if err := st.DeleteGames(ctx); err != nil {
			t.Logf("could not clean up game keys: %v", err)
		}
	})

	return ctx, st
}

// GameKeys lists the stored snapshot keys in sorted order.
func (that *Suite) GameKeys(ctx context.Context) []string {
	that.Helper()

	var keys []string

	iter := that.Storage.Scan(ctx, 0, GameKeyPattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		that.Fatalf("could not scan game keys: %v", err)
	}

	sort.Strings(keys)

	return keys
}

// DeleteGames removes every snapshot key and leaves other keys alone.
func (that *Suite) DeleteGames(ctx context.Context) error {
	iter := that.Storage.Scan(ctx, 0, GameKeyPattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := that.Storage.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan game keys: %w", err)
	}

	return nil
}

func startRedis(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis: %v", err)
	}

	// never returns error
	_ = resource.Expire(containerTTL)

	t.Cleanup(func() {
		if err = pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis: %v", err)
		}
	})

	// redis may not accept connections right after the container starts
	pool.MaxWait = maxWait

	client := redis.NewClient(&redis.Options{Addr: resource.GetHostPort(redisPort)})
	if err = pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
