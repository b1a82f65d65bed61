package cli

import (
	"fmt"

	"github.com/aretw0/workplane/internal/config"
	"github.com/aretw0/workplane/pkg/adapters/file"
	"github.com/aretw0/workplane/pkg/adapters/memory"
	"github.com/aretw0/workplane/pkg/adapters/redis"
	"github.com/aretw0/workplane/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// NewStore opens the configured session store. The redis backend also returns a distributed
// locker so several processes can drive the same document.
func NewStore(cfg config.StoreConfig) (ports.SessionStore, ports.DistributedLocker, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil, noop, nil
	case config.BackendFile:
		return file.New(cfg.Path), nil, noop, nil
	case config.BackendRedis:
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		opts := []redis.Option{redis.WithPrefix(prefix)}
		if ttl := cfg.Redis.TTL.Std(); ttl > 0 {
			opts = append(opts, redis.WithTTL(ttl))
		}
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redis.New(client, opts...), redis.NewLocker(client, prefix), client.Close, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
